package smtp

import (
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/go-gomail/gomail"
	"github.com/moonlit/verifybot/pkg/email"
)

const implicitTLSPort = 465

type SMTPSender struct {
	from string
	user string
	pass string
	host string
	port int
}

func NewSMTPSender(from, user, pass, host string, port int) (*SMTPSender, error) {
	if !email.IsEmailValid(from) {
		return nil, errors.New("invalid from email")
	}

	if host == "" || port == 0 {
		return nil, errors.New("empty smtp host/port")
	}

	return &SMTPSender{from: from, user: user, pass: pass, host: host, port: port}, nil
}

func (s *SMTPSender) Send(input email.SendEmailInput) error {
	if err := input.Validate(); err != nil {
		return fmt.Errorf("validate email input failed: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", input.To)
	msg.SetHeader("Subject", input.Subject)
	msg.SetBody("text/plain", input.Body)

	dialer := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	if s.port == implicitTLSPort {
		dialer.SSL = true
	}
	dialer.TLSConfig = &tls.Config{ServerName: s.host}

	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email via smtp failed: %w", err)
	}

	return nil
}
