package service

import (
	"fmt"
	"time"

	emailProvider "github.com/moonlit/verifybot/pkg/email"
)

type EmailService struct {
	sender emailProvider.Sender
}

func newEmailService(sender emailProvider.Sender) *EmailService {
	return &EmailService{
		sender: sender,
	}
}

// SendVerificationCode mails the one-time code in plaintext together with the
// window after which it stops being accepted.
func (s *EmailService) SendVerificationCode(to string, code string, expiry time.Duration) error {
	minutes := int(expiry.Minutes())

	sendInput := emailProvider.SendEmailInput{
		To:      to,
		Subject: "Your Discord verification code",
		Body: fmt.Sprintf(
			"Your verification code is: %s\nThis code expires in %d minutes.",
			code, minutes,
		),
	}

	return s.sender.Send(sendInput)
}
