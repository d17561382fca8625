package email

import (
	"errors"
	"regexp"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+$`)

type SendEmailInput struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(input SendEmailInput) error
}

func (e *SendEmailInput) Validate() error {
	if e.To == "" {
		return errors.New("empty to")
	}

	if e.Subject == "" || e.Body == "" {
		return errors.New("empty subject/body")
	}

	if !IsEmailValid(e.To) {
		return errors.New("invalid to email")
	}

	return nil
}

// IsEmailValid is deliberately loose: anything with a local part and a domain
// around a single "@" passes. Stricter RFC validation is out of scope.
func IsEmailValid(address string) bool {
	return emailRegexp.MatchString(address)
}
