package service

import "errors"

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrNotInGuild       = errors.New("no shared guild with user")
	ErrNotAMember       = errors.New("user is not a guild member")
	ErrNoPendingRequest = errors.New("no pending verification request")
	ErrCodeExpired      = errors.New("verification code expired")
	ErrCodeMismatch     = errors.New("verification code mismatch")
	ErrMailSend         = errors.New("verification mail send failed")
	ErrRoleGrant        = errors.New("verified role grant failed")
)
