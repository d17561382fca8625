package discord

import (
	"errors"
	"fmt"
	"time"

	"github.com/moonlit/verifybot/internal/service"
)

const (
	replyUnexpected = "❌ Something went wrong. Please try again later."

	replyInvalidEmail = "❌ That doesn't look like an email address. Please try again."
	replyNotInGuild   = "❌ I couldn't find a server we share. Please join the server first."
	replyMailFailed   = "❌ Sending the email failed. Please check your address and try again."

	replyNoPending  = "❌ No verification in progress. Start with `!email your@email.com`."
	replyExpired    = "⚠️ Your code has expired. Please request a new one with `!email`."
	replyMismatch   = "❌ Wrong code. Please try again."
	replyNotAMember = "❌ You are not a member of the server."
	replyRoleGrant  = "❌ I couldn't assign your role. Please try again later."
)

// errorReply maps a verification failure to the text the user sees. Every
// failure gets a reply; none propagate past the command boundary.
func errorReply(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return replyInvalidEmail
	case errors.Is(err, service.ErrNotInGuild):
		return replyNotInGuild
	case errors.Is(err, service.ErrMailSend):
		return replyMailFailed
	case errors.Is(err, service.ErrNoPendingRequest):
		return replyNoPending
	case errors.Is(err, service.ErrCodeExpired):
		return replyExpired
	case errors.Is(err, service.ErrCodeMismatch):
		return replyMismatch
	case errors.Is(err, service.ErrNotAMember):
		return replyNotAMember
	case errors.Is(err, service.ErrRoleGrant):
		return replyRoleGrant
	default:
		return replyUnexpected
	}
}

func requestAcceptedReply(email string, expiresIn time.Duration) string {
	return fmt.Sprintf(
		"📧 A verification code was sent to %s.\nReply with `!code <code>` within %d minutes.",
		email, int(expiresIn.Minutes()),
	)
}

func verifiedReply(roleName string) string {
	return fmt.Sprintf("✅ You're verified! You now have the **%s** role 🎉", roleName)
}
