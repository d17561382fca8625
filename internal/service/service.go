package service

import (
	"context"
	"time"

	"github.com/moonlit/verifybot/internal/config"
	"github.com/moonlit/verifybot/internal/repository"
	"github.com/moonlit/verifybot/pkg/email"
	"github.com/moonlit/verifybot/pkg/hash"
	"github.com/moonlit/verifybot/pkg/otp"

	"go.uber.org/zap"
)

type Services struct {
	Verifications Verifications
}

type Deps struct {
	Logger        *zap.SugaredLogger
	Config        *config.Config
	Hasher        hash.Hasher
	CodeGenerator otp.Generator
	EmailSender   email.Sender
	Repos         *repository.Repositories
	Guilds        GuildGateway
}

func NewServices(deps Deps) *Services {
	emails := newEmailService(deps.EmailSender)

	return &Services{
		Verifications: newVerificationService(
			deps.Repos.PendingVerifications,
			deps.Hasher,
			deps.CodeGenerator,
			emails,
			deps.Guilds,
			deps.Config.Verification,
			deps.Logger,
		),
	}
}

type Verifications interface {
	RequestVerification(ctx context.Context, userID string, rawEmail string) (time.Duration, error)
	ConfirmCode(ctx context.Context, userID string, rawCode string) error
}

// GuildGateway is the slice of the chat platform the state machine needs:
// membership resolution and the verified-role grant.
type GuildGateway interface {
	// SharedGuild resolves a guild the bot shares with the user, or
	// ErrNotInGuild when there is none.
	SharedGuild(ctx context.Context, userID string) (string, error)
	// EnsureMember checks the user is currently a member of the guild, or
	// ErrNotAMember.
	EnsureMember(ctx context.Context, guildID string, userID string) error
	// GrantVerifiedRole reuses or creates the configured verified role and
	// grants it to the member.
	GrantVerifiedRole(ctx context.Context, guildID string, userID string) error
}
