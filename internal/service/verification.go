package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/moonlit/verifybot/internal/config"
	"github.com/moonlit/verifybot/internal/domain"
	"github.com/moonlit/verifybot/internal/repository"
	"github.com/moonlit/verifybot/pkg/hash"
	"github.com/moonlit/verifybot/pkg/otp"

	"go.uber.org/zap"
)

type verificationService struct {
	pendingRepository repository.PendingVerifications
	hasher            hash.Hasher
	codeGenerator     otp.Generator
	emails            *EmailService
	guilds            GuildGateway
	config            config.VerificationConfig
	logger            *zap.SugaredLogger
}

func newVerificationService(
	pendingRepository repository.PendingVerifications,
	hasher hash.Hasher,
	codeGenerator otp.Generator,
	emails *EmailService,
	guilds GuildGateway,
	config config.VerificationConfig,
	logger *zap.SugaredLogger,
) *verificationService {
	return &verificationService{
		pendingRepository: pendingRepository,
		hasher:            hasher,
		codeGenerator:     codeGenerator,
		emails:            emails,
		guilds:            guilds,
		config:            config,
		logger:            logger,
	}
}

// RequestVerification issues a new code for the user: insert the pending row
// first, then attempt the mail. A failed send keeps the row; the expiry window
// ages it out, so no cleanup is needed and the user simply re-requests.
func (s *verificationService) RequestVerification(ctx context.Context, userID string, rawEmail string) (time.Duration, error) {
	const op = "service.verification.RequestVerification"

	rawEmail = strings.TrimSpace(rawEmail)
	if strings.Count(rawEmail, "@") != 1 {
		return 0, ErrInvalidEmail
	}

	guildID, err := s.guilds.SharedGuild(ctx, userID)
	if err != nil {
		return 0, err
	}

	code, err := s.codeGenerator.Generate()
	if err != nil {
		return 0, fmt.Errorf("%s: generate code failed: %w", op, err)
	}

	now := time.Now().Unix()
	pending := &domain.PendingVerification{
		UserID:        userID,
		GuildID:       guildID,
		EmailHash:     s.hasher.Hash(rawEmail),
		CodeHash:      s.hasher.Hash(code),
		CodeExpiresAt: now + int64(s.config.CodeExpiry.Seconds()),
		Verified:      false,
		CreatedAt:     now,
	}

	if _, err := s.pendingRepository.Create(ctx, pending); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.emails.SendVerificationCode(rawEmail, code, s.config.CodeExpiry); err != nil {
		s.logger.Warnw("verification mail send failed", "user_id", userID, "error", err)
		return 0, fmt.Errorf("%w: %s", ErrMailSend, err)
	}

	return s.config.CodeExpiry, nil
}

// ConfirmCode checks the submitted code against the latest unverified attempt.
// The row is mutated only on full success, and only after the role grant went
// through, so a failed grant can be retried with the same still-valid code.
func (s *verificationService) ConfirmCode(ctx context.Context, userID string, rawCode string) error {
	const op = "service.verification.ConfirmCode"

	pending, err := s.pendingRepository.GetLatestUnverified(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrNoPendingRequest
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if pending.ExpiredAt(time.Now().Unix()) {
		return ErrCodeExpired
	}

	if s.hasher.Hash(strings.TrimSpace(rawCode)) != pending.CodeHash {
		return ErrCodeMismatch
	}

	if err := s.guilds.EnsureMember(ctx, pending.GuildID, userID); err != nil {
		return err
	}

	if err := s.guilds.GrantVerifiedRole(ctx, pending.GuildID, userID); err != nil {
		return fmt.Errorf("%w: %s", ErrRoleGrant, err)
	}

	if err := s.pendingRepository.MarkVerified(ctx, pending.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Infow("user verified", "user_id", userID, "guild_id", pending.GuildID)

	return nil
}
