package repository

import (
	"context"

	"github.com/moonlit/verifybot/internal/domain"

	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	PendingVerifications PendingVerifications
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		PendingVerifications: newPendingVerificationRepository(db),
	}
}

type PendingVerifications interface {
	Create(ctx context.Context, pending *domain.PendingVerification) (int64, error)
	GetLatestUnverified(ctx context.Context, userID string) (*domain.PendingVerification, error)
	MarkVerified(ctx context.Context, id int64) error
}
