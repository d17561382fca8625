package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/moonlit/verifybot/internal/domain"
)

type pendingVerificationRepository struct {
	db *sqlx.DB
}

func newPendingVerificationRepository(db *sqlx.DB) *pendingVerificationRepository {
	return &pendingVerificationRepository{
		db: db,
	}
}

func (r *pendingVerificationRepository) Create(ctx context.Context, pending *domain.PendingVerification) (int64, error) {
	const op = "repository.pendingVerification.Create"

	const query = `
    INSERT INTO pending_verifications (user_id, guild_id, email_hash, code_hash, code_expires_at, verified, created_at)
    VALUES (:user_id, :guild_id, :email_hash, :code_hash, :code_expires_at, :verified, :created_at)
    `

	res, err := r.db.NamedExecContext(ctx, query, pending)
	if err != nil {
		return 0, fmt.Errorf("%s: insert pending verification failed: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: get last insert id failed: %w", op, err)
	}

	return id, nil
}

// GetLatestUnverified returns the authoritative attempt for a user: the most
// recently created unverified row. Older rows are superseded, not deleted.
func (r *pendingVerificationRepository) GetLatestUnverified(ctx context.Context, userID string) (*domain.PendingVerification, error) {
	const op = "repository.pendingVerification.GetLatestUnverified"

	const query = `
    SELECT id, user_id, guild_id, email_hash, code_hash, code_expires_at, verified, created_at
    FROM pending_verifications
    WHERE user_id = ? AND verified = 0
    ORDER BY created_at DESC, id DESC
    LIMIT 1
    `

	var pending domain.PendingVerification
	if err := r.db.GetContext(ctx, &pending, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select pending verification failed: %w", op, err)
	}

	return &pending, nil
}

// MarkVerified flips the row to verified. The update is idempotent: flipping
// an already verified row affects zero rows and is not an error.
func (r *pendingVerificationRepository) MarkVerified(ctx context.Context, id int64) error {
	const op = "repository.pendingVerification.MarkVerified"

	const query = `
    UPDATE pending_verifications
    SET verified = 1
    WHERE id = ?
    `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: update pending verification failed: %w", op, err)
	}

	return nil
}
