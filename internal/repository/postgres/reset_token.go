package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/useraccounts-server/internal/model"
)

var _ model.ResetTokenStore = (*ResetTokenRepository)(nil)

type ResetTokenRepository struct {
	db *Connection
}

func NewResetTokenRepository(db *Connection) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, token model.ResetToken) error {
	const query = `
        INSERT INTO password_reset_tokens (token_hash, user_id, expires_at, created_at)
        VALUES ($1, $2, $3, $4)
    `

	_, err := r.db.ExecContext(ctx, query, token.TokenHash, token.UserID, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// Consume marks the token used in a single statement, so two concurrent
// submissions of one token cannot both succeed.
func (r *ResetTokenRepository) Consume(ctx context.Context, tokenHash []byte) (uuid.UUID, error) {
	const query = `
        UPDATE password_reset_tokens SET consumed_at = NOW()
        WHERE token_hash = $1 AND consumed_at IS NULL AND expires_at > NOW()
        RETURNING user_id
    `

	var userID uuid.UUID
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, model.ErrResetTokenInvalid
		}
		return uuid.Nil, fmt.Errorf("failed to consume reset token: %w", err)
	}

	return userID, nil
}
