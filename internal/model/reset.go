package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultResetTokenTTL is the lifetime of a password reset token.
const DefaultResetTokenTTL = time.Hour

// ResetToken is a single-use proof that the holder received the reset email.
// Only the SHA-256 of the secret is persisted.
type ResetToken struct {
	TokenHash  []byte
	UserID     uuid.UUID
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// ResetTokenStore persists reset tokens.
type ResetTokenStore interface {
	Create(ctx context.Context, token ResetToken) error
	// Consume marks the token used and returns its owner. Unknown, expired
	// and already consumed tokens return ErrResetTokenInvalid.
	Consume(ctx context.Context, tokenHash []byte) (uuid.UUID, error)
}
