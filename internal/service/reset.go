package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/useraccounts-server/internal/apierrors"
	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/mail"
	"github.com/dtroode/useraccounts-server/internal/model"
)

const resetSecretSize = 32

// Reset coordinates the forgot-password flow: it mails a single-use link and
// later accepts a new password against the secret in that link.
type Reset struct {
	userStore  model.UserStore
	tokenStore model.ResetTokenStore
	hasher     model.PasswordHasher
	mailer     model.Mailer
	logger     *logger.Logger
	resetURL   string
	ttl        time.Duration
	now        func() time.Time
}

func NewReset(
	userStore model.UserStore,
	tokenStore model.ResetTokenStore,
	hasher model.PasswordHasher,
	mailer model.Mailer,
	logger *logger.Logger,
	resetURL string,
	ttl time.Duration,
) *Reset {
	if ttl <= 0 {
		ttl = model.DefaultResetTokenTTL
	}
	return &Reset{
		userStore:  userStore,
		tokenStore: tokenStore,
		hasher:     hasher,
		mailer:     mailer,
		logger:     logger,
		resetURL:   resetURL,
		ttl:        ttl,
		now:        time.Now,
	}
}

func hashResetToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

func newResetSecret() (string, error) {
	buf := make([]byte, resetSecretSize)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *Reset) resetLink(userID uuid.UUID, secret string) (string, error) {
	u, err := url.Parse(s.resetURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse reset url: %w", err)
	}
	q := u.Query()
	q.Set("user_id", userID.String())
	q.Set("token", secret)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RequestReset mails a reset link to the owner of email. User state is not
// changed; only a reset token is stored.
func (s *Reset) RequestReset(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)
	s.logger.Debug("Reset service: reset requested",
		"email", email)

	user, err := s.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Reset service: reset requested for unknown email",
			"email", email)
		return apierrors.NewErrUserNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	secret, err := newResetSecret()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	link, err := s.resetLink(user.ID, secret)
	if err != nil {
		return err
	}

	now := s.now()
	err = s.tokenStore.Create(ctx, model.ResetToken{
		TokenHash: hashResetToken(secret),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	})
	if err != nil {
		s.logger.Error("Reset service: failed to store reset token",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	body, err := mail.RenderReset(mail.ResetEmail{
		Name:     user.FullName,
		Link:     link,
		ValidFor: s.ttl.String(),
	})
	if err != nil {
		return err
	}

	err = s.mailer.Send(ctx, model.Message{
		To:      user.Email,
		Subject: mail.ResetSubject,
		HTML:    body,
	})
	if err != nil {
		s.logger.Error("Reset service: failed to send reset email",
			"user_id", user.ID,
			"error", err.Error())
		if _, revokeErr := s.tokenStore.Consume(ctx, hashResetToken(secret)); revokeErr != nil {
			s.logger.Error("Reset service: failed to revoke undelivered reset token",
				"user_id", user.ID,
				"error", revokeErr.Error())
		}
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	s.logger.Info("Reset service: reset email sent",
		"user_id", user.ID)

	return nil
}

// SubmitReset sets a new password for userID if token is a live reset token
// issued to that user. The token is consumed even when it belongs to someone
// else, but not when the new password is rejected.
func (s *Reset) SubmitReset(ctx context.Context, userID uuid.UUID, token, password string) error {
	s.logger.Debug("Reset service: reset submitted",
		"user_id", userID)

	user, err := s.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrUserNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	if token == "" {
		return apierrors.NewErrInvalidResetToken()
	}

	// Hash before Consume: a rejected password must not burn the token.
	hash, err := hashPassword(s.hasher, password)
	if err != nil {
		return err
	}

	owner, err := s.tokenStore.Consume(ctx, hashResetToken(token))
	if errors.Is(err, model.ErrResetTokenInvalid) {
		s.logger.Info("Reset service: reset token rejected",
			"user_id", userID)
		return apierrors.NewErrInvalidResetToken()
	}
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if owner != user.ID {
		s.logger.Warn("Reset service: reset token presented for another user",
			"user_id", userID)
		return apierrors.NewErrInvalidResetToken()
	}

	user.PasswordHash = hash
	user.UpdatedAt = s.now()

	if _, err := s.userStore.Update(ctx, user); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrUserNotFound()
		}
		s.logger.Error("Reset service: failed to store new password",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Reset service: password reset completed",
		"user_id", userID)

	return nil
}
