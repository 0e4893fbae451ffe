package redis

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/useraccounts-server/internal/model"
)

var _ model.ResetTokenStore = (*ResetTokenStore)(nil)

const keyPrefix = "reset:"

// redisAPI is the subset of the go-redis client used by the store.
type redisAPI interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	GetDel(ctx context.Context, key string) *goredis.StringCmd
	Ping(ctx context.Context) *goredis.StatusCmd
	Close() error
}

// ResetTokenStore keeps reset tokens as expiring keys. Expiry is enforced by
// redis itself and GETDEL makes consumption single use.
type ResetTokenStore struct {
	client redisAPI
	now    func() time.Time
}

func NewResetTokenStore(ctx context.Context, addr, password string, db int) (*ResetTokenStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return newResetTokenStore(client), nil
}

func newResetTokenStore(client redisAPI) *ResetTokenStore {
	return &ResetTokenStore{client: client, now: time.Now}
}

func key(tokenHash []byte) string {
	return keyPrefix + hex.EncodeToString(tokenHash)
}

func (s *ResetTokenStore) Create(ctx context.Context, token model.ResetToken) error {
	ttl := token.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("failed to create reset token: already expired")
	}

	if err := s.client.Set(ctx, key(token.TokenHash), token.UserID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (s *ResetTokenStore) Consume(ctx context.Context, tokenHash []byte) (uuid.UUID, error) {
	val, err := s.client.GetDel(ctx, key(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return uuid.Nil, model.ErrResetTokenInvalid
		}
		return uuid.Nil, fmt.Errorf("failed to consume reset token: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse stored user id: %w", err)
	}
	return userID, nil
}

func (s *ResetTokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *ResetTokenStore) Close() error {
	return s.client.Close()
}
