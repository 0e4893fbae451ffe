package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/useraccounts-server/internal/model"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 365 * 24 * time.Hour

// Verification outcomes. All of them wrap model.ErrUnauthorized.
var (
	ErrTokenMissing = fmt.Errorf("%w: token is missing", model.ErrUnauthorized)
	ErrTokenInvalid = fmt.Errorf("%w: token is invalid", model.ErrUnauthorized)
	ErrTokenExpired = fmt.Errorf("%w: token has expired", model.ErrUnauthorized)
)

// Claims represents JWT claims carrying the user identity.
type Claims struct {
	jwt.RegisteredClaims
	model.Claims
}

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a new JWT token manager with the provided secret key and
// token lifetime. A non-positive ttl falls back to DefaultTTL.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

// Issue signs claims together with issued-at and expiry timestamps.
func (j *JWT) Issue(claims model.Claims) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		Claims: claims,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks the signature and expiry and returns the embedded claims.
func (j *JWT) Verify(tokenString string) (model.Claims, error) {
	if tokenString == "" {
		return model.Claims{}, ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Claims{}, ErrTokenExpired
		}
		return model.Claims{}, fmt.Errorf("%w: %s", ErrTokenInvalid, err.Error())
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return model.Claims{}, ErrTokenInvalid
	}

	return claims.Claims, nil
}
