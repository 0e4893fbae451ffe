package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/useraccounts-server/internal/model"
)

func testClaims() model.Claims {
	return model.Claims{
		UserID:                 uuid.New(),
		FullName:               "Ada Lovelace",
		Email:                  "a@b.com",
		UserType:               model.UserTypeAdmin,
		Phone:                  "+44 20 0000 0000",
		Country:                "UK",
		BillingAddress:         "1 Analytical St",
		DefaultShippingAddress: "2 Engine Rd",
	}
}

func TestJWT_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	claims := testClaims()

	tok, err := j.Issue(claims)
	require.NoError(t, err)

	got, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, claims, got)
}

func TestJWT_DefaultTTL(t *testing.T) {
	j := NewJWT("secret", 0)
	assert.Equal(t, DefaultTTL, j.ttl)
}

func TestJWT_Verify_Expired(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	j.now = func() time.Time { return issued }

	tok, err := j.Issue(testClaims())
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.Verify(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestJWT_Verify_Failures(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	valid, err := j.Issue(testClaims())
	require.NoError(t, err)

	other, err := NewJWT("other-secret", time.Hour).Issue(testClaims())
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Claims:           testClaims(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Claims: testClaims()}).SignedString([]byte("secret"))
	require.NoError(t, err)

	nilUser, err := j.Issue(model.Claims{Email: "a@b.com"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "missing", token: "", wantErr: ErrTokenMissing},
		{name: "garbage", token: "not-a-jwt", wantErr: ErrTokenInvalid},
		{name: "wrong secret", token: other, wantErr: ErrTokenInvalid},
		{name: "tampered payload", token: tampered, wantErr: ErrTokenInvalid},
		{name: "alg none", token: noneToken, wantErr: ErrTokenInvalid},
		{name: "no expiry", token: noExpiry, wantErr: ErrTokenInvalid},
		{name: "nil user id", token: nilUser, wantErr: ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Verify(tt.token)
			require.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, model.ErrUnauthorized)
		})
	}
}
