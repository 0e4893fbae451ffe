package model

import (
	"github.com/google/uuid"
)

// Claims is the identity carried inside a bearer token.
type Claims struct {
	UserID                 uuid.UUID `json:"user_id"`
	FullName               string    `json:"full_name"`
	Email                  string    `json:"email"`
	UserType               UserType  `json:"user_type"`
	Phone                  string    `json:"phone"`
	Country                string    `json:"country"`
	BillingAddress         string    `json:"billing_address"`
	DefaultShippingAddress string    `json:"default_shipping_address"`
}

// IsAdmin reports whether the token holder has the admin role.
func (c Claims) IsAdmin() bool {
	return c.UserType == UserTypeAdmin
}

// ClaimsFromUser builds token claims from a stored user.
func ClaimsFromUser(u User) Claims {
	return Claims{
		UserID:                 u.ID,
		FullName:               u.FullName,
		Email:                  u.Email,
		UserType:               u.UserType,
		Phone:                  u.Phone,
		Country:                u.Country,
		BillingAddress:         u.BillingAddress,
		DefaultShippingAddress: u.DefaultShippingAddress,
	}
}

// TokenManager issues and verifies bearer tokens.
type TokenManager interface {
	Issue(claims Claims) (string, error)
	Verify(token string) (Claims, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
