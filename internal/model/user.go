package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserType is the role of an account.
type UserType string

const (
	// UserTypeCustomer is the default role given at registration.
	UserTypeCustomer UserType = "customer"
	// UserTypeAdmin grants access to admin-only operations.
	UserTypeAdmin UserType = "admin"
)

// Valid reports whether t is a known role.
func (t UserType) Valid() bool {
	return t == UserTypeCustomer || t == UserTypeAdmin
}

// NormalizeEmail returns the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// User represents a stored account. PasswordHash is always hasher output.
type User struct {
	ID                     uuid.UUID
	Email                  string
	PasswordHash           string
	FullName               string
	Phone                  string
	Country                string
	BillingAddress         string
	DefaultShippingAddress string
	UserType               UserType
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// Profile holds the user-editable fields of an account.
type Profile struct {
	FullName               string
	Phone                  string
	Country                string
	BillingAddress         string
	DefaultShippingAddress string
}

// RegisterParams contains parameters to register a user.
type RegisterParams struct {
	Email    string
	Password string
	Profile
}

// UpdateUserParams contains parameters to update a user.
// An empty Password keeps the stored hash; an empty UserType keeps the role.
type UpdateUserParams struct {
	Email    string
	Password string
	UserType UserType
	Profile
}
