package model

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")
	ErrPasswordTooLong   = errors.New("password is too long")
)

// MaxPasswordBytes is the longest password bcrypt can hash, in bytes.
const MaxPasswordBytes = 72
