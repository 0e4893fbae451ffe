package service

import (
	"errors"
	"fmt"

	"github.com/dtroode/useraccounts-server/internal/apierrors"
	"github.com/dtroode/useraccounts-server/internal/model"
)

// hashPassword hashes password, reporting an overlong one as a validation
// failure on the password field.
func hashPassword(hasher model.PasswordHasher, password string) (string, error) {
	hash, err := hasher.Hash(password)
	if errors.Is(err, model.ErrPasswordTooLong) {
		return "", apierrors.NewErrValidation("password",
			fmt.Sprintf("password must be at most %d bytes", model.MaxPasswordBytes))
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}
