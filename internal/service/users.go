package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/useraccounts-server/internal/apierrors"
	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/model"
)

// Users implements account management on behalf of an authenticated caller.
type Users struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	logger    *logger.Logger
	now       func() time.Time
}

func NewUsers(userStore model.UserStore, hasher model.PasswordHasher, logger *logger.Logger) *Users {
	return &Users{
		userStore: userStore,
		hasher:    hasher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Users) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("Users service: failed to list users",
			"error", err.Error())
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Users) Get(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrUserNotFound()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// Update replaces the profile of user id. A non-empty password is re-hashed,
// and only an admin actor may change the role.
func (s *Users) Update(ctx context.Context, id uuid.UUID, params model.UpdateUserParams, actor model.Claims) (model.User, error) {
	s.logger.Debug("Users service: updating user",
		"user_id", id,
		"actor_id", actor.UserID)

	if !actor.IsAdmin() && actor.UserID != id {
		return model.User{}, apierrors.NewErrForbidden()
	}

	user, err := s.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrUserNotFound()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if params.UserType != "" && params.UserType != user.UserType {
		if !params.UserType.Valid() {
			return model.User{}, apierrors.NewErrValidation("user_type", "user_type must be customer or admin")
		}
		if !actor.IsAdmin() {
			s.logger.Info("Users service: role change refused",
				"user_id", id,
				"actor_id", actor.UserID)
			return model.User{}, apierrors.NewErrForbidden()
		}
		user.UserType = params.UserType
	}

	if email := model.NormalizeEmail(params.Email); email != "" {
		user.Email = email
	}
	user.FullName = params.FullName
	user.Phone = params.Phone
	user.Country = params.Country
	user.BillingAddress = params.BillingAddress
	user.DefaultShippingAddress = params.DefaultShippingAddress

	if params.Password != "" {
		hash, err := hashPassword(s.hasher, params.Password)
		if err != nil {
			return model.User{}, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.now()

	saved, err := s.userStore.Update(ctx, user)
	if errors.Is(err, model.ErrEmailTaken) {
		return model.User{}, apierrors.NewErrEmailIsTaken(user.Email)
	}
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrUserNotFound()
	}
	if err != nil {
		s.logger.Error("Users service: failed to update user",
			"user_id", id,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("Users service: user updated",
		"user_id", id,
		"actor_id", actor.UserID)

	return saved, nil
}

func (s *Users) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.userStore.Delete(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrUserNotFound()
	}
	if err != nil {
		s.logger.Error("Users service: failed to delete user",
			"user_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("Users service: user deleted",
		"user_id", id)
	return nil
}
