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

type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	logger       *logger.Logger
	now          func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       logger,
		now:          time.Now,
	}
}

// Register creates a customer account. Self-registration never grants admin.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	params.Email = model.NormalizeEmail(params.Email)
	a.logger.Debug("Auth service: starting user registration",
		"email", params.Email)

	hash, err := hashPassword(a.hasher, params.Password)
	if err != nil {
		a.logger.Info("Auth service: password rejected by hasher",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, err
	}

	now := a.now()
	user := model.User{
		ID:                     uuid.New(),
		Email:                  params.Email,
		PasswordHash:           hash,
		FullName:               params.FullName,
		Phone:                  params.Phone,
		Country:                params.Country,
		BillingAddress:         params.BillingAddress,
		DefaultShippingAddress: params.DefaultShippingAddress,
		UserType:               model.UserTypeCustomer,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	saved, err := a.userStore.Create(ctx, user)
	if errors.Is(err, model.ErrEmailTaken) {
		a.logger.Info("Auth service: user already exists",
			"email", params.Email)
		return model.User{}, apierrors.NewErrEmailIsTaken(params.Email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"user_id", saved.ID)

	return saved, nil
}

// Login checks credentials and issues a bearer token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (string, model.User, error) {
	email = model.NormalizeEmail(email)
	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown email",
			"email", email)
		return "", model.User{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		return "", model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.Info("Auth service: password mismatch",
			"user_id", user.ID)
		return "", model.User{}, apierrors.NewErrInvalidCredentials()
	}

	token, err := a.tokenManager.Issue(model.ClaimsFromUser(user))
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID,
			"error", err.Error())
		return "", model.User{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user login completed successfully",
		"user_id", user.ID)

	return token, user, nil
}

// VerifyToken decodes a bearer token into the identity it carries.
func (a *Auth) VerifyToken(ctx context.Context, token string) (model.Claims, error) {
	claims, err := a.tokenManager.Verify(token)
	if err != nil {
		a.logger.Debug("Auth service: token rejected",
			"error", err.Error())
		return model.Claims{}, err
	}
	return claims, nil
}

// EnsureAdmin makes sure an admin account exists for email. A missing account
// is created with password; an existing one is promoted and keeps its password.
func (a *Auth) EnsureAdmin(ctx context.Context, email, password string) (model.User, error) {
	email = model.NormalizeEmail(email)
	user, err := a.userStore.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsAdmin() {
			return user, nil
		}
		user.UserType = model.UserTypeAdmin
		user.UpdatedAt = a.now()
		promoted, err := a.userStore.Update(ctx, user)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to promote admin: %w", err)
		}
		a.logger.Info("Auth service: existing user promoted to admin",
			"user_id", promoted.ID)
		return promoted, nil
	case !errors.Is(err, model.ErrNotFound):
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := hashPassword(a.hasher, password)
	if err != nil {
		return model.User{}, err
	}

	now := a.now()
	admin, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     "Administrator",
		UserType:     model.UserTypeAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create admin: %w", err)
	}

	a.logger.Info("Auth service: admin account created",
		"user_id", admin.ID)

	return admin, nil
}
