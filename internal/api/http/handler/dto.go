package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/useraccounts-server/internal/model"
)

type profileRequest struct {
	FullName               string `json:"full_name" binding:"max=255"`
	Phone                  string `json:"phone" binding:"max=64"`
	Country                string `json:"country" binding:"max=128"`
	BillingAddress         string `json:"billing_address" binding:"max=1024"`
	DefaultShippingAddress string `json:"default_shipping_address" binding:"max=1024"`
}

func (p profileRequest) toModel() model.Profile {
	return model.Profile{
		FullName:               p.FullName,
		Phone:                  p.Phone,
		Country:                p.Country,
		BillingAddress:         p.BillingAddress,
		DefaultShippingAddress: p.DefaultShippingAddress,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,maxbytes=72"`
	profileRequest
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,maxbytes=72"`
}

type updateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	Password string `json:"password" binding:"omitempty,maxbytes=72"`
	UserType string `json:"user_type" binding:"omitempty,oneof=customer admin"`
	profileRequest
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,maxbytes=72"`
}

type userResponse struct {
	ID                     uuid.UUID      `json:"user_id"`
	Email                  string         `json:"email"`
	FullName               string         `json:"full_name"`
	Phone                  string         `json:"phone"`
	Country                string         `json:"country"`
	BillingAddress         string         `json:"billing_address"`
	DefaultShippingAddress string         `json:"default_shipping_address"`
	UserType               model.UserType `json:"user_type"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

// newUserResponse drops the password hash.
func newUserResponse(u model.User) userResponse {
	return userResponse{
		ID:                     u.ID,
		Email:                  u.Email,
		FullName:               u.FullName,
		Phone:                  u.Phone,
		Country:                u.Country,
		BillingAddress:         u.BillingAddress,
		DefaultShippingAddress: u.DefaultShippingAddress,
		UserType:               u.UserType,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type messageResponse struct {
	Message string        `json:"message"`
	User    *userResponse `json:"user,omitempty"`
}
