package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// RegisterRequest creates an account together with its patient profile.
type RegisterRequest struct {
	Username           string `json:"username" validate:"required,min=3,max=150"`
	Email              string `json:"email" validate:"required,email,max=255"`
	Password           string `json:"password" validate:"required,min=8,max=72"`
	FirstName          string `json:"first_name" validate:"max=150"`
	LastName           string `json:"last_name" validate:"max=150"`
	Phone              string `json:"phone" validate:"omitempty,phone"`
	LanguagePreference string `json:"language_preference" validate:"omitempty,language"`
	MedicalHistory     string `json:"medical_history" validate:"max=10000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID        uuid.UUID            `json:"id"`
	Username  string               `json:"username"`
	Email     string               `json:"email"`
	FirstName string               `json:"first_name"`
	LastName  string               `json:"last_name"`
	FullName  string               `json:"full_name"`
	Role      string               `json:"role,omitempty"`
	Profile   *UserProfileResponse `json:"profile,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}
