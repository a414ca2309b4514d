package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateUserProfileRequest struct {
	Phone              string `json:"phone" validate:"omitempty,phone"`
	LanguagePreference string `json:"language_preference" validate:"omitempty,language"`
	MedicalHistory     string `json:"medical_history" validate:"max=10000"`
}

// UpdateUserProfileRequest applies only the fields that are present.
type UpdateUserProfileRequest struct {
	Phone              *string `json:"phone" validate:"omitempty,phone"`
	LanguagePreference *string `json:"language_preference" validate:"omitempty,language"`
	MedicalHistory     *string `json:"medical_history" validate:"omitempty,max=10000"`
}

// Response DTOs

type UserProfileResponse struct {
	ID                        int64     `json:"id"`
	UserID                    uuid.UUID `json:"user_id"`
	Username                  string    `json:"username,omitempty"`
	Email                     string    `json:"email,omitempty"`
	FullName                  string    `json:"full_name,omitempty"`
	Phone                     string    `json:"phone"`
	LanguagePreference        string    `json:"language_preference"`
	LanguagePreferenceDisplay string    `json:"language_preference_display"`
	MedicalHistory            string    `json:"medical_history"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

type UserProfileListResponse struct {
	Profiles []UserProfileResponse `json:"profiles"`
	Total    int                   `json:"total"`
}
