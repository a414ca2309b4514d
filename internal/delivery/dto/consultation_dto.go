package dto

import (
	"encoding/json"
	"time"
)

// Request DTOs

// CreateConsultationRequest books a consultation. UserProfileID defaults to
// the caller's own profile. ScheduledAt is RFC3339; a timestamp without an
// offset is read in the service's canonical zone.
type CreateConsultationRequest struct {
	DoctorID            int64           `json:"doctor_id" validate:"required,min=1"`
	UserProfileID       *int64          `json:"user_profile_id" validate:"omitempty,min=1"`
	SymptomsDescription string          `json:"symptoms_description" validate:"required,trimmedmin=10,trimmedmax=5000"`
	AISuggestion        json.RawMessage `json:"ai_suggestion"`
	ReportRef           string          `json:"report_ref" validate:"max=1024"`
	Notes               string          `json:"notes" validate:"max=5000"`
	ScheduledAt         *string         `json:"scheduled_at"`
}

// UpdateConsultationRequest applies only the fields that are present.
// A status change goes through the same rules as the status endpoint.
type UpdateConsultationRequest struct {
	SymptomsDescription *string `json:"symptoms_description" validate:"omitempty,trimmedmin=10,trimmedmax=5000"`
	ReportRef           *string `json:"report_ref" validate:"omitempty,max=1024"`
	Notes               *string `json:"notes" validate:"omitempty,max=5000"`
	ScheduledAt         *string `json:"scheduled_at"`
	Status              *string `json:"status"`
}

type UpdateConsultationStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes" validate:"omitempty,max=5000"`
}

// Response DTOs

type ConsultationResponse struct {
	ID                  int64           `json:"id"`
	UserProfileID       int64           `json:"user_profile_id"`
	PatientName         string          `json:"patient_name,omitempty"`
	DoctorID            int64           `json:"doctor_id"`
	Doctor              *DoctorResponse `json:"doctor,omitempty"`
	SymptomsDescription string          `json:"symptoms_description"`
	AISuggestion        json.RawMessage `json:"ai_suggestion,omitempty"`
	ReportRef           string          `json:"report_ref,omitempty"`
	Status              string          `json:"status"`
	StatusDisplay       string          `json:"status_display"`
	ScheduledAt         *time.Time      `json:"scheduled_at"`
	Notes               string          `json:"notes"`
	Review              *ReviewResponse `json:"review,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type ConsultationListResponse struct {
	Consultations []ConsultationResponse `json:"consultations"`
	Total         int                    `json:"total"`
}
