package dto

import "time"

// Request DTOs

type CreateAvailabilityRequest struct {
	DoctorID      int64  `json:"doctor_id" validate:"required,min=1"`
	AvailableDate string `json:"available_date" validate:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" validate:"required,clock"`
	EndTime       string `json:"end_time" validate:"required,clock"`
}

// AvailabilityListQuery carries the raw list filters from the query string.
type AvailabilityListQuery struct {
	DoctorID string
	Date     string
	From     string
	To       string
}

// Response DTOs

type AvailabilityResponse struct {
	ID            int64     `json:"id"`
	DoctorID      int64     `json:"doctor_id"`
	DoctorName    string    `json:"doctor_name,omitempty"`
	AvailableDate string    `json:"available_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	CreatedAt     time.Time `json:"created_at"`
}

type AvailabilityListResponse struct {
	Availability []AvailabilityResponse `json:"availability"`
	Total        int                    `json:"total"`
}
