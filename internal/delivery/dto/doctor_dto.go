package dto

import "time"

// Request DTOs

type CreateDoctorRequest struct {
	Name              string `json:"name" validate:"required,max=200"`
	Hospital          string `json:"hospital" validate:"required,max=300"`
	Department        string `json:"department" validate:"required,department"`
	BiographyEN       string `json:"biography_en"`
	IsAvailable       *bool  `json:"is_available"`
	YearsOfExperience int    `json:"years_of_experience"`
}

type UpdateDoctorRequest struct {
	Name              *string `json:"name" validate:"omitempty,max=200"`
	Hospital          *string `json:"hospital" validate:"omitempty,max=300"`
	Department        *string `json:"department" validate:"omitempty,department"`
	BiographyEN       *string `json:"biography_en"`
	IsAvailable       *bool   `json:"is_available"`
	YearsOfExperience *int    `json:"years_of_experience"`
}

// DoctorListQuery carries the raw list filters from the query string.
type DoctorListQuery struct {
	Department string
	Available  string
}

// Response DTOs

type DoctorResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Hospital          string    `json:"hospital"`
	Department        string    `json:"department"`
	DepartmentDisplay string    `json:"department_display"`
	BiographyEN       string    `json:"biography_en"`
	IsAvailable       bool      `json:"is_available"`
	YearsOfExperience int       `json:"years_of_experience"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
