package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorFilter is a domain-level filter for listing doctors.
// Used by repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	Department Department
	Available  *bool
}

// AvailabilityFilter narrows availability windows. Zero values are ignored.
type AvailabilityFilter struct {
	DoctorID int64
	Date     *time.Time
	From     *time.Time
	To       *time.Time
}

// ConsultationFilter narrows consultations. A nil OwnerUserID lists everyone's.
type ConsultationFilter struct {
	OwnerUserID *uuid.UUID
	DoctorID    int64
	Status      ConsultationStatus
}
