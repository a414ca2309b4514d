package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ConsultationStatus is the lifecycle state of a consultation.
type ConsultationStatus string

const (
	ConsultationStatusPending   ConsultationStatus = "pending"
	ConsultationStatusConfirmed ConsultationStatus = "confirmed"
	ConsultationStatusCompleted ConsultationStatus = "completed"
	ConsultationStatusCancelled ConsultationStatus = "cancelled"
)

// consultationTransitions holds every legal status change. Statuses missing
// from the map are terminal.
var consultationTransitions = map[ConsultationStatus][]ConsultationStatus{
	ConsultationStatusPending:   {ConsultationStatusConfirmed, ConsultationStatusCancelled},
	ConsultationStatusConfirmed: {ConsultationStatusCompleted, ConsultationStatusCancelled},
}

var consultationStatusLabels = map[ConsultationStatus]string{
	ConsultationStatusPending:   "Pending",
	ConsultationStatusConfirmed: "Confirmed",
	ConsultationStatusCompleted: "Completed",
	ConsultationStatusCancelled: "Cancelled",
}

func (s ConsultationStatus) IsValid() bool {
	_, ok := consultationStatusLabels[s]
	return ok
}

func (s ConsultationStatus) Label() string {
	return consultationStatusLabels[s]
}

// IsTerminal reports whether no transition leaves s.
func (s ConsultationStatus) IsTerminal() bool {
	return len(consultationTransitions[s]) == 0
}

// CanTransitionTo reports whether s -> target is in the transition table.
// Staying in the same status is not a transition.
func (s ConsultationStatus) CanTransitionTo(target ConsultationStatus) bool {
	for _, next := range consultationTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Consultation is a patient's request for a remote consultation with a doctor.
type Consultation struct {
	ID                  int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserProfileID       int64              `gorm:"not null;index" json:"user_profile_id"`
	DoctorID            int64              `gorm:"not null;index" json:"doctor_id"`
	SymptomsDescription string             `gorm:"type:text;not null" json:"symptoms_description"`
	AISuggestion        datatypes.JSON     `gorm:"type:jsonb" json:"ai_suggestion,omitempty"`
	ReportRef           string             `gorm:"type:text" json:"report_ref,omitempty"`
	Status              ConsultationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ScheduledAt         *time.Time         `gorm:"type:timestamptz;index" json:"scheduled_at,omitempty"`
	Notes               string             `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt           time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	UserProfile *UserProfile  `gorm:"foreignKey:UserProfileID" json:"user_profile,omitempty"`
	Doctor      *ChinaDoctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Review      *DoctorReview `gorm:"foreignKey:ConsultationID" json:"review,omitempty"`
}

func (Consultation) TableName() string {
	return "consultations"
}

// IsPending checks if consultation is awaiting confirmation
func (c *Consultation) IsPending() bool {
	return c.Status == ConsultationStatusPending
}

// IsConfirmed checks if consultation is confirmed
func (c *Consultation) IsConfirmed() bool {
	return c.Status == ConsultationStatusConfirmed
}

// IsCompleted checks if consultation has taken place
func (c *Consultation) IsCompleted() bool {
	return c.Status == ConsultationStatusCompleted
}

// IsCancelled checks if consultation is cancelled
func (c *Consultation) IsCancelled() bool {
	return c.Status == ConsultationStatusCancelled
}
