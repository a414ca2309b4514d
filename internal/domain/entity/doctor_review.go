package entity

import "time"

const (
	MinReviewStars = 1
	MaxReviewStars = 5
)

// DoctorReview is a patient's rating of a completed consultation.
type DoctorReview struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConsultationID int64     `gorm:"uniqueIndex:uq_doctor_reviews_consultation;not null" json:"consultation_id"`
	Stars          int       `gorm:"not null;check:stars >= 1 AND stars <= 5" json:"stars"`
	Comment        string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Consultation *Consultation `gorm:"foreignKey:ConsultationID" json:"consultation,omitempty"`
}

func (DoctorReview) TableName() string {
	return "doctor_reviews"
}
