package entity

import (
	"time"

	"medbridge-api/pkg/timeutil"
)

// DoctorAvailability is a half-open window [StartTime, EndTime) on one date
// during which a doctor accepts consultations. Windows may overlap.
type DoctorAvailability struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID      int64     `gorm:"not null;index:idx_availability_doctor_date" json:"doctor_id"`
	AvailableDate time.Time `gorm:"type:date;not null;index:idx_availability_doctor_date" json:"available_date"`
	StartTime     string    `gorm:"type:time;not null" json:"start_time"`
	EndTime       string    `gorm:"type:time;not null" json:"end_time"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Doctor *ChinaDoctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (DoctorAvailability) TableName() string {
	return "doctor_availability"
}

// Covers reports whether the time of day falls inside the window.
// Malformed bounds never cover anything.
func (a *DoctorAvailability) Covers(tod time.Duration) bool {
	start, err := timeutil.ParseClock(a.StartTime)
	if err != nil {
		return false
	}
	end, err := timeutil.ParseClock(a.EndTime)
	if err != nil {
		return false
	}
	return start <= tod && tod < end
}
