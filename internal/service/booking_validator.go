package service

import (
	"context"
	"fmt"
	"time"

	"medbridge-api/internal/domain/entity"
	"medbridge-api/internal/domain/repository"
	"medbridge-api/pkg/timeutil"

	"gorm.io/gorm"
)

// BookingValidator decides whether a doctor can be booked at a given time.
// It never writes.
type BookingValidator struct {
	location         *time.Location
	availabilityRepo repository.DoctorAvailabilityRepository
	consultationRepo repository.ConsultationRepository
}

func NewBookingValidator(
	location *time.Location,
	availabilityRepo repository.DoctorAvailabilityRepository,
	consultationRepo repository.ConsultationRepository,
) *BookingValidator {
	if location == nil {
		location = time.UTC
	}
	return &BookingValidator{
		location:         location,
		availabilityRepo: availabilityRepo,
		consultationRepo: consultationRepo,
	}
}

// Location is the canonical zone candidate times are normalized to.
func (v *BookingValidator) Location() *time.Location {
	return v.location
}

// Validate checks the candidate against the doctor's availability windows and
// then against confirmed consultations at the same instant. Pending
// consultations never block a slot.
func (v *BookingValidator) Validate(ctx context.Context, db *gorm.DB, doctorID int64, candidate time.Time) error {
	at := timeutil.Normalize(candidate, v.location)
	date, tod := timeutil.Decompose(at)

	windows, err := v.availabilityRepo.FindByDoctorAndDate(ctx, db, doctorID, date)
	if err != nil {
		return fmt.Errorf("load availability for doctor %d: %w", doctorID, err)
	}
	if !anyWindowCovers(windows, tod) {
		return ErrOutsideAvailability
	}

	return v.CheckSlotFree(ctx, db, doctorID, at, 0)
}

// CheckSlotFree fails with ErrSlotTaken when a confirmed consultation other
// than excludeID holds the doctor's exact start time.
func (v *BookingValidator) CheckSlotFree(ctx context.Context, db *gorm.DB, doctorID int64, at time.Time, excludeID int64) error {
	taken, err := v.consultationRepo.ExistsConfirmedAt(ctx, db, doctorID, at, excludeID)
	if err != nil {
		return fmt.Errorf("check confirmed slot for doctor %d: %w", doctorID, err)
	}
	if taken {
		return ErrSlotTaken
	}
	return nil
}

func anyWindowCovers(windows []entity.DoctorAvailability, tod time.Duration) bool {
	for i := range windows {
		if windows[i].Covers(tod) {
			return true
		}
	}
	return false
}
