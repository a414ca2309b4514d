package repository

import (
	"context"
	"time"

	"medbridge-api/internal/domain/entity"

	"gorm.io/gorm"
)

// DoctorAvailabilityRepository is the availability store. The booking flow
// only reads from it.
type DoctorAvailabilityRepository interface {
	Create(ctx context.Context, db *gorm.DB, window *entity.DoctorAvailability) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.DoctorAvailability, error)
	FindByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID int64, date time.Time) ([]entity.DoctorAvailability, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.AvailabilityFilter) ([]entity.DoctorAvailability, error)
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
