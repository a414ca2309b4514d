package repository

import (
	"context"
	"errors"
	"time"

	"medbridge-api/internal/domain/entity"
	domainRepo "medbridge-api/internal/domain/repository"
	"medbridge-api/pkg/timeutil"

	"gorm.io/gorm"
)

type doctorAvailabilityRepository struct{}

func NewDoctorAvailabilityRepository() domainRepo.DoctorAvailabilityRepository {
	return &doctorAvailabilityRepository{}
}

func (r *doctorAvailabilityRepository) Create(ctx context.Context, db *gorm.DB, window *entity.DoctorAvailability) error {
	return db.WithContext(ctx).Omit("Doctor").Create(window).Error
}

func (r *doctorAvailabilityRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.DoctorAvailability, error) {
	var window entity.DoctorAvailability
	err := db.WithContext(ctx).Where("id = ?", id).First(&window).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &window, nil
}

// FindByDoctorAndDate returns every window the doctor has on the calendar date.
// The date is compared as a plain YYYY-MM-DD value in the caller's zone.
func (r *doctorAvailabilityRepository) FindByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID int64, date time.Time) ([]entity.DoctorAvailability, error) {
	var windows []entity.DoctorAvailability
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND available_date = ?", doctorID, date.Format(timeutil.DateLayout)).
		Order("start_time ASC").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

// FindAll supports optional filters: doctor, exact date and date range.
func (r *doctorAvailabilityRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AvailabilityFilter) ([]entity.DoctorAvailability, error) {
	var windows []entity.DoctorAvailability
	query := db.WithContext(ctx).Model(&entity.DoctorAvailability{})

	if filter != nil {
		if filter.DoctorID != 0 {
			query = query.Where("doctor_id = ?", filter.DoctorID)
		}
		if filter.Date != nil {
			query = query.Where("available_date = ?", filter.Date.Format(timeutil.DateLayout))
		}
		if filter.From != nil {
			query = query.Where("available_date >= ?", filter.From.Format(timeutil.DateLayout))
		}
		if filter.To != nil {
			query = query.Where("available_date <= ?", filter.To.Format(timeutil.DateLayout))
		}
	}

	err := query.
		Preload("Doctor").
		Order("available_date ASC, start_time ASC").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *doctorAvailabilityRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DoctorAvailability{})
	return result.RowsAffected, result.Error
}
