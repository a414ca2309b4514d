package service

import (
	"context"
	"time"

	"medbridge-api/internal/domain/entity"

	"gorm.io/gorm"
)

type fakeAvailabilityRepo struct {
	windows []entity.DoctorAvailability
	err     error
}

func (f *fakeAvailabilityRepo) Create(ctx context.Context, db *gorm.DB, window *entity.DoctorAvailability) error {
	f.windows = append(f.windows, *window)
	return nil
}

func (f *fakeAvailabilityRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.DoctorAvailability, error) {
	for i := range f.windows {
		if f.windows[i].ID == id {
			return &f.windows[i], nil
		}
	}
	return nil, nil
}

func (f *fakeAvailabilityRepo) FindByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID int64, date time.Time) ([]entity.DoctorAvailability, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.DoctorAvailability
	for _, w := range f.windows {
		if w.DoctorID == doctorID && w.AvailableDate.Format("2006-01-02") == date.Format("2006-01-02") {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AvailabilityFilter) ([]entity.DoctorAvailability, error) {
	return f.windows, nil
}

func (f *fakeAvailabilityRepo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	return 0, nil
}

type fakeConsultationRepo struct {
	items []entity.Consultation
}

func (f *fakeConsultationRepo) Create(ctx context.Context, db *gorm.DB, c *entity.Consultation) error {
	c.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *c)
	return nil
}

func (f *fakeConsultationRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Consultation, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			c := f.items[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeConsultationRepo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id int64) (*entity.Consultation, error) {
	return f.FindByID(ctx, db, id)
}

func (f *fakeConsultationRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.ConsultationFilter) ([]entity.Consultation, error) {
	return f.items, nil
}

func (f *fakeConsultationRepo) Save(ctx context.Context, db *gorm.DB, c *entity.Consultation) error {
	for i := range f.items {
		if f.items[i].ID == c.ID {
			f.items[i] = *c
		}
	}
	return nil
}

func (f *fakeConsultationRepo) ExistsConfirmedAt(ctx context.Context, db *gorm.DB, doctorID int64, at time.Time, excludeID int64) (bool, error) {
	for _, c := range f.items {
		if c.ID == excludeID || c.DoctorID != doctorID || c.ScheduledAt == nil {
			continue
		}
		if c.Status == entity.ConsultationStatusConfirmed && c.ScheduledAt.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConsultationRepo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	return 0, nil
}
