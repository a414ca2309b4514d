package repository

import (
	"context"
	"time"

	"medbridge-api/internal/domain/entity"

	"gorm.io/gorm"
)

type ConsultationRepository interface {
	Create(ctx context.Context, db *gorm.DB, consultation *entity.Consultation) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Consultation, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id int64) (*entity.Consultation, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.ConsultationFilter) ([]entity.Consultation, error)
	Save(ctx context.Context, db *gorm.DB, consultation *entity.Consultation) error
	// ExistsConfirmedAt reports whether another confirmed consultation holds
	// the doctor's exact slot. excludeID 0 excludes nothing.
	ExistsConfirmedAt(ctx context.Context, db *gorm.DB, doctorID int64, at time.Time, excludeID int64) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
