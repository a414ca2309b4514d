package repository

import (
	"context"

	"medbridge-api/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorReviewRepository interface {
	Create(ctx context.Context, db *gorm.DB, review *entity.DoctorReview) error
	ExistsForConsultation(ctx context.Context, db *gorm.DB, consultationID int64) (bool, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) ([]entity.DoctorReview, error)
}
