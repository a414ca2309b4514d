package repository

import (
	"context"

	"medbridge-api/internal/domain/entity"
	domainRepo "medbridge-api/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorReviewRepository struct{}

func NewDoctorReviewRepository() domainRepo.DoctorReviewRepository {
	return &doctorReviewRepository{}
}

func (r *doctorReviewRepository) Create(ctx context.Context, db *gorm.DB, review *entity.DoctorReview) error {
	return db.WithContext(ctx).Omit("Consultation").Create(review).Error
}

func (r *doctorReviewRepository) ExistsForConsultation(ctx context.Context, db *gorm.DB, consultationID int64) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.DoctorReview{}).
		Where("consultation_id = ?", consultationID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *doctorReviewRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) ([]entity.DoctorReview, error) {
	var reviews []entity.DoctorReview
	err := db.WithContext(ctx).
		Joins("JOIN consultations ON consultations.id = doctor_reviews.consultation_id").
		Where("consultations.doctor_id = ?", doctorID).
		Order("doctor_reviews.created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
