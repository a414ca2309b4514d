package repository

import (
	"context"
	"errors"
	"time"

	"medbridge-api/internal/domain/entity"
	domainRepo "medbridge-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type consultationRepository struct{}

func NewConsultationRepository() domainRepo.ConsultationRepository {
	return &consultationRepository{}
}

func (r *consultationRepository) Create(ctx context.Context, db *gorm.DB, consultation *entity.Consultation) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(consultation).Error
}

func (r *consultationRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Consultation, error) {
	var consultation entity.Consultation
	err := db.WithContext(ctx).
		Preload("UserProfile.User").
		Preload("Doctor").
		Preload("Review").
		Where("id = ?", id).
		First(&consultation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}

func (r *consultationRepository) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id int64) (*entity.Consultation, error) {
	var consultation entity.Consultation
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&consultation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// Relations are loaded after locking; FOR UPDATE cannot span preloads.
	var profile entity.UserProfile
	if err := db.WithContext(ctx).Preload("User").Where("id = ?", consultation.UserProfileID).First(&profile).Error; err != nil {
		return nil, err
	}
	consultation.UserProfile = &profile
	return &consultation, nil
}

func (r *consultationRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.ConsultationFilter) ([]entity.Consultation, error) {
	var consultations []entity.Consultation
	query := db.WithContext(ctx).Model(&entity.Consultation{})

	if filter != nil {
		if filter.OwnerUserID != nil {
			query = query.
				Joins("JOIN user_profiles ON user_profiles.id = consultations.user_profile_id").
				Where("user_profiles.user_id = ?", *filter.OwnerUserID)
		}
		if filter.DoctorID != 0 {
			query = query.Where("consultations.doctor_id = ?", filter.DoctorID)
		}
		if filter.Status != "" {
			query = query.Where("consultations.status = ?", filter.Status)
		}
	}

	err := query.
		Preload("UserProfile.User").
		Preload("Doctor").
		Preload("Review").
		Order("consultations.created_at DESC").
		Find(&consultations).Error
	if err != nil {
		return nil, err
	}
	return consultations, nil
}

func (r *consultationRepository) Save(ctx context.Context, db *gorm.DB, consultation *entity.Consultation) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(consultation).Error
}

func (r *consultationRepository) ExistsConfirmedAt(ctx context.Context, db *gorm.DB, doctorID int64, at time.Time, excludeID int64) (bool, error) {
	var count int64
	query := db.WithContext(ctx).Model(&entity.Consultation{}).
		Where("doctor_id = ? AND scheduled_at = ? AND status = ?", doctorID, at, entity.ConsultationStatusConfirmed)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *consultationRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Consultation{})
	return result.RowsAffected, result.Error
}
