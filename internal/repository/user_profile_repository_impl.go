package repository

import (
	"context"
	"errors"

	"medbridge-api/internal/domain/entity"
	domainRepo "medbridge-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userProfileRepository struct{}

func NewUserProfileRepository() domainRepo.UserProfileRepository {
	return &userProfileRepository{}
}

func (r *userProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.UserProfile) error {
	return db.WithContext(ctx).Omit("User").Create(profile).Error
}

func (r *userProfileRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.UserProfile, error) {
	var profiles []entity.UserProfile
	err := db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *userProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.UserProfile) error {
	return db.WithContext(ctx).Omit("User").Save(profile).Error
}

func (r *userProfileRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.UserProfile{})
	return result.RowsAffected, result.Error
}
