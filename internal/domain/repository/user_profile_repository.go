package repository

import (
	"context"

	"medbridge-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.UserProfile) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.UserProfile, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.UserProfile, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.UserProfile, error)
	Update(ctx context.Context, db *gorm.DB, profile *entity.UserProfile) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
