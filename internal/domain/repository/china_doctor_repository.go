package repository

import (
	"context"

	"medbridge-api/internal/domain/entity"

	"gorm.io/gorm"
)

type ChinaDoctorRepository interface {
	Create(ctx context.Context, db *gorm.DB, doctor *entity.ChinaDoctor) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.ChinaDoctor, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.ChinaDoctor, error)
	Update(ctx context.Context, db *gorm.DB, doctor *entity.ChinaDoctor) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
