package repository

import (
	"context"
	"errors"

	"medbridge-api/internal/domain/entity"
	domainRepo "medbridge-api/internal/domain/repository"

	"gorm.io/gorm"
)

type chinaDoctorRepository struct{}

func NewChinaDoctorRepository() domainRepo.ChinaDoctorRepository {
	return &chinaDoctorRepository{}
}

func (r *chinaDoctorRepository) Create(ctx context.Context, db *gorm.DB, doctor *entity.ChinaDoctor) error {
	return db.WithContext(ctx).Omit("Availability").Create(doctor).Error
}

func (r *chinaDoctorRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.ChinaDoctor, error) {
	var doctor entity.ChinaDoctor
	err := db.WithContext(ctx).Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

// FindAll lists doctors ordered by department then name.
// Supports optional filters: department and availability flag.
func (r *chinaDoctorRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.ChinaDoctor, error) {
	var doctors []entity.ChinaDoctor
	query := db.WithContext(ctx).Model(&entity.ChinaDoctor{})

	if filter != nil {
		if filter.Department != "" {
			query = query.Where("department = ?", filter.Department)
		}
		if filter.Available != nil {
			query = query.Where("is_available = ?", *filter.Available)
		}
	}

	err := query.Order("department ASC, name ASC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *chinaDoctorRepository) Update(ctx context.Context, db *gorm.DB, doctor *entity.ChinaDoctor) error {
	return db.WithContext(ctx).Omit("Availability").Save(doctor).Error
}

func (r *chinaDoctorRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ChinaDoctor{})
	return result.RowsAffected, result.Error
}
