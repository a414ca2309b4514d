package repository

import (
	"context"
	"errors"
	"sync"

	"medbridge-api/internal/domain/entity"
	domainRepo "medbridge-api/internal/domain/repository"

	"gorm.io/gorm"
)

// roleRepository memoizes lookups. Role rows are inserted by migration and
// never modified at runtime.
type roleRepository struct {
	mu     sync.RWMutex
	byName map[string]entity.Role
}

func NewRoleRepository() domainRepo.RoleRepository {
	return &roleRepository{byName: make(map[string]entity.Role)}
}

func (r *roleRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	r.mu.RLock()
	cached, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return &cached, nil
	}

	var role entity.Role
	if err := db.WithContext(ctx).Where("role_name = ?", name).Take(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	r.mu.Lock()
	r.byName[name] = role
	r.mu.Unlock()

	return &role, nil
}
