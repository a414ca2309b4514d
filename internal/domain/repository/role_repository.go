package repository

import (
	"context"

	"medbridge-api/internal/domain/entity"

	"gorm.io/gorm"
)

// RoleRepository resolves the fixed role rows seeded by the initial migration.
type RoleRepository interface {
	// FindByName returns nil when no role carries the name.
	FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error)
}
