package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor hands out connections and runs units of work atomically.
type Transactor interface {
	Conn(ctx context.Context) *gorm.DB
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
