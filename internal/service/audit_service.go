package service

import (
	"context"

	"medbridge-api/internal/domain/entity"
	"medbridge-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService records mutations inside the caller's transaction, so an
// audit entry exists exactly when the change was committed.
type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actor entity.Actor, action string, entityName string, entityID interface{}, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actor entity.Actor, action string, entityName string, entityID interface{}, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, actor entity.Actor, action string, entityName string, entityID interface{}, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actor entity.Actor, action string, entityName string, entityID interface{}, newValue interface{}) error {
	return s.record(ctx, tx, actor, action, entityName, entityID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor entity.Actor, action string, entityName string, entityID interface{}, oldValue, newValue interface{}) error {
	return s.record(ctx, tx, actor, action, entityName, entityID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actor entity.Actor, action string, entityName string, entityID interface{}, oldValue interface{}) error {
	return s.record(ctx, tx, actor, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) record(ctx context.Context, tx *gorm.DB, actor entity.Actor, action, entityName string, entityID, oldValue, newValue interface{}) error {
	var userID *uuid.UUID
	if actor.UserID != uuid.Nil {
		id := actor.UserID
		userID = &id
	}

	auditLog := &entity.AuditLog{
		UserID: userID,
		Action: action,
		Metadata: datatypes.JSONMap{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
