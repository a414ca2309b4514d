package converter

import (
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"

	"gorm.io/datatypes"
)

func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	metadata := log.Metadata
	if metadata == nil {
		metadata = datatypes.JSONMap{}
	}

	// Entries outlive their users; user_id is nulled on delete.
	return &dto.AuditLogResponse{
		ID:        log.ID,
		UserID:    log.UserID,
		User:      UserToResponse(log.User),
		Action:    log.Action,
		Metadata:  metadata,
		CreatedAt: log.CreatedAt,
	}
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	out := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, *AuditLogToResponse(&logs[i]))
	}
	return out
}
