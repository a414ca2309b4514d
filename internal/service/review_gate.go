package service

import (
	"medbridge-api/internal/domain/entity"

	"github.com/google/uuid"
)

// CheckReviewAllowed enforces, in order: the consultation is completed, it has
// no review yet, and the actor is staff or the owning patient.
func CheckReviewAllowed(consultation *entity.Consultation, alreadyReviewed bool, ownerUserID uuid.UUID, actor entity.Actor) error {
	if !consultation.IsCompleted() {
		return ErrNotCompleted
	}
	if alreadyReviewed {
		return ErrAlreadyReviewed
	}
	if !actor.CanAccess(ownerUserID) {
		return ErrForbidden
	}
	return nil
}
