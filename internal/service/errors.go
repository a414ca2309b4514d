package service

import (
	"fmt"

	"medbridge-api/internal/domain/entity"
	"medbridge-api/pkg/apperror"
)

var (
	ErrOutsideAvailability = apperror.Validation("outside_availability", "The requested time is outside the doctor's availability")
	ErrSlotTaken           = apperror.Conflict("slot_taken", "This time slot is already booked")
	ErrSlotBeingBooked     = apperror.Conflict("slot_being_booked", "This time slot is being booked by another request, please retry")
	ErrForbidden           = apperror.Forbidden("forbidden", "You don't have permission to perform this action")
	ErrInvalidStatus       = apperror.Validation("invalid_status", "Status must be one of pending, confirmed, completed or cancelled")
	ErrNotCompleted        = apperror.Validation("not_completed", "Only completed consultations can be reviewed")
	ErrAlreadyReviewed     = apperror.Conflict("already_reviewed", "This consultation has already been reviewed")
)

// IllegalTransitionError reports a status change missing from the
// transition table.
type IllegalTransitionError struct {
	From entity.ConsultationStatus
	To   entity.ConsultationStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %s to %s", e.From, e.To)
}

func (e *IllegalTransitionError) Kind() apperror.Kind {
	return apperror.KindConflict
}

func (e *IllegalTransitionError) Code() string {
	return "illegal_transition"
}
