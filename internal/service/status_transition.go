package service

import "medbridge-api/internal/domain/entity"

// TransitionStatus moves the consultation to target. Permission is checked
// before legality, so non-staff actors are refused even for same-status or
// illegal requests. Requesting the current status succeeds without a change.
// It reports whether the status changed.
func TransitionStatus(consultation *entity.Consultation, target entity.ConsultationStatus, actor entity.Actor) (bool, error) {
	if !actor.IsAdministrative() {
		return false, ErrForbidden
	}
	if !target.IsValid() {
		return false, ErrInvalidStatus
	}

	current := consultation.Status
	if current == target {
		return false, nil
	}
	if !current.CanTransitionTo(target) {
		return false, &IllegalTransitionError{From: current, To: target}
	}

	consultation.Status = target
	return true, nil
}
