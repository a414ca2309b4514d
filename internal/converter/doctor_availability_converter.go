package converter

import (
	"time"

	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"
	"medbridge-api/pkg/timeutil"
)

// AvailabilityToResponse converts a DoctorAvailability entity to AvailabilityResponse DTO
func AvailabilityToResponse(window *entity.DoctorAvailability) *dto.AvailabilityResponse {
	if window == nil {
		return nil
	}

	response := &dto.AvailabilityResponse{
		ID:            window.ID,
		DoctorID:      window.DoctorID,
		AvailableDate: window.AvailableDate.Format(timeutil.DateLayout),
		StartTime:     clock(window.StartTime),
		EndTime:       clock(window.EndTime),
		CreatedAt:     window.CreatedAt,
	}

	if window.Doctor != nil {
		response.DoctorName = window.Doctor.Name
	}

	return response
}

// AvailabilitiesToResponses converts a slice of DoctorAvailability entities to slice of AvailabilityResponse DTOs
func AvailabilitiesToResponses(windows []entity.DoctorAvailability) []dto.AvailabilityResponse {
	responses := make([]dto.AvailabilityResponse, len(windows))
	for i := range windows {
		responses[i] = *AvailabilityToResponse(&windows[i])
	}
	return responses
}

// clock renders a stored TIME value as HH:MM, keeping seconds only when they
// are non-zero. Unparseable values pass through untouched.
func clock(value string) string {
	d, err := timeutil.ParseClock(value)
	if err != nil {
		return value
	}
	if d%time.Minute != 0 {
		return timeutil.FormatClockSec(d)
	}
	return timeutil.FormatClock(d)
}
