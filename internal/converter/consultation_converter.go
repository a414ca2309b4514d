package converter

import (
	"encoding/json"

	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"
)

// ConsultationToResponse converts a Consultation entity to ConsultationResponse DTO
// Includes doctor, patient name and review if they are loaded
func ConsultationToResponse(consultation *entity.Consultation) *dto.ConsultationResponse {
	if consultation == nil {
		return nil
	}

	response := &dto.ConsultationResponse{
		ID:                  consultation.ID,
		UserProfileID:       consultation.UserProfileID,
		DoctorID:            consultation.DoctorID,
		Doctor:              DoctorToResponse(consultation.Doctor),
		SymptomsDescription: consultation.SymptomsDescription,
		ReportRef:           consultation.ReportRef,
		Status:              string(consultation.Status),
		StatusDisplay:       consultation.Status.Label(),
		ScheduledAt:         consultation.ScheduledAt,
		Notes:               consultation.Notes,
		Review:              ReviewToResponse(consultation.Review),
		CreatedAt:           consultation.CreatedAt,
		UpdatedAt:           consultation.UpdatedAt,
	}

	if len(consultation.AISuggestion) > 0 {
		response.AISuggestion = json.RawMessage(consultation.AISuggestion)
	}

	if consultation.UserProfile != nil && consultation.UserProfile.User != nil {
		response.PatientName = consultation.UserProfile.User.FullName()
	}

	return response
}

// ConsultationsToResponses converts a slice of Consultation entities to slice of ConsultationResponse DTOs
func ConsultationsToResponses(consultations []entity.Consultation) []dto.ConsultationResponse {
	responses := make([]dto.ConsultationResponse, len(consultations))
	for i := range consultations {
		responses[i] = *ConsultationToResponse(&consultations[i])
	}
	return responses
}
