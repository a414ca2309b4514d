package converter

import (
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"
)

// UserProfileToResponse converts a UserProfile entity to UserProfileResponse DTO
func UserProfileToResponse(profile *entity.UserProfile) *dto.UserProfileResponse {
	if profile == nil {
		return nil
	}

	response := &dto.UserProfileResponse{
		ID:                        profile.ID,
		UserID:                    profile.UserID,
		Phone:                     profile.Phone,
		LanguagePreference:        string(profile.LanguagePreference),
		LanguagePreferenceDisplay: profile.LanguagePreference.Label(),
		MedicalHistory:            profile.MedicalHistory,
		CreatedAt:                 profile.CreatedAt,
		UpdatedAt:                 profile.UpdatedAt,
	}

	if profile.User != nil {
		response.Username = profile.User.Username
		response.Email = profile.User.Email
		response.FullName = profile.User.FullName()
	}

	return response
}

// UserProfilesToResponses converts a slice of UserProfile entities to slice of UserProfileResponse DTOs
func UserProfilesToResponses(profiles []entity.UserProfile) []dto.UserProfileResponse {
	responses := make([]dto.UserProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = *UserProfileToResponse(&profiles[i])
	}
	return responses
}
