package converter

import (
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/domain/entity"
)

// DoctorToResponse converts a ChinaDoctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.ChinaDoctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:                doctor.ID,
		Name:              doctor.Name,
		Hospital:          doctor.Hospital,
		Department:        string(doctor.Department),
		DepartmentDisplay: doctor.Department.Label(),
		BiographyEN:       doctor.BiographyEN,
		IsAvailable:       doctor.IsAvailable,
		YearsOfExperience: doctor.YearsOfExperience,
		CreatedAt:         doctor.CreatedAt,
		UpdatedAt:         doctor.UpdatedAt,
	}
}

// DoctorsToResponses converts a slice of ChinaDoctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.ChinaDoctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
