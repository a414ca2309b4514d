package converter

import (
	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/service"
)

// TriageToResponse converts a triage suggestion to TriageResponse DTO
func TriageToResponse(result service.TriageResult) *dto.TriageResponse {
	return &dto.TriageResponse{
		Department:          string(result.Department),
		SuggestedDepartment: result.Department.Label(),
		Reason:              result.Reason,
		Confidence:          result.Confidence.InexactFloat64(),
	}
}
