package dto

type TriageRequest struct {
	Symptoms string `json:"symptoms" validate:"required,trimmedmin=20,trimmedmax=2000"`
}

type TriageResponse struct {
	Department          string  `json:"department"`
	SuggestedDepartment string  `json:"suggested_department"`
	Reason              string  `json:"reason"`
	Confidence          float64 `json:"confidence"`
}
