package handler

import (
	"net/http"

	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/usecase"
	"medbridge-api/pkg/response"
	"medbridge-api/pkg/validator"
)

type TriageHandler struct {
	triageUsecase usecase.TriageUsecase
	validator     *validator.CustomValidator
}

func NewTriageHandler(triageUsecase usecase.TriageUsecase, validator *validator.CustomValidator) *TriageHandler {
	return &TriageHandler{
		triageUsecase: triageUsecase,
		validator:     validator,
	}
}

func (h *TriageHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req dto.TriageRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	suggestion, err := h.triageUsecase.Suggest(r.Context(), &req)
	if err != nil {
		response.FromError(w, err, "Failed to suggest a department")
		return
	}

	response.Success(w, http.StatusOK, "Department suggested successfully", suggestion)
}
