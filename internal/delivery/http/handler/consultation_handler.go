package handler

import (
	"net/http"

	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/usecase"
	"medbridge-api/pkg/response"
	"medbridge-api/pkg/validator"
)

type ConsultationHandler struct {
	consultationUsecase usecase.ConsultationUsecase
	reviewUsecase       usecase.DoctorReviewUsecase
	validator           *validator.CustomValidator
}

func NewConsultationHandler(consultationUsecase usecase.ConsultationUsecase, reviewUsecase usecase.DoctorReviewUsecase, validator *validator.CustomValidator) *ConsultationHandler {
	return &ConsultationHandler{
		consultationUsecase: consultationUsecase,
		reviewUsecase:       reviewUsecase,
		validator:           validator,
	}
}

// CreateConsultation books a pending consultation for the caller
// @Summary Book a consultation
// @Description Validates the doctor, profile ownership and the requested slot
// @Tags Consultations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateConsultationRequest true "Consultation Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /consultations [post]
func (h *ConsultationHandler) CreateConsultation(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateConsultationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	consultation, err := h.consultationUsecase.CreateConsultation(r.Context(), actor, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create consultation")
		return
	}

	response.Success(w, http.StatusCreated, "Consultation created successfully", consultation)
}

func (h *ConsultationHandler) GetConsultations(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	consultations, err := h.consultationUsecase.GetConsultations(r.Context(), actor, r.URL.Query().Get("status"))
	if err != nil {
		response.FromError(w, err, "Failed to get consultations")
		return
	}

	response.Success(w, http.StatusOK, "Consultations retrieved successfully", consultations)
}

func (h *ConsultationHandler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "consultation")
	if !ok {
		return
	}

	consultation, err := h.consultationUsecase.GetConsultation(r.Context(), actor, id)
	if err != nil {
		response.FromError(w, err, "Failed to get consultation")
		return
	}

	response.Success(w, http.StatusOK, "Consultation retrieved successfully", consultation)
}

func (h *ConsultationHandler) UpdateConsultation(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "consultation")
	if !ok {
		return
	}

	var req dto.UpdateConsultationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	consultation, err := h.consultationUsecase.UpdateConsultation(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update consultation")
		return
	}

	response.Success(w, http.StatusOK, "Consultation updated successfully", consultation)
}

// UpdateStatus moves a consultation through its lifecycle
// @Summary Change consultation status
// @Tags Consultations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Consultation ID"
// @Param request body dto.UpdateConsultationStatusRequest true "Status Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /consultations/{id}/status [put]
func (h *ConsultationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "consultation")
	if !ok {
		return
	}

	var req dto.UpdateConsultationStatusRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	consultation, err := h.consultationUsecase.UpdateStatus(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update consultation status")
		return
	}

	response.Success(w, http.StatusOK, "Consultation status updated successfully", consultation)
}

func (h *ConsultationHandler) DeleteConsultation(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "consultation")
	if !ok {
		return
	}

	if err := h.consultationUsecase.DeleteConsultation(r.Context(), actor, id); err != nil {
		response.FromError(w, err, "Failed to delete consultation")
		return
	}

	response.Success(w, http.StatusOK, "Consultation deleted successfully", nil)
}

func (h *ConsultationHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "consultation")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	review, err := h.reviewUsecase.CreateReview(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create review")
		return
	}

	response.Success(w, http.StatusCreated, "Review created successfully", review)
}
