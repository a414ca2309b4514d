package handler

import (
	"net/http"

	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/usecase"
	"medbridge-api/pkg/response"
	"medbridge-api/pkg/validator"
)

type DoctorAvailabilityHandler struct {
	availabilityUsecase usecase.DoctorAvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewDoctorAvailabilityHandler(availabilityUsecase usecase.DoctorAvailabilityUsecase, validator *validator.CustomValidator) *DoctorAvailabilityHandler {
	return &DoctorAvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

func (h *DoctorAvailabilityHandler) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateAvailabilityRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	window, err := h.availabilityUsecase.CreateAvailability(r.Context(), actor, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create availability")
		return
	}

	response.Success(w, http.StatusCreated, "Availability created successfully", window)
}

func (h *DoctorAvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := &dto.AvailabilityListQuery{
		DoctorID: q.Get("doctor_id"),
		Date:     q.Get("date"),
		From:     q.Get("from"),
		To:       q.Get("to"),
	}

	windows, err := h.availabilityUsecase.GetAvailability(r.Context(), query)
	if err != nil {
		response.FromError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", windows)
}

func (h *DoctorAvailabilityHandler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "availability")
	if !ok {
		return
	}

	if err := h.availabilityUsecase.DeleteAvailability(r.Context(), actor, id); err != nil {
		response.FromError(w, err, "Failed to delete availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability deleted successfully", nil)
}
