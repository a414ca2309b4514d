package handler

import (
	"net/http"

	"medbridge-api/internal/delivery/dto"
	"medbridge-api/internal/usecase"
	"medbridge-api/pkg/response"
	"medbridge-api/pkg/validator"
)

type UserProfileHandler struct {
	profileUsecase usecase.UserProfileUsecase
	validator      *validator.CustomValidator
}

func NewUserProfileHandler(profileUsecase usecase.UserProfileUsecase, validator *validator.CustomValidator) *UserProfileHandler {
	return &UserProfileHandler{
		profileUsecase: profileUsecase,
		validator:      validator,
	}
}

func (h *UserProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateUserProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	profile, err := h.profileUsecase.CreateProfile(r.Context(), actor, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create profile")
		return
	}

	response.Success(w, http.StatusCreated, "Profile created successfully", profile)
}

// GetProfiles returns every profile for staff and the caller's own otherwise.
func (h *UserProfileHandler) GetProfiles(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	profiles, err := h.profileUsecase.GetProfiles(r.Context(), actor)
	if err != nil {
		response.FromError(w, err, "Failed to get profiles")
		return
	}

	response.Success(w, http.StatusOK, "Profiles retrieved successfully", profiles)
}

func (h *UserProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "profile")
	if !ok {
		return
	}

	profile, err := h.profileUsecase.GetProfile(r.Context(), actor, id)
	if err != nil {
		response.FromError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *UserProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "profile")
	if !ok {
		return
	}

	var req dto.UpdateUserProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	profile, err := h.profileUsecase.UpdateProfile(r.Context(), actor, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", profile)
}

func (h *UserProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "profile")
	if !ok {
		return
	}

	if err := h.profileUsecase.DeleteProfile(r.Context(), actor, id); err != nil {
		response.FromError(w, err, "Failed to delete profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile deleted successfully", nil)
}
