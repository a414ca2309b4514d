package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"medbridge-api/internal/delivery/http/middleware"
	"medbridge-api/internal/domain/entity"
	"medbridge-api/pkg/response"
	"medbridge-api/pkg/validator"

	"github.com/gorilla/mux"
)

// pathID reads a positive integer path variable. It writes a 400 and returns
// false when the value is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return 0, false
	}
	return id, true
}

func currentActor(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
	}
	return actor, ok
}

// decodeAndValidate decodes a JSON body into req and runs struct validation,
// writing the matching 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}
