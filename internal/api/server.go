package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lucasmv/studydeck/internal/errors"
	"github.com/lucasmv/studydeck/internal/logger"
	"github.com/lucasmv/studydeck/internal/services"
)

type Server struct {
	UserService      services.UserService
	DeckService      services.DeckService
	FlashcardService services.FlashcardService
	StudyService     services.StudyService
	StatsService     services.StatsService
}

var validate = validator.New()

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON parses the request body into v and validates it.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body")
	}
	if err := validate.Struct(v); err != nil {
		var invalid validator.ValidationErrors
		if stderrors.As(err, &invalid) && len(invalid) > 0 {
			return errors.NewValidationError(invalid[0].Field(), invalid[0].Tag())
		}
		return errors.NewBadRequestError("invalid request body")
	}
	return nil
}
