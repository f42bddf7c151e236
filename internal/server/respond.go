package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/itskdhere/together-we/pkg/types"
)

// Every handler answers with this envelope. Failures carry a
// human-readable message instead of surfacing as transport errors.
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, payload response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) respondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	s.respondJSON(w, status, response{Success: true, Message: message, Data: data})
}

func (s *Service) respondError(w http.ResponseWriter, err error) {
	status, message := classifyError(err)
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).Error("request failed")
	}

	s.respondJSON(w, status, response{Success: false, Message: message})
}

func classifyError(err error) (int, string) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, fieldErr.Field())
		}

		return http.StatusBadRequest, fmt.Sprintf("Invalid or missing fields: %s.", strings.Join(fields, ", "))
	}

	switch {
	case errors.Is(err, types.ErrNotAuthenticated):
		return http.StatusUnauthorized, "You must be logged in."
	case errors.Is(err, types.ErrNotOnboarded):
		return http.StatusForbidden, "Complete onboarding first."
	case errors.Is(err, types.ErrUserNotFound):
		return http.StatusNotFound, "No matching account for this role."
	case errors.Is(err, types.ErrVolunteerNotFound):
		return http.StatusNotFound, "Volunteer profile not found."
	case errors.Is(err, types.ErrOrganizationNotFound):
		return http.StatusNotFound, "Organization profile not found."
	case errors.Is(err, types.ErrEventNotFound):
		return http.StatusNotFound, "Event not found."
	case errors.Is(err, types.ErrBadgeNotFound):
		return http.StatusNotFound, "Badge not found."
	case errors.Is(err, types.ErrUsernameTaken):
		return http.StatusConflict, "That username is already taken."
	case errors.Is(err, types.ErrEventFull):
		return http.StatusConflict, "This event has reached its volunteer capacity."
	case errors.Is(err, types.ErrAlreadyJoined):
		return http.StatusConflict, "You have already joined this event."
	case errors.Is(err, types.ErrNotJoined):
		return http.StatusConflict, "You have not joined this event."
	}

	return http.StatusInternalServerError, "Something went wrong. Please try again."
}
