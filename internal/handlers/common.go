package handlers

import (
	"errors"
	"net/http"

	"gameroom-backend/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// statusFor maps a service rejection onto an HTTP status, so clients can tell
// "doesn't exist" from "not allowed" from "not yet".
func statusFor(err error) int {
	switch {
	case services.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case services.IsConflict(err):
		return http.StatusConflict
	case services.IsInvalidState(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNoQuestions):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
