package handlers

import (
	"errors"
	"net/http"

	"github.com/gourl/sqids/internal/models"
	"github.com/gourl/sqids/pkg/sqids"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var errInvalidBody = ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"}

// mapErrorToResponse maps service errors to HTTP status codes and error responses.
func mapErrorToResponse(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, models.ErrEmptyName):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "EMPTY_NAME"}
	case errors.Is(err, models.ErrNameTooLong):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "NAME_TOO_LONG"}
	case errors.Is(err, models.ErrInvalidTarget):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_TARGET"}
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"}
	case errors.Is(err, sqids.ErrOutOfRange):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "OUT_OF_RANGE"}
	case errors.Is(err, sqids.ErrMaxAttempts):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "MAX_ATTEMPTS"}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, resp := mapErrorToResponse(err)
	writeJSON(w, status, resp)
}
