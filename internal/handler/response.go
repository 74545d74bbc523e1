package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taximeter/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Validation errors - Bad Request
	case errors.Is(err, service.ErrUnknownTripType),
		errors.Is(err, service.ErrUnknownSampleMode),
		errors.Is(err, service.ErrInvalidLocation):
		return http.StatusBadRequest

	// Phase/precondition errors - Conflict
	case errors.Is(err, service.ErrNoFix),
		errors.Is(err, service.ErrTripActive),
		errors.Is(err, service.ErrNoActiveTrip),
		errors.Is(err, service.ErrTripNotPaused):
		return http.StatusConflict

	// Permission denied by the position source
	case errors.Is(err, service.ErrPositionDenied):
		return http.StatusForbidden

	// Source unavailable
	case errors.Is(err, service.ErrPositionUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
