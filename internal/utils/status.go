package utils

import (
	"errors"
	"net/http"

	"ms-attendance/internal/models"
)

// HTTPStatus maps the service-layer sentinel errors to response codes.
// Anything unrecognized is a 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrExpired):
		return http.StatusGone
	case errors.Is(err, models.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
