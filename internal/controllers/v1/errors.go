// Package v1 implements the HTTP API of the dining management backend.
package v1

import (
	"errors"
	"net/http"

	"github.com/sami157/dining-management/internal/models"
)

// status returns the appropriate HTTP status for an error from the model layer.
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError

	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound

	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Finalized months and duplicate finalization are conflicts with the
	// current state of the ledger, not malformed requests.
	case errors.Is(err, models.ErrMonthFinalized),
		errors.Is(err, models.ErrAlreadyFinalized):
		return http.StatusConflict

	default:
		return http.StatusBadRequest
	}
}
