package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainguest "staybook/internal/domain/guest"
)

// statusForError maps the typed domain failures onto HTTP statuses. Every
// failure kind stays programmatically distinguishable for API clients via
// the error string; nothing is collapsed into a generic 500 unless it
// truly is one.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domainbooking.ErrNotFound),
		errors.Is(err, domainaccommodation.ErrNotFound),
		errors.Is(err, domainguest.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainbooking.ErrDateConflict):
		return http.StatusConflict
	case errors.Is(err, domainbooking.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domainaccommodation.ErrUnavailable),
		errors.Is(err, domainbooking.ErrCancellationWindowExpired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainbooking.ErrPastDate),
		errors.Is(err, domainbooking.ErrMinimumStay),
		errors.Is(err, domainbooking.ErrMaximumStay),
		errors.Is(err, domainbooking.ErrCapacityExceeded),
		errors.Is(err, domainbooking.ErrInvalidGuestCount),
		errors.Is(err, domainbooking.ErrInvalidStateLabel),
		errors.Is(err, domainbooking.ErrTerminalState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}
