package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nayeem51/friendline/internal/apperrors"
)

// httpError maps the service error taxonomy to HTTP statuses: NotFound is a
// missing resource, Invalid and Conflict are bad requests, anything else is
// a server error.
func httpError(err error) *echo.HTTPError {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case apperrors.KindInvalid, apperrors.KindConflict:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// parseID parses a numeric path or query parameter into a user id
func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
