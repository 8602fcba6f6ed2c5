package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"vendortrack/internal/common"
	"vendortrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// writeServiceError maps the service error taxonomy onto HTTP responses.
func writeServiceError(c echo.Context, err error, resource string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, services.ErrValidation):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, services.ErrDuplicate):
		return common.SendConflictError(c, err.Error())
	default:
		log.Printf("Internal error handling %s request: %v", resource, err)
		return common.SendServerError(c, "operation could not be completed")
	}
}

func userIDFromRequest(c echo.Context) (uuid.UUID, error) {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing user identity")
	}
	return userID, nil
}

// asOfParam reads the optional as_of query parameter, defaulting to the
// current time. It lets operators replay a sweep or inspect windows for
// a specific day.
func asOfParam(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("as_of")
	if raw == "" {
		return time.Now(), nil
	}
	return common.ParseDate(raw, "as_of")
}
