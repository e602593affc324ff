package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
)

// fail translates a service error into a JSON error response.  The
// business error kinds map onto dedicated statuses; anything else is
// logged and reported as a 500 without leaking internals.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrExpired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		log.Printf("handler: internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
