package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
)

// ReservationHandler exposes the reservation endpoints.  Validation of
// the request shape happens here; everything after that (idempotency,
// locking, the ledger transaction) lives in the service.
type ReservationHandler struct {
	reservations *service.ReservationService
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	if reservations == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{reservations: reservations}
}

// Create handles POST /v1/reservations.  The body must carry user_id,
// seat_id and a request_id used as the idempotency key.  Repeating the
// same request_id returns the original reservation with 201 again.
// A seat that is being processed or is no longer available yields 409;
// a missing seat yields 404.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body struct {
		UserID    string `json:"user_id"`
		SeatID    string `json:"seat_id"`
		RequestID string `json:"request_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.UserID == "" || body.SeatID == "" || body.RequestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id, seat_id and request_id are required"})
	}

	reservation, err := h.reservations.Create(c.Request().Context(), body.UserID, body.SeatID, body.RequestID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, reservation)
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	reservation, err := h.reservations.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, reservation)
}

// ListByUser handles GET /v1/reservations?user_id=...
func (h *ReservationHandler) ListByUser(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}
	reservations, err := h.reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	if reservations == nil {
		reservations = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": reservations})
}
