package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
)

// SessionHandler exposes session management and browsing endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	if sessions == nil {
		panic("nil service passed to NewSessionHandler")
	}
	return &SessionHandler{sessions: sessions}
}

// Create handles POST /v1/sessions.  The seat map is created together
// with the session; a second session in the same room at the same
// start time yields 409.
func (h *SessionHandler) Create(c echo.Context) error {
	var body struct {
		MovieTitle       string `json:"movie_title"`
		Room             string `json:"room"`
		StartTime        string `json:"start_time"`
		TicketPriceCents uint32 `json:"ticket_price_cents"`
		TotalSeats       int    `json:"total_seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MovieTitle == "" || body.Room == "" || body.StartTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_title, room and start_time are required"})
	}

	session, err := h.sessions.Create(c.Request().Context(), service.CreateSessionInput{
		MovieTitle:       body.MovieTitle,
		Room:             body.Room,
		StartTime:        body.StartTime,
		TicketPriceCents: body.TicketPriceCents,
		TotalSeats:       body.TotalSeats,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

// List handles GET /v1/sessions.
func (h *SessionHandler) List(c echo.Context) error {
	sessions, err := h.sessions.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": sessions})
}

// Get handles GET /v1/sessions/:id.
func (h *SessionHandler) Get(c echo.Context) error {
	session, err := h.sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// AvailableSeats handles GET /v1/sessions/:id/available-seats.
func (h *SessionHandler) AvailableSeats(c echo.Context) error {
	seats, err := h.sessions.AvailableSeats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if seats == nil {
		seats = []model.Seat{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}
