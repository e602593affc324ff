package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/daviramosds/starsoft-backend-challenge/internal/handler"
)

// RegisterRoutes registers the health check and every /v1 endpoint on
// the provided Echo instance.  Routing stays a thin layer: handlers
// validate request shape, the services own the booking semantics.
func RegisterRoutes(e *echo.Echo, sessions *handler.SessionHandler, reservations *handler.ReservationHandler, sales *handler.SaleHandler) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	// Sessions: creation and browsing.
	v1.POST("/sessions", sessions.Create)
	v1.GET("/sessions", sessions.List)
	v1.GET("/sessions/:id", sessions.Get)
	v1.GET("/sessions/:id/available-seats", sessions.AvailableSeats)

	// Reservations: the concurrency-critical booking path.
	v1.POST("/reservations", reservations.Create)
	v1.GET("/reservations", reservations.ListByUser)
	v1.GET("/reservations/:id", reservations.Get)

	// Sales: payment confirmation and purchase history.
	v1.POST("/sales/confirm-payment", sales.ConfirmPayment)
	v1.GET("/sales", sales.List)
}
