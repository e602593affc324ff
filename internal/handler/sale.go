package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daviramosds/starsoft-backend-challenge/internal/model"
	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
)

// SaleHandler exposes payment confirmation and the sales history.
type SaleHandler struct {
	sales *service.SaleService
}

// NewSaleHandler constructs a SaleHandler.
func NewSaleHandler(sales *service.SaleService) *SaleHandler {
	if sales == nil {
		panic("nil service passed to NewSaleHandler")
	}
	return &SaleHandler{sales: sales}
}

// ConfirmPayment handles POST /v1/sales/confirm-payment.  The body
// carries the reservation_id and the external payment_id.  A
// reservation that is not PENDING yields 400, as does one whose expiry
// has passed; a missing reservation yields 404.
func (h *SaleHandler) ConfirmPayment(c echo.Context) error {
	var body struct {
		ReservationID string `json:"reservation_id"`
		PaymentID     string `json:"payment_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ReservationID == "" || body.PaymentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id and payment_id are required"})
	}

	sale, err := h.sales.ConfirmPayment(c.Request().Context(), body.ReservationID, body.PaymentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, sale)
}

// List handles GET /v1/sales.  Without a user_id query parameter the
// whole history is returned, newest first.
func (h *SaleHandler) List(c echo.Context) error {
	sales, err := h.sales.ListSales(c.Request().Context(), c.QueryParam("user_id"))
	if err != nil {
		return fail(c, err)
	}
	if sales == nil {
		sales = []model.Sale{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": sales})
}
