package payments

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opd/opd/internal/domain/billing"
	"github.com/opd/opd/internal/platform/auth"
)

// Handler exposes the patient-facing payment endpoints.
type Handler struct {
	svc *Service
}

// NewHandler returns a payment handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the payment routes on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	pay := g.Group("", auth.RequireRole("patient"))
	pay.POST("/payments/create", h.createPayment)
	pay.POST("/payments", h.makePayment)
}

type createPaymentRequest struct {
	RefID string `json:"refId"`
}

type makePaymentRequest struct {
	RefID string `json:"refId"`
	Bank  string `json:"bank"`
}

func (h *Handler) createPayment(c echo.Context) error {
	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RefID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refId is required")
	}

	session, err := h.svc.CreatePayment(c.Request().Context(), req.RefID)
	if err != nil {
		if errors.Is(err, billing.ErrInvoiceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) makePayment(c echo.Context) error {
	var req makePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RefID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refId is required")
	}
	if req.Bank == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "bank is required")
	}

	rc, err := h.svc.MakePayment(c.Request().Context(), req.RefID, req.Bank)
	if err != nil {
		if errors.Is(err, billing.ErrInvoiceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusCreated, rc)
}
