package billing

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/opd/opd/internal/platform/auth"
	"github.com/opd/opd/pkg/pagination"
)

// Handler exposes read endpoints over invoices and receipts. Invoices are
// created by the prescription confirmation flow and paid through the
// payments package.
type Handler struct {
	svc *Service
}

// NewHandler returns a billing read handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the billing read routes on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	read := g.Group("", auth.RequireRole("doctor", "pharmacist", "patient"))
	read.GET("/invoices", h.listInvoices)
	read.GET("/invoices/:id", h.getInvoice)
	read.GET("/invoices/:id/fees", h.getInvoiceFees)
	read.GET("/invoices/:id/receipts", h.listReceipts)
	read.GET("/receipts/:id", h.getReceipt)
}

func (h *Handler) listInvoices(c echo.Context) error {
	// Patients look invoices up by the INVOICE# reference they were sent;
	// internal callers use the uuid routes.
	if refID := c.QueryParam("refId"); refID != "" {
		inv, err := h.svc.GetInvoiceByRefID(c.Request().Context(), refID)
		if err != nil {
			if errors.Is(err, ErrInvoiceNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, err.Error())
			}
			return err
		}
		return c.JSON(http.StatusOK, inv)
	}

	page := pagination.FromContext(c)
	items, total, err := h.svc.ListInvoices(c.Request().Context(), page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, page.Limit, page.Offset))
}

func (h *Handler) getInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}
	inv, err := h.svc.GetInvoice(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) getInvoiceFees(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}
	fees, err := h.svc.GetInvoiceFees(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fees)
}

func (h *Handler) listReceipts(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}
	receipts, err := h.svc.ListReceiptsByInvoice(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, receipts)
}

func (h *Handler) getReceipt(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid receipt id")
	}
	rc, err := h.svc.GetReceipt(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, rc)
}
