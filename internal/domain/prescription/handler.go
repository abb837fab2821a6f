package prescription

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/opd/opd/internal/platform/auth"
	"github.com/opd/opd/pkg/pagination"
)

// Handler exposes read endpoints over prescriptions and their plans. The
// write path (create, edit, cancel, confirm) lives in the orders package.
type Handler struct {
	svc *Service
}

// NewHandler returns a prescription read handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the prescription read routes on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	read := g.Group("", auth.RequireRole("doctor", "pharmacist"))
	read.GET("/prescriptions", h.list)
	read.GET("/prescriptions/:id", h.get)
	read.GET("/prescriptions/:id/draft-plans", h.listDrafts)
	read.GET("/prescriptions/:id/plans", h.listPlans)
}

func (h *Handler) list(c echo.Context) error {
	page := pagination.FromContext(c)
	items, total, err := h.svc.ListPrescriptions(c.Request().Context(), page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, page.Limit, page.Offset))
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}
	p, err := h.svc.GetPrescription(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) listDrafts(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}
	drafts, err := h.svc.ListDraftsByPrescription(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, drafts)
}

func (h *Handler) listPlans(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription id")
	}
	plans, err := h.svc.ListPlans(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plans)
}
