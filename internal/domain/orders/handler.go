package orders

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opd/opd/internal/domain/medicine"
	"github.com/opd/opd/internal/domain/prescription"
	"github.com/opd/opd/internal/platform/auth"
)

// Handler exposes the doctor-facing prescription order workflow.
type Handler struct {
	svc *Service
}

// NewHandler returns an order workflow handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the order routes on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	write := g.Group("", auth.RequireRole("doctor"))
	write.POST("/prescription-orders", h.createDrafts)
	write.PUT("/prescription-orders", h.editDrafts)
	write.POST("/prescription-orders/cancel", h.cancelDrafts)
	write.POST("/prescription-orders/confirm", h.confirm)
}

// orderRequest carries draft medicine plans for create, edit, cancel, and
// confirm.
type orderRequest struct {
	DraftMedicinePlans []*prescription.DraftMedicinePlan `json:"draftMedicinePlans"`
}

// orderResponse always carries both arrays; medicinePlans stays empty until
// confirmation.
type orderResponse struct {
	DraftMedicinePlans []*prescription.DraftMedicinePlan `json:"draftMedicinePlans"`
	MedicinePlans      []*prescription.MedicinePlan      `json:"medicinePlans"`
}

func newOrderResponse(drafts []*prescription.DraftMedicinePlan, plans []*prescription.MedicinePlan) orderResponse {
	if plans == nil {
		plans = []*prescription.MedicinePlan{}
	}
	return orderResponse{DraftMedicinePlans: drafts, MedicinePlans: plans}
}

func (h *Handler) bindPlans(c echo.Context) ([]*prescription.DraftMedicinePlan, error) {
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.DraftMedicinePlans) == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "draftMedicinePlans is required")
	}
	return req.DraftMedicinePlans, nil
}

func (h *Handler) createDrafts(c echo.Context) error {
	plans, err := h.bindPlans(c)
	if err != nil {
		return err
	}

	drafts, err := h.svc.CreateDrafts(c.Request().Context(), plans)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, newOrderResponse(drafts, nil))
}

func (h *Handler) editDrafts(c echo.Context) error {
	plans, err := h.bindPlans(c)
	if err != nil {
		return err
	}

	drafts, err := h.svc.EditDrafts(c.Request().Context(), plans)
	if err != nil {
		if errors.Is(err, prescription.ErrDraftNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, newOrderResponse(drafts, nil))
}

func (h *Handler) cancelDrafts(c echo.Context) error {
	plans, err := h.bindPlans(c)
	if err != nil {
		return err
	}

	drafts, err := h.svc.CancelDrafts(c.Request().Context(), plans)
	if err != nil {
		if errors.Is(err, prescription.ErrDraftNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, newOrderResponse(drafts, nil))
}

func (h *Handler) confirm(c echo.Context) error {
	plans, err := h.bindPlans(c)
	if err != nil {
		return err
	}

	result, err := h.svc.Confirm(c.Request().Context(), plans)
	if err != nil {
		switch {
		case errors.Is(err, medicine.ErrNotFound):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, prescription.ErrDraftNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrEmptyOrder):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusCreated, newOrderResponse(plans, result.Plans))
}
