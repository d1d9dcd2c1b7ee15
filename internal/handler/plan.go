package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hostelhub/seat-management/internal/model"
	"github.com/hostelhub/seat-management/internal/repository"
)

// PlanHandler manages membership plans.
type PlanHandler struct {
	Plans     *repository.PlanRepo
	Libraries *repository.LibraryRepo
}

func NewPlanHandler(plans *repository.PlanRepo, libs *repository.LibraryRepo) *PlanHandler {
	if plans == nil || libs == nil {
		panic("nil repository passed to NewPlanHandler")
	}
	return &PlanHandler{Plans: plans, Libraries: libs}
}

type planReq struct {
	Name           string `json:"name"`
	DurationMonths uint32 `json:"duration_months"`
	Amount         int64  `json:"amount"` // paise
}

func (p *planReq) validate() bool {
	p.Name = strings.TrimSpace(p.Name)
	return p.Name != "" && p.DurationMonths > 0 && p.Amount >= 0
}

// Create handles POST /v1/libraries/:libraryID/plans.
func (h *PlanHandler) Create(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	var req planReq
	if err := c.Bind(&req); err != nil || !req.validate() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, duration_months and amount are required"})
	}

	plan := &model.Plan{
		OwnerID:        ownerID,
		LibraryID:      libraryID,
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		Amount:         req.Amount,
	}
	if err := h.Plans.Create(c.Request().Context(), plan); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, plan)
}

// List handles GET /v1/libraries/:libraryID/plans.
func (h *PlanHandler) List(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	plans, err := h.Plans.List(c.Request().Context(), ownerID, libraryID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": plans})
}

// Update handles PUT /v1/libraries/:libraryID/plans/:id. Members already
// registered keep their denormalized plan name and expiry; the change
// only affects future registrations.
func (h *PlanHandler) Update(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	planID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req planReq
	if err := c.Bind(&req); err != nil || !req.validate() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, duration_months and amount are required"})
	}

	plan := &model.Plan{
		ID:             planID,
		OwnerID:        ownerID,
		LibraryID:      libraryID,
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		Amount:         req.Amount,
	}
	if err := h.Plans.Update(c.Request().Context(), plan); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, plan)
}

// Delete handles DELETE /v1/libraries/:libraryID/plans/:id.
func (h *PlanHandler) Delete(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	planID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Plans.Delete(c.Request().Context(), ownerID, libraryID, planID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
