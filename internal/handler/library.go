package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hostelhub/seat-management/internal/model"
	"github.com/hostelhub/seat-management/internal/repository"
	"github.com/hostelhub/seat-management/internal/service"
)

// LibraryHandler manages libraries (the tenant boundary) and the owner's
// subscription. Creating or renewing a subscription lifts the free-tier
// member cap for all of the owner's libraries.
type LibraryHandler struct {
	Libraries     *repository.LibraryRepo
	Subscriptions *repository.SubscriptionRepo
	Ent           *service.Entitlements
}

func NewLibraryHandler(libs *repository.LibraryRepo, subs *repository.SubscriptionRepo, ent *service.Entitlements) *LibraryHandler {
	if libs == nil || subs == nil || ent == nil {
		panic("nil dependency passed to NewLibraryHandler")
	}
	return &LibraryHandler{Libraries: libs, Subscriptions: subs, Ent: ent}
}

type libraryReq struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
}

// Create handles POST /v1/libraries.
func (h *LibraryHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	var req libraryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	lib := &model.Library{OwnerID: ownerID, Name: req.Name, Address: req.Address}
	if err := h.Libraries.Create(c.Request().Context(), lib); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, lib)
}

// List handles GET /v1/libraries.
func (h *LibraryHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	libs, err := h.Libraries.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": libs})
}

// Update handles PUT /v1/libraries/:libraryID.
func (h *LibraryHandler) Update(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	var req libraryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	lib := &model.Library{ID: libraryID, OwnerID: ownerID, Name: req.Name, Address: req.Address}
	if err := h.Libraries.Update(c.Request().Context(), lib); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, lib)
}

// Subscription handles GET /v1/subscription and reports the owner's
// current entitlement.
func (h *LibraryHandler) Subscription(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	sub, err := h.Subscriptions.GetForOwner(c.Request().Context(), ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusOK, echo.Map{"active": false})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"active":     sub.ExpiresAt.After(time.Now().UTC()),
		"plan":       sub.Plan,
		"expires_at": sub.ExpiresAt,
	})
}

// Subscribe handles POST /v1/subscription. Payment processing lives
// outside this service; the endpoint records an entitlement granted for
// the given number of months and drops the cached entitlement answer so
// the new cap applies immediately.
func (h *LibraryHandler) Subscribe(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	var body struct {
		Plan   string `json:"plan"`
		Months int    `json:"months"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Plan = strings.TrimSpace(body.Plan)
	if body.Plan == "" || body.Months <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plan and months are required"})
	}

	ctx := c.Request().Context()
	expiresAt := time.Now().UTC().AddDate(0, body.Months, 0)
	if err := h.Subscriptions.Record(ctx, ownerID, body.Plan, expiresAt); err != nil {
		return fail(c, err)
	}
	h.Ent.Invalidate(ctx, ownerID)

	return c.JSON(http.StatusCreated, echo.Map{
		"plan":       body.Plan,
		"expires_at": expiresAt,
	})
}
