package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hostelhub/seat-management/internal/model"
	"github.com/hostelhub/seat-management/internal/repository"
	"github.com/hostelhub/seat-management/internal/service"
)

// MemberHandler exposes member registration and lifecycle endpoints.
// Registration enforces the free-tier member cap unless the owner holds
// an active subscription.
type MemberHandler struct {
	Members   *repository.MemberRepo
	Seats     *repository.SeatRepo
	Plans     *repository.PlanRepo
	Libraries *repository.LibraryRepo
	Ent       *service.Entitlements
	FreeLimit int
}

func NewMemberHandler(members *repository.MemberRepo, seats *repository.SeatRepo, plans *repository.PlanRepo, libs *repository.LibraryRepo, ent *service.Entitlements, freeLimit int) *MemberHandler {
	if members == nil || seats == nil || plans == nil || libs == nil || ent == nil {
		panic("nil dependency passed to NewMemberHandler")
	}
	return &MemberHandler{Members: members, Seats: seats, Plans: plans, Libraries: libs, Ent: ent, FreeLimit: freeLimit}
}

type memberReq struct {
	FullName      string  `json:"full_name"`
	Phone         string  `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	PhotoURL      *string `json:"photo_url"`
	DocumentURL   *string `json:"document_url"`
	PlanID        *uint64 `json:"plan_id"`
	AdmittedAt    *string `json:"admitted_at"` // RFC 3339; defaults to now
	ExpiresAt     *string `json:"expires_at"`  // RFC 3339; ignored when plan_id is set
	TotalAmount   int64   `json:"total_amount"`
	PaidAmount    int64   `json:"paid_amount"`
	Discount      int64   `json:"discount"`
	AdvanceAmount int64   `json:"advance_amount"`
}

// buildMember validates the request and resolves the plan when one is
// referenced: the plan fixes the total amount and the expiry (admission
// plus the plan's duration in months). Without a plan, expires_at is
// required so the expiry check always has a base.
func (h *MemberHandler) buildMember(c echo.Context, ownerID, libraryID uint64, req *memberReq) (*model.Member, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.FullName == "" || req.Phone == "" {
		return nil, errBadRequest
	}
	if req.TotalAmount < 0 || req.PaidAmount < 0 || req.Discount < 0 || req.AdvanceAmount < 0 {
		return nil, errBadRequest
	}

	admitted := time.Now().UTC()
	if req.AdmittedAt != nil {
		t, err := time.Parse(time.RFC3339, *req.AdmittedAt)
		if err != nil {
			return nil, errBadRequest
		}
		admitted = t.UTC()
	}

	m := &model.Member{
		OwnerID:       ownerID,
		LibraryID:     libraryID,
		FullName:      req.FullName,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		PhotoURL:      req.PhotoURL,
		DocumentURL:   req.DocumentURL,
		AdmittedAt:    admitted,
		TotalAmount:   req.TotalAmount,
		PaidAmount:    req.PaidAmount,
		Discount:      req.Discount,
		AdvanceAmount: req.AdvanceAmount,
	}

	if req.PlanID != nil {
		plan, err := h.Plans.GetByID(c.Request().Context(), ownerID, libraryID, *req.PlanID)
		if err != nil {
			return nil, err
		}
		m.PlanID = &plan.ID
		m.PlanName = &plan.Name
		m.TotalAmount = plan.Amount
		m.ExpiresAt = admitted.AddDate(0, int(plan.DurationMonths), 0)
	} else {
		if req.ExpiresAt == nil {
			return nil, errBadRequest
		}
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			return nil, errBadRequest
		}
		m.ExpiresAt = t.UTC()
	}
	return m, nil
}

// Create handles POST /v1/libraries/:libraryID/members. Owners without an
// active subscription are capped at FreeLimit members per library; the
// cap answers 402 so clients can prompt for an upgrade.
func (h *MemberHandler) Create(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	var req memberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	active, err := h.Ent.HasActive(ctx, ownerID)
	if err != nil {
		return fail(c, err)
	}
	if !active {
		n, err := h.Members.Count(ctx, ownerID, libraryID)
		if err != nil {
			return fail(c, err)
		}
		if n >= h.FreeLimit {
			return fail(c, repository.ErrMemberLimit)
		}
	}

	m, err := h.buildMember(c, ownerID, libraryID, &req)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Members.Create(ctx, m); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// Get handles GET /v1/libraries/:libraryID/members/:id. The payload
// includes the member's current seat, if any.
func (h *MemberHandler) Get(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	memberID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	m, err := h.Members.GetByID(ctx, ownerID, libraryID, memberID)
	if err != nil {
		return fail(c, err)
	}
	seat, err := h.Seats.SeatForMember(ctx, ownerID, libraryID, memberID)
	if err != nil {
		if !errors.Is(err, repository.ErrSeatNotFound) {
			return fail(c, err)
		}
		seat = nil
	}
	return c.JSON(http.StatusOK, echo.Map{"member": m, "seat": seat})
}

// Update handles PUT /v1/libraries/:libraryID/members/:id. The due
// amount is recomputed server-side from total, paid and discount; any
// client-sent due value is ignored.
func (h *MemberHandler) Update(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	memberID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req memberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	cur, err := h.Members.GetByID(ctx, ownerID, libraryID, memberID)
	if err != nil {
		return fail(c, err)
	}
	m, err := h.buildMember(c, ownerID, libraryID, &req)
	if err != nil {
		return fail(c, err)
	}
	m.ID = cur.ID
	m.AdmittedAt = cur.AdmittedAt
	if req.AdmittedAt != nil {
		if t, perr := time.Parse(time.RFC3339, *req.AdmittedAt); perr == nil {
			m.AdmittedAt = t.UTC()
		}
	}
	if err := h.Members.Update(ctx, m); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /v1/libraries/:libraryID/members/:id. A member
// still holding a seat cannot be removed; the seat must be deallocated
// first.
func (h *MemberHandler) Delete(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	memberID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	if _, err := h.Seats.SeatForMember(ctx, ownerID, libraryID, memberID); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "member still holds a seat"})
	} else if !errors.Is(err, repository.ErrSeatNotFound) {
		return fail(c, err)
	}
	if err := h.Members.Delete(ctx, ownerID, libraryID, memberID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/libraries/:libraryID/members with cursor
// pagination; ?expired=true narrows to members past their plan expiry.
func (h *MemberHandler) List(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	afterID := queryUint(c, "after_id", 0)
	limit := int(queryUint(c, "limit", 50))
	expiredOnly := c.QueryParam("expired") == "true"

	page, err := h.Members.List(c.Request().Context(), ownerID, libraryID, expiredOnly, time.Now().UTC(), afterID, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
