package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hostelhub/seat-management/internal/model"
	"github.com/hostelhub/seat-management/internal/repository"
)

// FinanceHandler records member payments and library expenses and lists
// the ledger. Payments update the member's paid/due amounts and the
// ledger row in one transaction; the receipt number comes back in the
// response.
type FinanceHandler struct {
	Finance   *repository.FinanceRepo
	Libraries *repository.LibraryRepo
}

func NewFinanceHandler(fin *repository.FinanceRepo, libs *repository.LibraryRepo) *FinanceHandler {
	if fin == nil || libs == nil {
		panic("nil repository passed to NewFinanceHandler")
	}
	return &FinanceHandler{Finance: fin, Libraries: libs}
}

// RecordPayment handles POST /v1/libraries/:libraryID/finance/payments.
func (h *FinanceHandler) RecordPayment(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	var body struct {
		MemberID uint64  `json:"member_id"`
		Amount   int64   `json:"amount"` // paise
		Note     *string `json:"note"`
	}
	if err := c.Bind(&body); err != nil || body.MemberID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id is required"})
	}
	if body.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be greater than zero"})
	}

	actorID, _ := getUserID(c)
	rec, err := h.Finance.RecordPayment(c.Request().Context(), ownerID, libraryID, body.MemberID, body.Amount, body.Note, actorID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// RecordExpense handles POST /v1/libraries/:libraryID/finance/expenses.
func (h *FinanceHandler) RecordExpense(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	var body struct {
		Amount int64  `json:"amount"` // paise
		Note   string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Note = strings.TrimSpace(body.Note)
	if body.Amount <= 0 || body.Note == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount and note are required"})
	}

	actorID, _ := getUserID(c)
	rec, err := h.Finance.RecordExpense(c.Request().Context(), ownerID, libraryID, body.Amount, body.Note, actorID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// List handles GET /v1/libraries/:libraryID/finance?kind=PAYMENT|EXPENSE.
// Without a kind filter both record types are returned, newest first.
func (h *FinanceHandler) List(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	kind := strings.ToUpper(strings.TrimSpace(c.QueryParam("kind")))
	switch kind {
	case "", model.RecordPayment, model.RecordExpense:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be PAYMENT or EXPENSE"})
	}
	limit := int(queryUint(c, "limit", 100))

	records, err := h.Finance.List(c.Request().Context(), ownerID, libraryID, kind, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": records})
}
