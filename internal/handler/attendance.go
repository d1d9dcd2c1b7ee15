package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hostelhub/seat-management/internal/model"
	"github.com/hostelhub/seat-management/internal/repository"
)

// AttendanceHandler records and lists daily presence marks. Saving a mark
// for a member/date pair that already has one overwrites it.
type AttendanceHandler struct {
	Attendance *repository.AttendanceRepo
	Members    *repository.MemberRepo
	Libraries  *repository.LibraryRepo
}

func NewAttendanceHandler(att *repository.AttendanceRepo, members *repository.MemberRepo, libs *repository.LibraryRepo) *AttendanceHandler {
	if att == nil || members == nil || libs == nil {
		panic("nil repository passed to NewAttendanceHandler")
	}
	return &AttendanceHandler{Attendance: att, Members: members, Libraries: libs}
}

// parseDate validates a YYYY-MM-DD date string and returns it
// normalized. An empty input defaults to today (UTC).
func parseDate(s string) (string, bool) {
	if s == "" {
		return time.Now().UTC().Format("2006-01-02"), true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// Mark handles POST /v1/libraries/:libraryID/attendance for a single
// member.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	var body struct {
		MemberID uint64 `json:"member_id"`
		Date     string `json:"date"`
		Present  bool   `json:"present"`
	}
	if err := c.Bind(&body); err != nil || body.MemberID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id is required"})
	}
	date, ok := parseDate(body.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	if _, err := h.Members.GetByID(ctx, ownerID, libraryID, body.MemberID); err != nil {
		return fail(c, err)
	}

	entry := &model.AttendanceEntry{
		OwnerID:   ownerID,
		LibraryID: libraryID,
		MemberID:  body.MemberID,
		Date:      date,
		Present:   body.Present,
	}
	if err := h.Attendance.Save(ctx, entry); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// MarkBulk handles POST /v1/libraries/:libraryID/attendance/bulk and
// upserts a whole roster for one date in a single statement.
func (h *AttendanceHandler) MarkBulk(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	var body struct {
		Date  string `json:"date"`
		Marks []struct {
			MemberID uint64 `json:"member_id"`
			Present  bool   `json:"present"`
		} `json:"marks"`
	}
	if err := c.Bind(&body); err != nil || len(body.Marks) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "marks are required"})
	}
	date, ok := parseDate(body.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	entries := make([]model.AttendanceEntry, 0, len(body.Marks))
	for _, m := range body.Marks {
		if m.MemberID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id is required for every mark"})
		}
		entries = append(entries, model.AttendanceEntry{
			OwnerID:   ownerID,
			LibraryID: libraryID,
			MemberID:  m.MemberID,
			Date:      date,
			Present:   m.Present,
		})
	}
	if err := h.Attendance.SaveBulk(c.Request().Context(), entries); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "saved": len(entries)})
}

// List handles GET /v1/libraries/:libraryID/attendance?date=YYYY-MM-DD
// and returns the roster for that date.
func (h *AttendanceHandler) List(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	date, ok := parseDate(c.QueryParam("date"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	rows, err := h.Attendance.ListByDate(c.Request().Context(), ownerID, libraryID, date)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "items": rows})
}
