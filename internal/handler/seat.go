package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hostelhub/seat-management/internal/queue"
	"github.com/hostelhub/seat-management/internal/repository"
	"github.com/hostelhub/seat-management/internal/service"
)

// SeatHandler exposes seat inventory and allocation endpoints. All routes
// are nested under /v1/libraries/:libraryID and scoped through
// libraryScope before touching seats.
type SeatHandler struct {
	Seats     *repository.SeatRepo
	Members   *repository.MemberRepo
	Libraries *repository.LibraryRepo
}

func NewSeatHandler(seats *repository.SeatRepo, members *repository.MemberRepo, libs *repository.LibraryRepo) *SeatHandler {
	if seats == nil || members == nil || libs == nil {
		panic("nil repository passed to NewSeatHandler")
	}
	return &SeatHandler{Seats: seats, Members: members, Libraries: libs}
}

// List handles GET /v1/libraries/:libraryID/seats. Results are ordered
// by ID and paginated with ?after_id and ?limit; ?room filters by room
// number.
func (h *SeatHandler) List(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	afterID := queryUint(c, "after_id", 0)
	limit := int(queryUint(c, "limit", 50))
	room := strings.TrimSpace(c.QueryParam("room"))

	page, err := h.Seats.ListByLibrary(c.Request().Context(), ownerID, libraryID, room, afterID, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /v1/libraries/:libraryID/seats/:id.
func (h *SeatHandler) Get(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	seatID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seat, err := h.Seats.GetByID(c.Request().Context(), ownerID, libraryID, seatID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, seat)
}

// Allot handles POST /v1/libraries/:libraryID/seats/:id/allot. The member
// is loaded first for its name and expiry; the allocation itself runs in
// a single transaction inside the repository so concurrent requests for
// the same seat or member serialize there. On success a seat.allocated
// event is published; publish failures are logged, never surfaced.
func (h *SeatHandler) Allot(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	seatID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		MemberID uint64 `json:"member_id"`
	}
	if err := c.Bind(&body); err != nil || body.MemberID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id is required"})
	}

	ctx := c.Request().Context()
	member, err := h.Members.GetByID(ctx, ownerID, libraryID, body.MemberID)
	if err != nil {
		return fail(c, err)
	}

	actorID, _ := getUserID(c)
	now := time.Now().UTC()
	conf, err := h.Seats.Allocate(ctx, ownerID, libraryID, seatID, member.ID, member.FullName, member.ExpiresAt, actorID, now)
	if err != nil {
		return fail(c, err)
	}

	go publishSeatEvent(queue.SeatAllocatedQueue, queue.SeatEvent{
		SeatID:     seatID,
		SeatLabel:  conf.SeatLabel,
		LibraryID:  libraryID,
		MemberID:   member.ID,
		MemberName: member.FullName,
		RoomNumber: conf.RoomNumber,
		RoomType:   conf.RoomType,
		ActorID:    actorID,
		OccurredAt: now.Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, conf)
}

// Deallocate handles POST /v1/libraries/:libraryID/seats/:id/deallocate.
// Releasing an unallocated seat is a 409; the member keeps their record,
// only the seat link is cleared.
func (h *SeatHandler) Deallocate(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	seatID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	actorID, _ := getUserID(c)
	now := time.Now().UTC()
	memberID, label, err := h.Seats.Deallocate(c.Request().Context(), ownerID, libraryID, seatID, actorID, now)
	if err != nil {
		return fail(c, err)
	}

	go publishSeatEvent(queue.SeatReleasedQueue, queue.SeatEvent{
		SeatID:     seatID,
		SeatLabel:  label,
		LibraryID:  libraryID,
		MemberID:   memberID,
		ActorID:    actorID,
		OccurredAt: now.Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"seat_id":   seatID,
		"member_id": memberID,
		"label":     label,
	})
}

// AddSeats handles POST /v1/libraries/:libraryID/seats. It appends count
// seats to a room, labelled {room}-bed-{n+1}..{n+count} after the highest
// existing index, and returns the created labels.
func (h *SeatHandler) AddSeats(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	var body struct {
		Count      int    `json:"count"`
		RoomNumber string `json:"room_number"`
		RoomType   string `json:"room_type"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.RoomNumber = strings.TrimSpace(body.RoomNumber)
	body.RoomType = strings.ToUpper(strings.TrimSpace(body.RoomType))
	if body.Count <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be greater than zero"})
	}
	if body.RoomNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number is required"})
	}

	actorID, _ := getUserID(c)
	labels, err := h.Seats.AddSeats(c.Request().Context(), ownerID, libraryID, body.Count, body.RoomType, body.RoomNumber, actorID, time.Now().UTC())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"labels": labels})
}

// Delete handles DELETE /v1/libraries/:libraryID/seats/:id. Deletion is
// unconditional: an allocated seat is removed together with its
// allocation.
func (h *SeatHandler) Delete(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	seatID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Seats.Delete(c.Request().Context(), ownerID, libraryID, seatID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// publishSeatEvent fires an event with its own timeout, detached from
// the request context which is gone by the time the goroutine runs.
func publishSeatEvent(queueName string, ev queue.SeatEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := service.PublishSeatEvent(ctx, queueName, ev); err != nil {
		log.Printf("seat event publish failed queue=%s seat=%d: %v", queueName, ev.SeatID, err)
	}
}
