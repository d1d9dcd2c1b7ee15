package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hostelhub/seat-management/internal/model"
	"github.com/hostelhub/seat-management/internal/repository"
)

// RoomHandler manages rooms. Occupancy is always derived from the seats
// table, never stored, so room listings can't drift from reality.
type RoomHandler struct {
	Rooms     *repository.RoomRepo
	Libraries *repository.LibraryRepo
}

func NewRoomHandler(rooms *repository.RoomRepo, libs *repository.LibraryRepo) *RoomHandler {
	if rooms == nil || libs == nil {
		panic("nil repository passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, Libraries: libs}
}

// Create handles POST /v1/libraries/:libraryID/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	var body struct {
		Number   string `json:"number"`
		Type     string `json:"type"`
		Capacity uint32 `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Number) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number is required"})
	}
	if body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be greater than zero"})
	}

	room := &model.Room{
		OwnerID:   ownerID,
		LibraryID: libraryID,
		Number:    body.Number,
		Type:      body.Type,
		Capacity:  body.Capacity,
	}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// List handles GET /v1/libraries/:libraryID/rooms and returns each room
// with its seat count and current allocation count.
func (h *RoomHandler) List(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	rooms, err := h.Rooms.ListWithOccupancy(c.Request().Context(), ownerID, libraryID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}

// UpdateCapacity handles PATCH /v1/libraries/:libraryID/rooms/:id.
// Shrinking below the number of seats already in the room is rejected.
func (h *RoomHandler) UpdateCapacity(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Capacity uint32 `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil || body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be greater than zero"})
	}
	if err := h.Rooms.UpdateCapacity(c.Request().Context(), ownerID, libraryID, roomID, body.Capacity); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/libraries/:libraryID/rooms/:id. A room that
// still has seats cannot be deleted.
func (h *RoomHandler) Delete(c echo.Context) error {
	ownerID, libraryID, err := libraryScope(c, h.Libraries)
	if err != nil {
		return fail(c, err)
	}
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), ownerID, libraryID, roomID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
