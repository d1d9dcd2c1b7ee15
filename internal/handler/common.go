package handler // handler defines the HTTP layer over the repositories

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hostelhub/seat-management/internal/repository"
)

// Local sentinels for request-level failures, mapped by fail().
var (
	errUnauthorized = errors.New("unauthorized")
	errBadRequest   = errors.New("bad request")
)

// getUserID extracts the authenticated user's ID from the echo context.
// JWTAuth stores it as uint64; a few fallback conversions are accepted
// for values set by tests or older middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errUnauthorized
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// queryUint parses an optional numeric query parameter, returning def
// when absent or malformed.
func queryUint(c echo.Context, name string, def uint64) uint64 {
	if s := c.QueryParam(name); s != "" {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
	}
	return def
}

// libraryScope resolves the :libraryID path parameter and verifies the
// library belongs to the authenticated user. Every resource route runs
// through this, so cross-tenant IDs can only ever produce a 404.
func libraryScope(c echo.Context, libs *repository.LibraryRepo) (ownerID, libraryID uint64, err error) {
	ownerID, err = getUserID(c)
	if err != nil {
		return 0, 0, errUnauthorized
	}
	libraryID, err = pathID(c, "libraryID")
	if err != nil {
		return 0, 0, errBadRequest
	}
	if _, err = libs.GetByIDAndOwner(c.Request().Context(), libraryID, ownerID); err != nil {
		return 0, 0, err
	}
	return ownerID, libraryID, nil
}

// repoStatus maps repository sentinels onto HTTP status codes shared by
// the resource handlers. Unknown errors map to 500.
func repoStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, repository.ErrSeatNotFound):
		return http.StatusNotFound, "seat not found"
	case errors.Is(err, repository.ErrMemberNotFound):
		return http.StatusNotFound, "member not found"
	case errors.Is(err, repository.ErrRoomNotFound):
		return http.StatusNotFound, "room not found"
	case errors.Is(err, repository.ErrPlanNotFound):
		return http.StatusNotFound, "plan not found"
	case errors.Is(err, repository.ErrLibraryNotFound):
		return http.StatusNotFound, "library not found"
	case errors.Is(err, repository.ErrSeatAllocated):
		return http.StatusConflict, "seat already allocated"
	case errors.Is(err, repository.ErrSeatNotAllocated):
		return http.StatusConflict, "seat is not allocated"
	case errors.Is(err, repository.ErrMemberHasSeat):
		return http.StatusConflict, "member already holds a seat"
	case errors.Is(err, repository.ErrCapacityExceeded):
		return http.StatusConflict, "room capacity exceeded"
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, repository.ErrMemberExpired):
		return http.StatusUnprocessableEntity, "member plan has expired"
	case errors.Is(err, repository.ErrMemberLimit):
		return http.StatusPaymentRequired, "free member limit reached"
	}
	return http.StatusInternalServerError, "internal error"
}

// fail writes the mapped JSON error response for an error returned by a
// repository or by one of the scope helpers.
func fail(c echo.Context, err error) error {
	code, msg := repoStatus(err)
	return c.JSON(code, echo.Map{"error": msg})
}
