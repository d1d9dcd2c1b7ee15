package middleware

// identity.go holds small helpers shared by the rate limiter and the
// response cache for deriving a stable per-user identity component.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// subjectID returns the authenticated user's ID as a decimal string, or
// "anon" for unauthenticated requests. JWTAuth stores the ID as uint64.
func subjectID(c echo.Context) string {
	if uid, ok := c.Get("user_id").(uint64); ok && uid != 0 {
		return strconv.FormatUint(uid, 10)
	}
	return "anon"
}
