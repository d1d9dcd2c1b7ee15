// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/hostelhub/seat-management/internal/handler"
	"github.com/hostelhub/seat-management/internal/middleware"
	"github.com/hostelhub/seat-management/internal/model"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Libraries  *handler.LibraryHandler
	Seats      *handler.SeatHandler
	Members    *handler.MemberHandler
	Rooms      *handler.RoomHandler
	Plans      *handler.PlanHandler
	Attendance *handler.AttendanceHandler
	Finance    *handler.FinanceHandler
	Uploads    *handler.UploadHandler
}

// Register mounts all routes. Health probes are public; /v1/auth hosts
// the session endpoints; everything else requires a valid access token.
// Library and subscription management is OWNER-only, daily operations
// (seats, members, attendance, finance) accept STAFF as well.
//
// The response cache keys on the authenticated user, so it is mounted
// inside the protected group, after JWTAuth has run. A nil cache is
// skipped.
func Register(e *echo.Echo, db *sql.DB, h Handlers, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))

	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/refresh-access", h.Auth.RefreshAccess)
	auth.POST("/logout", h.Auth.Logout)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole(model.RoleOwner, model.RoleStaff))
	if cache != nil {
		v1.Use(cache)
	}
	v1.GET("/me", h.Auth.Me)
	v1.POST("/uploads", h.Uploads.Upload)
	v1.GET("/subscription", h.Libraries.Subscription)

	owner := v1.Group("", middleware.RequireRole(model.RoleOwner))
	owner.POST("/libraries", h.Libraries.Create)
	owner.PUT("/libraries/:libraryID", h.Libraries.Update)
	owner.POST("/subscription", h.Libraries.Subscribe)

	v1.GET("/libraries", h.Libraries.List)

	lib := v1.Group("/libraries/:libraryID")

	lib.GET("/seats", h.Seats.List)
	lib.POST("/seats", h.Seats.AddSeats)
	lib.GET("/seats/:id", h.Seats.Get)
	lib.DELETE("/seats/:id", h.Seats.Delete)
	lib.POST("/seats/:id/allot", h.Seats.Allot)
	lib.POST("/seats/:id/deallocate", h.Seats.Deallocate)

	lib.GET("/members", h.Members.List)
	lib.POST("/members", h.Members.Create)
	lib.GET("/members/:id", h.Members.Get)
	lib.PUT("/members/:id", h.Members.Update)
	lib.DELETE("/members/:id", h.Members.Delete)

	lib.GET("/rooms", h.Rooms.List)
	lib.POST("/rooms", h.Rooms.Create)
	lib.PATCH("/rooms/:id", h.Rooms.UpdateCapacity)
	lib.DELETE("/rooms/:id", h.Rooms.Delete)

	lib.GET("/plans", h.Plans.List)
	lib.POST("/plans", h.Plans.Create)
	lib.PUT("/plans/:id", h.Plans.Update)
	lib.DELETE("/plans/:id", h.Plans.Delete)

	lib.GET("/attendance", h.Attendance.List)
	lib.POST("/attendance", h.Attendance.Mark)
	lib.POST("/attendance/bulk", h.Attendance.MarkBulk)

	lib.GET("/finance", h.Finance.List)
	lib.POST("/finance/payments", h.Finance.RecordPayment)
	lib.POST("/finance/expenses", h.Finance.RecordExpense)
}
