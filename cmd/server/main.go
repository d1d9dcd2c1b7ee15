package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/hostelhub/seat-management/internal/config"
	"github.com/hostelhub/seat-management/internal/database"
	"github.com/hostelhub/seat-management/internal/handler"
	"github.com/hostelhub/seat-management/internal/middleware"
	"github.com/hostelhub/seat-management/internal/queue"
	"github.com/hostelhub/seat-management/internal/repository"
	"github.com/hostelhub/seat-management/internal/router"
	"github.com/hostelhub/seat-management/internal/service"
	"github.com/hostelhub/seat-management/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client degrades the rate limiter, the
	// response cache and the entitlement cache to pass-through.
	rdb := config.NewRedisClient()

	files, err := storage.NewUploader(cfg.CloudinaryURL)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	libraryRepo := repository.NewLibraryRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	memberRepo := repository.NewMemberRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	planRepo := repository.NewPlanRepo(db)
	attendanceRepo := repository.NewAttendanceRepo(db)
	financeRepo := repository.NewFinanceRepo(db, memberRepo)
	subscriptionRepo := repository.NewSubscriptionRepo(db)

	ent := service.NewEntitlements(subscriptionRepo, rdb)

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Libraries:  handler.NewLibraryHandler(libraryRepo, subscriptionRepo, ent),
		Seats:      handler.NewSeatHandler(seatRepo, memberRepo, libraryRepo),
		Members:    handler.NewMemberHandler(memberRepo, seatRepo, planRepo, libraryRepo, ent, cfg.FreeMemberLimit),
		Rooms:      handler.NewRoomHandler(roomRepo, libraryRepo),
		Plans:      handler.NewPlanHandler(planRepo, libraryRepo),
		Attendance: handler.NewAttendanceHandler(attendanceRepo, memberRepo, libraryRepo),
		Finance:    handler.NewFinanceHandler(financeRepo, libraryRepo),
		Uploads:    handler.NewUploadHandler(files),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.Register(e, db, h, cfg.JWTSecret, cache)

	// Consumer drains seat lifecycle events into the allocation log;
	// it reconnects on broker failures and never takes the API down.
	go func() {
		if err := queue.StartSeatEventConsumer(); err != nil {
			log.Printf("seat event consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
