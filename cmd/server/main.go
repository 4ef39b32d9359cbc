package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/arendsv/guesthouse-booking/internal/config"
	"github.com/arendsv/guesthouse-booking/internal/database"
	"github.com/arendsv/guesthouse-booking/internal/handler"
	"github.com/arendsv/guesthouse-booking/internal/middleware"
	"github.com/arendsv/guesthouse-booking/internal/queue"
	"github.com/arendsv/guesthouse-booking/internal/repository"
	"github.com/arendsv/guesthouse-booking/internal/router"
	"github.com/arendsv/guesthouse-booking/internal/service"
	"github.com/arendsv/guesthouse-booking/internal/storage/memory"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	// Pick the persistence backend: MySQL when configured, otherwise the
	// in-memory store for standalone single-machine use.
	var (
		store  service.Store
		health handler.HealthHandler
	)
	if cfg.UseDatabase() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("database connect failed: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := database.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Fatalf("database schema setup failed: %v", err)
		}
		cancel()
		store = repository.NewBookingRepo(db)
		health.DB = db
	} else {
		log.Println("no DB_HOST configured; using in-memory store")
		store = memory.New()
	}

	svc := service.New(store, queue.PublishBookingEvent)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled, room settings use defaults")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	settingsRepo := repository.NewSettingsRepo(rdb)
	router.RegisterRoutes(e, router.Handlers{
		Health:   &health,
		Booking:  handler.NewBookingHandler(svc),
		Settings: handler.NewSettingsHandler(settingsRepo),
		Export:   handler.NewExportHandler(svc, settingsRepo),
	})

	// Consume booking events in the background; the consumer reconnects
	// on its own and never brings the server down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
