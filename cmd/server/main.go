package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/daviramosds/starsoft-backend-challenge/internal/cache"
	"github.com/daviramosds/starsoft-backend-challenge/internal/clock"
	"github.com/daviramosds/starsoft-backend-challenge/internal/config"
	"github.com/daviramosds/starsoft-backend-challenge/internal/database"
	"github.com/daviramosds/starsoft-backend-challenge/internal/handler"
	"github.com/daviramosds/starsoft-backend-challenge/internal/lock"
	appmiddleware "github.com/daviramosds/starsoft-backend-challenge/internal/middleware"
	"github.com/daviramosds/starsoft-backend-challenge/internal/queue"
	"github.com/daviramosds/starsoft-backend-challenge/internal/repository"
	"github.com/daviramosds/starsoft-backend-challenge/internal/router"
	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("mysql: open failed: %v", err)
	}
	defer db.Close()

	// Redis backs the per-seat lock, so it is a hard dependency: a
	// process that cannot lock must not take reservation traffic.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis: connection failed")
	}

	ledger := repository.NewLedger(db)
	locker := lock.NewRedisLocker(rdb)
	mirror := cache.NewReservationCache(rdb)
	publisher := queue.NewAMQPPublisher(cfg.RabbitURL)
	clk := clock.NewSystem()

	reservations := service.NewReservationService(ledger, locker, mirror, publisher, clk, cfg.ReservationTTL, cfg.SeatLockTTL)
	sales := service.NewSaleService(ledger, mirror, publisher, clk)
	sessions := service.NewSessionService(ledger, clk)

	go queue.StartEventConsumer(cfg.RabbitURL)

	e := echo.New()
	e.Use(appmiddleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterRoutes(e,
		handler.NewSessionHandler(sessions),
		handler.NewReservationHandler(reservations),
		handler.NewSaleHandler(sales),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
