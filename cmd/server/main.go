package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/railway-seat-reservation/internal/config" // Internal config loader
	"github.com/iliyamo/railway-seat-reservation/internal/database"
	"github.com/iliyamo/railway-seat-reservation/internal/handler"
	"github.com/iliyamo/railway-seat-reservation/internal/middleware"
	"github.com/iliyamo/railway-seat-reservation/internal/queue"
	"github.com/iliyamo/railway-seat-reservation/internal/repository"
	"github.com/iliyamo/railway-seat-reservation/internal/router" // Internal router setup
	"github.com/iliyamo/railway-seat-reservation/internal/service"
	"github.com/iliyamo/railway-seat-reservation/internal/utils"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load() // Load environment config
	log := config.NewLogger(cfg.LogLevel)

	db, err := database.Open(database.Settings{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		LockWaitSeconds: cfg.LockWaitSeconds(),
	})
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()

	stations := repository.NewStationRepo(db)
	coachTypes := repository.NewCoachTypeRepo(db)
	schedules := repository.NewScheduleRepo(db)
	bookings := repository.NewBookingRepo(db)
	tickets := repository.NewTicketRepo(db)
	payments := repository.NewPaymentRepo(db)
	ledger := repository.NewLedger(db, schedules, bookings, tickets, payments)

	// A nil publisher disables settlement events.
	var publisher service.EventPublisher
	if cfg.BrokerEnabled {
		publisher = service.NewQueuePublisher(cfg.BrokerURL, log)
	}

	catalog := service.NewCatalogService(stations, coachTypes, schedules)
	bookingSvc := service.NewBookingService(ledger, bookings, payments, log)
	paymentSvc := service.NewPaymentService(ledger, publisher, log)
	signer := utils.NewCheckoutSigner(cfg.CheckoutSecret, cfg.CheckoutTTL)

	// Redis backs rate limiting and caching; both degrade to pass-through
	// when it is down.
	rdb := config.NewRedisClient(config.LoadRedisConfig(), log)
	if rdb != nil {
		defer rdb.Close()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e, db) // Register application routes
	router.RegisterPublic(e,
		handler.NewPublicHandler(catalog, log),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log))
	router.RegisterBooking(e,
		handler.NewBookingHandler(catalog, bookingSvc, paymentSvc, signer, log),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		middleware.CheckoutAuth(signer))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	if cfg.BrokerEnabled {
		consumer := &queue.Consumer{URL: cfg.BrokerURL, LogDir: cfg.SettlementLogDir, Log: log}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("settlement consumer stopped")
			}
		}()
	}

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.WithField("addr", addr).WithField("env", cfg.Env).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	wg.Wait()
}
