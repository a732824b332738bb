package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"consult-booking-backend/config"
	"consult-booking-backend/internal/api"
	"consult-booking-backend/internal/booking"
	"consult-booking-backend/internal/contacts"
	"consult-booking-backend/internal/db"
	"consult-booking-backend/internal/leads"
	"consult-booking-backend/internal/logger"
	"consult-booking-backend/internal/mw"
	"consult-booking-backend/internal/notification"
	"consult-booking-backend/internal/store"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("configuration loaded", "path", configPath)

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		log.Warn("VAPID keys not configured, admin push notifications disabled")
	}

	gormDB, err := db.Init(&cfg.Database, log)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	pool := notification.NewWorkerPool(
		cfg.WorkerPool.Size,
		cfg.WorkerPool.QueueSize,
		appStore,
		notification.NewMailer(cfg.Mail),
		webpushOptions,
		log,
	)
	pool.Start(ctx)

	// Cached availability responses are dropped on every slot change.
	responses := mw.NewResponseCache(cfg.Server.CacheTTL)
	bookings := booking.NewService(appStore, log,
		booking.WithLocation(cfg.Booking.Location),
		booking.WithChangeHook(responses.Flush),
	)
	leadSvc := leads.NewService(appStore, bookings, pool, log)
	contactSvc := contacts.NewService(appStore, pool, cfg.Booking.Location, log)

	handler := api.NewHandler(cfg, appStore, bookings, leadSvc, contactSvc, webpushOptions, log)
	router, err := api.NewRouter(cfg, handler, responses)
	if err != nil {
		log.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server ListenAndServe", "error", err)
			os.Exit(1)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	log.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server Shutdown", "error", err)
	}

	cancel()
	pool.Wait()
	log.Info("server gracefully stopped")
}
