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

	"presellgo/internal/delivery"
	"presellgo/internal/domain"
	"presellgo/internal/infrastructure"
	"presellgo/internal/usecase"
	"presellgo/pkg/config"
	"presellgo/pkg/logger"
	"presellgo/pkg/metrics"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments configure through the process
	// environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("Starting presellgo server")

	m := metrics.New()

	kv := infrastructure.NewRestKVClient(
		cfg.Store.BaseURL,
		cfg.Store.Token,
		cfg.Store.RequestTimeout,
		cfg.Store.RateLimitPerSecond,
		cfg.Store.RateLimitBurst,
		log,
		m,
	)
	store := infrastructure.NewRemoteConfigStore(kv, log)

	allocator := usecase.NewKeyAllocator(domain.Vertical(cfg.Campaign.DefaultVertical), log, m)
	resolver := usecase.NewProductResolver(store, log, m)
	products := usecase.NewProductService(store, allocator, cfg.Campaign.DefaultLang, log, m)
	aggregator := usecase.NewMetricsAggregator(store, cfg.Tracking.FlushInterval, cfg.Tracking.FlushThreshold, log, m)

	handlers := delivery.NewHTTPHandlers(store, resolver, products, aggregator, log, m)
	router := delivery.NewHTTPRouter(handlers, log, m, cfg.Server.RequestTimeout, cfg.Admin.Token)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The aggregator flushes on its interval even when no beacons arrive,
	// and performs a final flush when the context is cancelled.
	go aggregator.Run(ctx)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.SetupRoutes(),
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	log.Info("Server stopped")
}
