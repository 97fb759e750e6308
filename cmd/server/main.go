package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/typhoon-info-service/internal/adapter/datago"
	kafkaadapter "github.com/couchcryptid/typhoon-info-service/internal/adapter/kafka"
	"github.com/couchcryptid/typhoon-info-service/internal/adapter/rpc"
	"github.com/couchcryptid/typhoon-info-service/internal/cache"
	"github.com/couchcryptid/typhoon-info-service/internal/config"
	"github.com/couchcryptid/typhoon-info-service/internal/geo"
	"github.com/couchcryptid/typhoon-info-service/internal/observability"
	"github.com/couchcryptid/typhoon-info-service/internal/service"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Upstream client (requires DATA_GO_KR_SERVICE_KEY). Without it the
	// service still starts; queries report not-configured.
	var client service.TyphoonClient
	if cfg.ServiceKey != "" {
		pages := cache.New[*datago.Page](cfg.CacheTTL, clock)
		client = datago.NewClient(cfg.ServiceKey, cfg.UpstreamBaseURL, cfg.UpstreamTimeout,
			cfg.MaxPages, cfg.PageSize, pages, metrics, logger)
		logger.Info("upstream client configured", "base_url", cfg.UpstreamBaseURL, "cache_ttl", cfg.CacheTTL)
	} else {
		logger.Warn("DATA_GO_KR_SERVICE_KEY not set; queries will report not-configured")
	}

	geocoder := geo.NewGeocoder(geo.DefaultTable())

	// Optional bulletin publishing (feature-flagged via KAFKA_ENABLED).
	var publisher service.BulletinPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, metrics, logger)
		publisher = writer
		logger.Info("kafka bulletin publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka bulletin publishing disabled")
	}

	svc := service.New(client, geocoder, publisher, clock, logger, service.Options{
		RecentDaysBack:    cfg.RecentDaysBack,
		RecentDaysForward: cfg.RecentDaysForward,
		TrackDaysBack:     cfg.TrackDaysBack,
		TrackDaysForward:  cfg.TrackDaysForward,
		SearchYearsBack:   cfg.SearchYearsBack,
		SearchMaxResults:  cfg.SearchMaxResults,
	})

	srv := rpc.NewServer(cfg.HTTPAddr, svc, cfg.CORSAllowedOrigins, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
