package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/asset-sentinel/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/asset-sentinel/internal/adapter/kafka"
	"github.com/couchcryptid/asset-sentinel/internal/adapter/mapbox"
	"github.com/couchcryptid/asset-sentinel/internal/adapter/newsapi"
	"github.com/couchcryptid/asset-sentinel/internal/adapter/openai"
	"github.com/couchcryptid/asset-sentinel/internal/adapter/openweather"
	"github.com/couchcryptid/asset-sentinel/internal/adapter/postgres"
	"github.com/couchcryptid/asset-sentinel/internal/config"
	"github.com/couchcryptid/asset-sentinel/internal/domain"
	"github.com/couchcryptid/asset-sentinel/internal/email"
	"github.com/couchcryptid/asset-sentinel/internal/monitor"
	"github.com/couchcryptid/asset-sentinel/internal/observability"
	"github.com/couchcryptid/asset-sentinel/internal/pipeline"
	"github.com/couchcryptid/asset-sentinel/internal/risk"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := postgres.NewStore(pool, logger)
	if err := store.Migrate(ctx); err != nil {
		logger.Error("schema migration failed", "error", err)
		os.Exit(1)
	}

	weather := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.ProviderTimeout, logger)
	news := newsapi.NewClient(cfg.NewsAPIKey, cfg.ProviderTimeout, logger)
	classifier := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ClassifierTimeout, logger)

	// Reverse geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled, asset names scope news queries")
	}

	var sender domain.AlertSender
	if cfg.SMTPHost != "" {
		sender = email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		logger.Info("smtp alerting enabled", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
	} else {
		sender = email.NewNoopSender(logger)
		logger.Info("smtp not configured, alerts logged only")
	}

	var publisher monitor.RunPublisher
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger)
		publisher = kafkaWriter
		logger.Info("kafka publication enabled", "topic", cfg.KafkaSinkTopic)
	}

	scorer := risk.NewScorer(classifier, cfg.ClassifierTimeout, logger, metrics)
	analyzer := pipeline.NewAnalyzer(weather, news, geocoder, scorer, cfg.RiskTopic, logger, metrics)

	sched := monitor.New(monitor.Config{
		Recipient:     cfg.AlertRecipient,
		RiskThreshold: cfg.RiskThreshold,
		Interval:      cfg.ScanInterval,
		AlertCooldown: cfg.AlertCooldown,
	}, store, analyzer, sender, publisher, clockwork.NewRealClock(), logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, sched, store, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := sched.Run(ctx); err != nil {
			logger.Error("monitor error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
