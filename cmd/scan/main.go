// cmd/scan runs a single scan cycle and exits. Useful for cron-style
// deployments and for verifying provider credentials without starting
// the long-running service.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

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

	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
	}

	var sender domain.AlertSender
	if cfg.SMTPHost != "" {
		sender = email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		sender = email.NewNoopSender(logger)
	}

	scorer := risk.NewScorer(classifier, cfg.ClassifierTimeout, logger, metrics)
	analyzer := pipeline.NewAnalyzer(weather, news, geocoder, scorer, cfg.RiskTopic, logger, metrics)

	sched := monitor.New(monitor.Config{
		Recipient:     cfg.AlertRecipient,
		RiskThreshold: cfg.RiskThreshold,
		Interval:      cfg.ScanInterval,
		AlertCooldown: cfg.AlertCooldown,
	}, store, analyzer, sender, nil, clockwork.NewRealClock(), logger, metrics)

	if err := sched.Scan(ctx); err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}
	logger.Info("scan finished")
}
