package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatabaseURL    string
	AlertRecipient string

	RiskThreshold     int
	RiskTopic         string
	ScanInterval      time.Duration
	AlertCooldown     time.Duration
	ProviderTimeout   time.Duration
	ClassifierTimeout time.Duration

	OpenWeatherAPIKey string
	NewsAPIKey        string

	OpenAIAPIKey string
	OpenAIModel  string

	// Mapbox reverse geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// SMTP alert delivery. An empty host selects the noop sender.
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Kafka publication of completed analysis runs.
	KafkaBrokers   []string
	KafkaEnabled   bool
	KafkaSinkTopic string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. Missing mandatory settings (DATABASE_URL, ALERT_RECIPIENT,
// and the three provider API keys) are errors: the scan loop is useless
// without them and failing fast beats a daemon that only emits ERROR
// assessments.
func Load() (*Config, error) {
	scanInterval, err := parsePositiveDuration("SCAN_INTERVAL", "60m")
	if err != nil {
		return nil, err
	}
	cooldown, err := parseNonNegativeDuration("ALERT_COOLDOWN", "0s")
	if err != nil {
		return nil, err
	}
	providerTimeout, err := parsePositiveDuration("PROVIDER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	classifierTimeout, err := parsePositiveDuration("CLASSIFIER_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	threshold, err := parseIntInRange("RISK_THRESHOLD", "75", 0, 100)
	if err != nil {
		return nil, err
	}
	smtpPort, err := parseIntInRange("SMTP_PORT", "587", 1, 65535)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseIntInRange("MAPBOX_CACHE_SIZE", "1000", 1, 1_000_000)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	brokers := splitList(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AlertRecipient: os.Getenv("ALERT_RECIPIENT"),

		RiskThreshold:     threshold,
		RiskTopic:         envOrDefault("RISK_TOPIC", "logistics supply chain"),
		ScanInterval:      scanInterval,
		AlertCooldown:     cooldown,
		ProviderTimeout:   providerTimeout,
		ClassifierTimeout: classifierTimeout,

		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		NewsAPIKey:        os.Getenv("NEWS_API_KEY"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: cacheSize,

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: smtpPort,
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		KafkaBrokers:   brokers,
		KafkaEnabled:   kafkaEnabled,
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "analysis-runs"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.AlertRecipient == "" {
		return nil, errors.New("ALERT_RECIPIENT is required")
	}
	if cfg.OpenWeatherAPIKey == "" {
		return nil, errors.New("OPENWEATHER_API_KEY is required")
	}
	if cfg.NewsAPIKey == "" {
		return nil, errors.New("NEWS_API_KEY is required")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNonNegativeDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseIntInRange(key, fallback string, minVal, maxVal int) (int, error) {
	n, err := strconv.Atoi(envOrDefault(key, fallback))
	if err != nil || n < minVal || n > maxVal {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
