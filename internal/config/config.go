// Package config loads service settings from environment variables.
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
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream data.go.kr client configuration. An empty ServiceKey leaves
	// the client unconstructed; query operations then report not-configured.
	ServiceKey      string
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	CacheTTL        time.Duration
	MaxPages        int
	PageSize        int

	// Query window knobs, in days/years relative to today.
	RecentDaysBack    int
	RecentDaysForward int
	TrackDaysBack     int
	TrackDaysForward  int
	SearchYearsBack   int
	SearchMaxResults  int

	CORSAllowedOrigins []string

	// Optional Kafka bulletin publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	cacheTTLSeconds, err := parsePositiveInt("CACHE_TTL_SECONDS", 120)
	if err != nil {
		return nil, err
	}
	maxPages, err := parsePositiveInt("MAX_PAGES", 20)
	if err != nil {
		return nil, err
	}
	pageSize, err := parsePositiveInt("PAGE_SIZE", 100)
	if err != nil {
		return nil, err
	}
	recentDaysBack, err := parsePositiveInt("RECENT_DAYS_BACK", 3)
	if err != nil {
		return nil, err
	}
	recentDaysForward, err := parsePositiveInt("RECENT_DAYS_FORWARD", 1)
	if err != nil {
		return nil, err
	}
	trackDaysBack, err := parsePositiveInt("TRACK_DAYS_BACK", 7)
	if err != nil {
		return nil, err
	}
	trackDaysForward, err := parsePositiveInt("TRACK_DAYS_FORWARD", 2)
	if err != nil {
		return nil, err
	}
	searchYearsBack, err := parsePositiveInt("SEARCH_YEARS_BACK", 9)
	if err != nil {
		return nil, err
	}
	searchMaxResults, err := parsePositiveInt("SEARCH_MAX_RESULTS", 20)
	if err != nil {
		return nil, err
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ServiceKey:      strings.TrimSpace(os.Getenv("DATA_GO_KR_SERVICE_KEY")),
		UpstreamBaseURL: envOrDefault("UPSTREAM_BASE_URL", "https://apis.data.go.kr/1360000/TyphoonInfoService/getTyphoonInfo"),
		UpstreamTimeout: upstreamTimeout,
		CacheTTL:        time.Duration(cacheTTLSeconds) * time.Second,
		MaxPages:        maxPages,
		PageSize:        pageSize,

		RecentDaysBack:    recentDaysBack,
		RecentDaysForward: recentDaysForward,
		TrackDaysBack:     trackDaysBack,
		TrackDaysForward:  trackDaysForward,
		SearchYearsBack:   searchYearsBack,
		SearchMaxResults:  searchMaxResults,

		CORSAllowedOrigins: splitList(envOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "typhoon-bulletins"),
	}

	if cfg.UpstreamBaseURL == "" {
		return nil, errors.New("UPSTREAM_BASE_URL must not be empty")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
