package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	NATSURL            string
	EventsChannel      string
	CatalogCacheTTL    time.Duration
	ResultsListLimit   int
	SubmitRateLimit    int
	SubmitRateWindow   time.Duration
	SeedCatalogOnStart bool
	MetricsEnabled     bool
	AccessLog          bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EQTEST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "EQ Test API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "10000")
	v.SetDefault("database.url", "eq_test.db")
	v.SetDefault("events.channel", "eqtest")
	v.SetDefault("catalog.cache_ttl", "10m")
	v.SetDefault("results.list_limit", 50)
	v.SetDefault("submit.rate_limit", 30)
	v.SetDefault("submit.rate_window", "1m")
	v.SetDefault("catalog.seed", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("http.access_log", false)

	cacheTTL, err := parseDuration(v.GetString("catalog.cache_ttl"), 10*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid catalog cache ttl: %w", err)
	}

	rateWindow, err := parseDuration(v.GetString("submit.rate_window"), time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid submit rate window: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        strings.TrimSpace(v.GetString("database.url")),
		RedisURL:           strings.TrimSpace(v.GetString("redis.url")),
		NATSURL:            strings.TrimSpace(v.GetString("nats.url")),
		EventsChannel:      strings.TrimSpace(v.GetString("events.channel")),
		CatalogCacheTTL:    cacheTTL,
		ResultsListLimit:   v.GetInt("results.list_limit"),
		SubmitRateLimit:    v.GetInt("submit.rate_limit"),
		SubmitRateWindow:   rateWindow,
		SeedCatalogOnStart: v.GetBool("catalog.seed"),
		MetricsEnabled:     v.GetBool("metrics.enabled"),
		AccessLog:          v.GetBool("http.access_log"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.ResultsListLimit <= 0 || cfg.ResultsListLimit > 50 {
		cfg.ResultsListLimit = 50
	}

	if cfg.SubmitRateLimit <= 0 {
		cfg.SubmitRateLimit = 30
	}

	return cfg, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
