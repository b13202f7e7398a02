package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-wide configuration. It is built once at startup,
// injected into services, and read-only afterwards so tests can pass fixtures
// instead of relying on ambient lookups.
type Config struct {
	Addr string

	// Sirene is the upstream company-registry API.
	SireneBaseURL string
	SireneAPIKey  string
	SireneTimeout time.Duration

	// CSRFSecret signs anti-forgery tokens. Tokens are scoped to a single
	// form session, hence the short TTL.
	CSRFSecret   string
	CSRFTokenTTL time.Duration

	// Rate limiting policy for the public endpoints. Values are policy, not
	// mechanism: operators tune them per deployment.
	RateLimitWindow      time.Duration
	RateLimitMaxRequests int

	// SearchCacheTTL bounds retention of upstream search responses.
	SearchCacheTTL time.Duration

	Redis RedisConfig
}

// RedisConfig configures the optional Redis backend for rate-limit buckets.
// An empty URL means in-memory buckets.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:                 envString("COMPTEPRO_ADDR", ":8080"),
		SireneBaseURL:        envString("SIRENE_BASE_URL", "https://api.insee.fr/api-sirene/3.11"),
		SireneAPIKey:         os.Getenv("SIRENE_API_KEY"),
		SireneTimeout:        envDuration("SIRENE_TIMEOUT", 8*time.Second),
		CSRFSecret:           os.Getenv("CSRF_SECRET"),
		CSRFTokenTTL:         envDuration("CSRF_TOKEN_TTL", 45*time.Minute),
		RateLimitWindow:      envDuration("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMaxRequests: envInt("RATE_LIMIT_MAX_REQUESTS", 10),
		SearchCacheTTL:       envDuration("SEARCH_CACHE_TTL", 5*time.Minute),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
