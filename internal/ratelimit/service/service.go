// Package service implements the per-identifier request limiter protecting
// the public endpoints.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	dErrors "comptepro/pkg/domain-errors"

	"comptepro/internal/ratelimit/metrics"
	"comptepro/internal/ratelimit/models"
)

// Store abstracts the window-counter backend (memory or Redis).
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
	Reset(ctx context.Context, key string) error
}

// Config holds the limiter policy. Values are tunable per deployment.
type Config struct {
	Window      time.Duration
	MaxRequests int
}

// DefaultConfig returns the shipped policy: 10 requests per minute per
// identifier.
func DefaultConfig() Config {
	return Config{Window: time.Minute, MaxRequests: 10}
}

type Service struct {
	store   Store
	config  Config
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithConfig(cfg Config) Option {
	return func(s *Service) { s.config = cfg }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("bucket store is required")
	}

	svc := &Service{
		store:  store,
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.config.MaxRequests <= 0 || svc.config.Window <= 0 {
		return nil, errors.New("rate limit window and max requests must be positive")
	}
	return svc, nil
}

// Check runs an atomic check-and-increment for the identifier and reports
// whether the request may proceed.
func (s *Service) Check(ctx context.Context, identifier string) (*models.RateLimitResult, error) {
	result, err := s.store.Allow(ctx, identifier, s.config.MaxRequests, s.config.Window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	if s.metrics != nil {
		s.metrics.RecordCheck(result.Allowed)
	}
	if !result.Allowed {
		s.logger.WarnContext(ctx, "rate limit exceeded",
			"identifier", identifier,
			"limit", result.Limit,
			"retry_after_s", result.RetryAfter,
		)
	}
	return result, nil
}

// Window exposes the configured window duration for sweepers.
func (s *Service) Window() time.Duration {
	return s.config.Window
}
