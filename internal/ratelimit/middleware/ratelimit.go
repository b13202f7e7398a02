package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"comptepro/internal/ratelimit/models"
	"comptepro/pkg/platform/httputil"
	"comptepro/pkg/platform/middleware/metadata"
	"comptepro/pkg/requestcontext"
)

// RateLimiter is the service surface this middleware needs.
type RateLimiter interface {
	Check(ctx context.Context, identifier string) (*models.RateLimitResult, error)
}

type Middleware struct {
	limiter  RateLimiter
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) { m.disabled = disabled }
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{limiter: limiter, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit enforces the per-identifier budget. The identifier comes from the
// metadata middleware; unidentified clients share the fallback bucket.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		identifier := requestcontext.ClientIP(ctx)
		if identifier == "" {
			identifier = metadata.FallbackIdentifier
		}

		result, err := m.limiter.Check(ctx, identifier)
		if err != nil {
			// Fail open: a broken limiter must not take the form down.
			m.logger.ErrorContext(ctx, "rate limit check failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)

		if !result.Allowed {
			httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
				"success": false,
				"error":   "Trop de requêtes, veuillez réessayer plus tard",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if !result.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	}
}
