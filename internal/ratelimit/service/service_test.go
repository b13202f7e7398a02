package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "comptepro/pkg/domain-errors"

	"comptepro/internal/ratelimit/models"
	"comptepro/internal/ratelimit/store/bucket"
)

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	svc, err := New(bucket.NewInMemoryStore(),
		WithConfig(cfg),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	)
	require.NoError(t, err)
	return svc
}

func TestCheck_DeniesAfterMaxRequests(t *testing.T) {
	svc := newTestService(t, Config{Window: time.Minute, MaxRequests: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := svc.Check(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	result, err := svc.Check(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, result.Allowed, "N+1th call within the window is denied")
}

func TestCheck_RecoversAfterWindow(t *testing.T) {
	svc := newTestService(t, Config{Window: 20 * time.Millisecond, MaxRequests: 1})
	ctx := context.Background()

	first, err := svc.Check(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.True(t, first.Allowed)
	second, err := svc.Check(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.False(t, second.Allowed)

	time.Sleep(30 * time.Millisecond)

	third, err := svc.Check(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, third.Allowed, "after the window elapses the budget resets")
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNew_RejectsNonPositiveConfig(t *testing.T) {
	_, err := New(bucket.NewInMemoryStore(), WithConfig(Config{Window: 0, MaxRequests: 10}))
	assert.Error(t, err)

	_, err = New(bucket.NewInMemoryStore(), WithConfig(Config{Window: time.Minute, MaxRequests: 0}))
	assert.Error(t, err)
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("backend down")
}

func (failingStore) Reset(context.Context, string) error { return nil }

func TestCheck_StoreFailureIsInternal(t *testing.T) {
	svc, err := New(failingStore{},
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)

	_, err = svc.Check(context.Background(), "10.0.0.3")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeInternal))
}
