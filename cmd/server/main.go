package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	csrfhandler "comptepro/internal/csrf/handler"
	csrfservice "comptepro/internal/csrf/service"
	"comptepro/internal/entreprise"
	entrhandler "comptepro/internal/entreprise/handler"
	entrmetrics "comptepro/internal/entreprise/metrics"
	inschandler "comptepro/internal/inscription/handler"
	inscservice "comptepro/internal/inscription/service"
	"comptepro/internal/platform/config"
	"comptepro/internal/platform/httpserver"
	"comptepro/internal/platform/logger"
	platformredis "comptepro/internal/platform/redis"
	ratelimitmetrics "comptepro/internal/ratelimit/metrics"
	ratelimitmw "comptepro/internal/ratelimit/middleware"
	ratelimitservice "comptepro/internal/ratelimit/service"
	"comptepro/internal/ratelimit/store/bucket"
	httptransport "comptepro/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	csrfSvc, err := csrfservice.New(cfg.CSRFSecret, cfg.CSRFTokenTTL)
	if err != nil {
		log.Error("csrf service init failed", "error", err)
		os.Exit(1)
	}

	sireneClient := entreprise.NewHTTPSireneClient(cfg.SireneBaseURL, cfg.SireneAPIKey, cfg.SireneTimeout)
	entrSvc, err := entreprise.New(sireneClient, cfg.SireneAPIKey,
		entreprise.WithLogger(log),
		entreprise.WithMetrics(entrmetrics.New()),
		entreprise.WithCacheTTL(cfg.SearchCacheTTL),
	)
	if err != nil {
		log.Error("entreprise service init failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}

	var store ratelimitservice.Store
	var memStore *bucket.InMemoryStore
	if redisClient != nil {
		store = bucket.NewRedisStore(redisClient.Client)
		log.Info("rate limiting backed by redis")
	} else {
		memStore = bucket.NewInMemoryStore()
		store = memStore
	}

	rlMetrics := ratelimitmetrics.New()
	limiter, err := ratelimitservice.New(store,
		ratelimitservice.WithLogger(log),
		ratelimitservice.WithMetrics(rlMetrics),
		ratelimitservice.WithConfig(ratelimitservice.Config{
			Window:      cfg.RateLimitWindow,
			MaxRequests: cfg.RateLimitMaxRequests,
		}),
	)
	if err != nil {
		log.Error("rate limiter init failed", "error", err)
		os.Exit(1)
	}

	// Bound memory growth from one-off identifiers.
	if memStore != nil {
		go func() {
			ticker := time.NewTicker(limiter.Window())
			defer ticker.Stop()
			for range ticker.C {
				memStore.Sweep(limiter.Window())
				rlMetrics.SetTrackedBuckets(memStore.Len())
			}
		}()
	}

	deps := httptransport.Deps{
		Logger:      log,
		RateLimit:   ratelimitmw.New(limiter, log),
		Entreprise:  entrhandler.New(entrSvc, log),
		CSRF:        csrfhandler.New(csrfSvc, log),
		Inscription: inschandler.New(inscservice.New(inscservice.WithLogger(log)), csrfSvc, log),
	}
	if redisClient != nil {
		deps.Health = redisClient.Health
	}

	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(deps))

	log.Info("starting comptepro gateway", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
