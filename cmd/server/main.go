package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/actuallystonmai/health-advisor/internal/cache"
	"github.com/actuallystonmai/health-advisor/internal/config"
	"github.com/actuallystonmai/health-advisor/internal/handler"
	"github.com/actuallystonmai/health-advisor/internal/model"
	"github.com/actuallystonmai/health-advisor/internal/ratelimit"
	"github.com/actuallystonmai/health-advisor/internal/router"
	"github.com/actuallystonmai/health-advisor/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	// ------------ Gemini ---------------
	var gen model.Generator
	if cfg.HasAPIKey() {
		gemini, err := model.NewGeminiGenerator(ctx, cfg.APIKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create gemini client")
		}
		defer gemini.Close()
		gen = gemini
	} else {
		// The service rejects advice requests before the gateway is used.
		logger.Warn().Msg("GOOGLE_API_KEY not set, health advice requests will fail")
	}
	gateway := model.NewGateway(gen, model.Options{
		Models:          cfg.Models,
		ProbeTimeout:    cfg.ProbeTimeout,
		GenerateTimeout: cfg.GenerateTimeout,
	})

	// ------------ Cache ---------------
	store, closeStore := newStore(ctx, cfg, logger)
	defer closeStore()

	// ---------------- Server --------------------
	svc := service.NewService(gateway, ratelimit.NewWindow(cfg.RateLimitMax, cfg.RateLimitWindow), store, cfg.HasAPIKey())
	h := handler.NewHandler(svc)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(h, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", server.Addr).
			Strs("models", cfg.Models).
			Bool("cache", store != nil).
			Msg("health advisor listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		return
	}
	logger.Info().Msg("server exited")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Str("service", "health-advisor").Logger()
}

// newStore picks Redis when REDIS_URL is set and reachable, the in-process LRU
// otherwise. A nil store disables caching.
func newStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cache.Store, func()) {
	noop := func() {}
	if !cfg.CacheEnabled {
		return nil, noop
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to parse REDIS_URL")
		}
		rs := cache.NewRedisStore(redis.NewClient(opts), cfg.CacheTTL)

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err = rs.Ping(pingCtx)
		if err == nil {
			logger.Info().Str("addr", opts.Addr).Msg("connected to Redis")
			return rs, func() { _ = rs.Close() }
		}
		logger.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
		_ = rs.Close()
	}

	return cache.NewMemoryStore(cfg.CacheSize, cfg.CacheTTL), noop
}
