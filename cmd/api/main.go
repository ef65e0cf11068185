// Package main is the entrypoint for the social insurance API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/socins/socins/internal/cache"
	"github.com/socins/socins/internal/config"
	"github.com/socins/socins/internal/handler"
	"github.com/socins/socins/internal/metrics"
	"github.com/socins/socins/internal/middleware"
	"github.com/socins/socins/internal/repository"
	"github.com/socins/socins/internal/server"
	"github.com/socins/socins/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		defer cacheClient.Close()
		logger.Info("connected to Redis")
	}

	recorder := metrics.NewNoop()
	citizenService := service.NewCitizenService(repo, recorder)
	employerService := service.NewEmployerService(repo, recorder)
	contributionService := service.NewContributionService(repo, repo, repo, time.Now, recorder)

	h := handler.New()
	var redisChecker handler.HealthChecker
	if cacheClient != nil {
		redisChecker = cacheClient
	}
	healthHandler := handler.NewHealthHandler(repo, redisChecker)
	citizenHandler := handler.NewCitizenHandler(citizenService, logger)
	employerHandler := handler.NewEmployerHandler(employerService, logger)
	contributionHandler := handler.NewContributionHandler(contributionService, logger)

	r := setupRouter(h, healthHandler, citizenHandler, employerHandler, contributionHandler, cacheClient, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"rate_limit_enabled", cfg.RateLimitEnabled,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	citizenHandler *handler.CitizenHandler,
	employerHandler *handler.EmployerHandler,
	contributionHandler *handler.ContributionHandler,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/", h.Root)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Enabled: cfg.RateLimitEnabled,
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
	}
	if cacheClient != nil {
		rateLimitCfg.Limiter = cacheClient
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))

		r.Route("/citizens", func(r chi.Router) {
			r.Post("/", citizenHandler.Create)
			r.Get("/", citizenHandler.List)
			r.Get("/{citizenId}", citizenHandler.Get)
			r.Put("/{citizenId}", citizenHandler.Update)
			r.Delete("/{citizenId}", citizenHandler.Delete)
			r.Get("/{citizenId}/eligibility", contributionHandler.CheckEligibility)
			r.Get("/{citizenId}/contributions", contributionHandler.ListByCitizen)
		})

		r.Route("/employers", func(r chi.Router) {
			r.Post("/", employerHandler.Create)
			r.Get("/", employerHandler.List)
			r.Get("/{employerId}", employerHandler.Get)
			r.Put("/{employerId}", employerHandler.Update)
			r.Delete("/{employerId}", employerHandler.Delete)
		})

		r.Route("/contributions", func(r chi.Router) {
			r.Post("/", contributionHandler.Create)
			r.Get("/", contributionHandler.List)
			r.Get("/{contributionId}", contributionHandler.Get)
			r.Delete("/{contributionId}", contributionHandler.Delete)
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL hides credentials in connection URLs before they reach logs.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError strips known secrets from an error message.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
