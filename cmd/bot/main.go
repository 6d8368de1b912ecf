package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sedalabs/sedabot/internal/bot"
	"github.com/sedalabs/sedabot/internal/database"
	"github.com/sedalabs/sedabot/internal/effects"
	"github.com/sedalabs/sedabot/internal/health"
	"github.com/sedalabs/sedabot/internal/idempotency"
	"github.com/sedalabs/sedabot/internal/ledger"
	"github.com/sedalabs/sedabot/internal/media"
	"github.com/sedalabs/sedabot/internal/middleware"
	"github.com/sedalabs/sedabot/internal/ratelimit"
	"github.com/sedalabs/sedabot/internal/repository"
	"github.com/sedalabs/sedabot/internal/session"
	"github.com/sedalabs/sedabot/internal/translate"
	"github.com/sedalabs/sedabot/pkg/config"
	"github.com/sedalabs/sedabot/pkg/graceful"
	"github.com/sedalabs/sedabot/pkg/logger"
	appredis "github.com/sedalabs/sedabot/pkg/redis"

	_ "github.com/lib/pq"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, _, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(*cfg)
	slog.SetDefault(log)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	log.Info("starting sedabot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
	)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("error closing database", slog.Any("error", cerr))
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := database.NewMigrator(db, log).ApplyDir(ctx, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = appredis.New(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				log.Error("error closing redis", slog.Any("error", cerr))
			}
		}()
	}

	ledgerSvc := ledger.NewService(repository.NewLedgerRepository(db, log), cfg.Billing, log)
	registry := effects.NewRegistry(log)
	translator := translate.NewGoogleClient(cfg.Translate, log)
	transcoder := media.NewFFmpegTranscoder(cfg.Audio, log)

	deps := bot.Dependencies{
		Ledger:     ledgerSvc,
		Effects:    registry,
		Sessions:   buildSessionStore(cfg, redisClient, log),
		Translator: translator,
		Transcoder: transcoder,
	}

	if redisClient != nil {
		deps.IdempotencyManager = idempotency.NewManager(idempotency.NewRedisStore(redisClient, log), log)
	}

	if cfg.RateLimit.Enabled {
		var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter()
		if redisClient != nil {
			limiter = ratelimit.NewRedisLimiter(redisClient, log)
		}
		deps.RateLimit = middleware.NewRateLimitMiddleware(limiter, ratelimit.NewRules(cfg.RateLimit), log)
	}

	b, err := bot.New(*cfg, log, deps)
	if err != nil {
		return fmt.Errorf("build bot: %w", err)
	}

	go b.Start()
	defer b.Stop()

	checker := health.NewChecker(log)
	checker.Register("database", health.Database(db))
	if redisClient != nil {
		checker.Register("redis", health.Redis(redisClient))
	}
	checker.Register("telegram", health.Telegram(b.Telebot()))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", checker.Handler())

	srv := graceful.NewServer(log, &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}, cfg.Server.ShutdownTimeout)

	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("ops server: %w", err)
	}

	log.Info("sedabot shut down")
	return nil
}

func buildSessionStore(cfg *config.Config, redisClient *goredis.Client, log *slog.Logger) session.Store {
	if cfg.Session.Backend == "redis" && redisClient != nil {
		return session.NewRedisStore(redisClient, cfg.Session.TTL, log)
	}

	return session.NewMemoryStore()
}
