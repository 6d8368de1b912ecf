// Package health aggregates readiness checks for the bot's backing
// services.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	telebot "gopkg.in/telebot.v3"
)

// CheckFunc reports whether a single component is healthy.
type CheckFunc func(ctx context.Context) error

// Checker runs a named set of component checks.
type Checker struct {
	log    *slog.Logger
	checks map[string]CheckFunc
}

func NewChecker(log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}

	return &Checker{
		log:    log,
		checks: make(map[string]CheckFunc),
	}
}

// Register adds a component check under name.
func (c *Checker) Register(name string, check CheckFunc) {
	if name == "" || check == nil {
		return
	}
	c.checks[name] = check
}

// Check runs every registered check and returns per-component statuses
// plus overall health.
func (c *Checker) Check(ctx context.Context) (map[string]string, bool) {
	results := make(map[string]string, len(c.checks))
	healthy := true

	for name, check := range c.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			healthy = false
			c.log.Error("health check failed", slog.String("component", name), slog.Any("error", err))
			continue
		}

		results[name] = "OK"
	}

	return results, healthy
}

// Handler serves the check results as JSON; unhealthy components flip
// the status code to 503.
func (c *Checker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results, healthy := c.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(results)
	})
}

// Database returns a check that pings the SQL database.
func Database(db *sql.DB) CheckFunc {
	return func(ctx context.Context) error {
		if db == nil {
			return sql.ErrConnDone
		}
		return db.PingContext(ctx)
	}
}

// Redis returns a check that issues a PING against Redis.
func Redis(client *redis.Client) CheckFunc {
	return func(ctx context.Context) error {
		if client == nil {
			return redis.ErrClosed
		}
		return client.Ping(ctx).Err()
	}
}

// Telegram returns a check that verifies the bot completed its initial
// getMe handshake.
func Telegram(bot *telebot.Bot) CheckFunc {
	return func(ctx context.Context) error {
		if bot == nil || bot.Me == nil {
			return errors.New("telegram bot is not initialized")
		}
		return nil
	}
}
