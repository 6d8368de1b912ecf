package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/bot/handlers"
	"github.com/sedalabs/sedabot/pkg/metrics"
)

// Metrics measures execution time and status for dispatched updates,
// reporting them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		route := extractRoute(c)
		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordUpdate(route, status, time.Since(start))

		return err
	}
}

// extractRoute reduces an update to a low-cardinality route label:
// callback prefix, command name, media kind, or "text".
func extractRoute(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	if cb := c.Callback(); cb != nil {
		data := strings.TrimPrefix(cb.Data, "\f")
		if i := strings.Index(data, ":"); i >= 0 {
			return "cb:" + data[:i]
		}
		return "cb"
	}

	if msg := c.Message(); msg != nil {
		if msg.Voice != nil || msg.Audio != nil {
			return "voice"
		}
		if msg.Photo != nil {
			return "photo"
		}
	}

	text := c.Text()
	if strings.HasPrefix(text, "/") {
		if i := strings.IndexAny(text, " \t"); i >= 0 {
			text = text[:i]
		}
		return text
	}

	if text != "" {
		return "text"
	}

	return "unknown"
}
