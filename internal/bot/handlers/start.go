package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/bot/keyboard"
	"github.com/sedalabs/sedabot/internal/ledger"
	"github.com/sedalabs/sedabot/internal/session"
)

const startGreeting = "سلام 👋\nبه ربات تغییر صدا + ترجمه خوش اومدی!"

// NewStartHandler greets the user, makes sure the ledger row exists, and
// resets any pending translation session.
func NewStartHandler(ledgerSvc *ledger.Service, sessions session.Store, kb *keyboard.Builder, adminID int64, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		ctx := context.Background()
		if _, err := ledgerSvc.Ensure(ctx, sender.ID, displayName(sender)); err != nil {
			return err
		}

		sess, err := sessions.Get(ctx, sender.ID)
		if err != nil {
			log.Warn("failed to read session on start", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			sess = session.Default()
		}
		sess.AwaitingTranslation = false
		if err := sessions.Set(ctx, sender.ID, sess); err != nil {
			log.Warn("failed to reset session on start", slog.Int64("user_id", sender.ID), slog.Any("error", err))
		}

		return c.Send(startGreeting, kb.MainMenu(sender.ID == adminID))
	}
}

// NewPingHandler replies with a liveness message.
func NewPingHandler() Handler {
	return func(c telebot.Context) error {
		return c.Send("✅ ربات روشنه.")
	}
}

func displayName(u *telebot.User) string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	return name
}
