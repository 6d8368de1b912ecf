package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/bot/keyboard"
	"github.com/sedalabs/sedabot/internal/effects"
	"github.com/sedalabs/sedabot/internal/ledger"
)

// NewChooseEffectHandler presents the effect catalog.
func NewChooseEffectHandler(ledgerSvc *ledger.Service, registry *effects.Registry, kb *keyboard.Builder, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		user, err := ledgerSvc.Get(context.Background(), sender.ID)
		if err != nil {
			log.Error("choose effect handler failed to fetch user", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			return err
		}

		return c.Send(
			fmt.Sprintf("🎛️ افکت فعلی: %s", registry.Label(user.Effect)),
			kb.Effects(),
		)
	}
}

// NewEffectCallbackHandler stores the selected effect code. The code is
// not validated here: unknown codes degrade to the identity transform at
// apply time.
func NewEffectCallbackHandler(ledgerSvc *ledger.Service, registry *effects.Registry, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		callback := c.Callback()
		if sender == nil || callback == nil {
			return nil
		}

		data := strings.TrimPrefix(callback.Data, "\f")
		code := strings.TrimPrefix(data, "eff:")

		if err := ledgerSvc.SetEffect(context.Background(), sender.ID, code); err != nil {
			log.Error("failed to store effect selection", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			return err
		}

		return c.Edit(fmt.Sprintf("✅ افکت: %s", registry.Label(code)))
	}
}
