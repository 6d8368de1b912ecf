package handlers

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/effects"
	"github.com/sedalabs/sedabot/internal/ledger"
	"github.com/sedalabs/sedabot/pkg/config"
)

// NewBalanceHandler reports the user's credit balance and selected effect.
func NewBalanceHandler(ledgerSvc *ledger.Service, registry *effects.Registry, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		user, err := ledgerSvc.Get(context.Background(), sender.ID)
		if err != nil {
			log.Error("balance handler failed to fetch user", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			return err
		}

		return c.Send(fmt.Sprintf("📊 موجودی: %d\n🎛️ افکت: %s", user.Balance, registry.Label(user.Effect)))
	}
}

// NewBuyHandler shows the payment card number and the exchange rate.
func NewBuyHandler(billing config.BillingConfig) Handler {
	return func(c telebot.Context) error {
		return c.Send(fmt.Sprintf(
			"💳 شماره کارت:\n%s\n\nبه ازای هر %d تومان → %d امتیاز",
			billing.CardNumber, billing.UnitAmount, billing.PointsPerUnit,
		))
	}
}
