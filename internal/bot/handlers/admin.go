package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/bot/keyboard"
	apperrors "github.com/sedalabs/sedabot/internal/errors"
	"github.com/sedalabs/sedabot/internal/ledger"
	"github.com/sedalabs/sedabot/pkg/metrics"
)

// NewConfirmHandler processes "/confirm <userId> <amount>": it converts
// the paid amount into credits, records the payment, and notifies the
// target user. Non-admin senders are ignored without a response.
func NewConfirmHandler(ledgerSvc *ledger.Service, adminID int64, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}
		if sender.ID != adminID {
			logUnauthorized(log, "confirm", sender.ID)
			return nil
		}

		args := c.Args()
		if len(args) != 2 {
			return apperrors.NewValidationError("usage: /confirm <userId> <amount>")
		}

		targetID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return apperrors.NewValidationError("user id must be numeric")
		}
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || amount <= 0 {
			return apperrors.NewValidationError("amount must be a positive number")
		}

		ctx := context.Background()

		if _, err := ledgerSvc.Ensure(ctx, targetID, ""); err != nil {
			return err
		}

		points, err := ledgerSvc.Grant(ctx, targetID, amount)
		if err != nil {
			return err
		}

		log.Info("credit grant confirmed",
			slog.Int64("user_id", targetID),
			slog.Int64("amount", amount),
			slog.Int64("points", points),
		)

		if _, err := c.Bot().Send(&telebot.User{ID: targetID}, fmt.Sprintf("✅ %d امتیاز اضافه شد.", points)); err != nil {
			log.Warn("failed to notify user about grant", slog.Int64("user_id", targetID), slog.Any("error", err))
		}

		return c.Send(fmt.Sprintf("✅ %d امتیاز برای %d ثبت شد.", points, targetID))
	}
}

// NewAdminPanelHandler opens the admin inline keyboard.
func NewAdminPanelHandler(adminID int64, kb *keyboard.Builder, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}
		if sender.ID != adminID {
			logUnauthorized(log, "admin_panel", sender.ID)
			return nil
		}

		return c.Send("🛠 پنل ادمین:", kb.AdminPanel())
	}
}

// NewAdminCallbackHandler serves "admin:*" callbacks.
func NewAdminCallbackHandler(ledgerSvc *ledger.Service, adminID int64, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		callback := c.Callback()
		if sender == nil || callback == nil {
			return nil
		}
		if sender.ID != adminID {
			logUnauthorized(log, "admin_callback", sender.ID)
			return nil
		}

		data := strings.TrimPrefix(callback.Data, "\f")
		if data != "admin:stats" {
			return nil
		}

		stats, err := ledgerSvc.Stats(context.Background())
		if err != nil {
			return err
		}

		return c.Edit(fmt.Sprintf("📈 کاربران: %d, امتیاز: %d", stats.UserCount, stats.TotalBalance))
	}
}

// NewReceiptHandler forwards payment receipt photos to the admin.
func NewReceiptHandler(adminID int64, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		msg := c.Message()
		if msg == nil || msg.Photo == nil {
			return nil
		}

		if err := c.ForwardTo(&telebot.User{ID: adminID}); err != nil {
			log.Error("failed to forward receipt", slog.Any("error", err))
			return err
		}

		return c.Send("✅ رسید ارسال شد.")
	}
}

// logUnauthorized keeps a trace of ignored privileged actions: the user
// gets no response, but operators get a signal.
func logUnauthorized(log *slog.Logger, action string, userID int64) {
	log.Warn("unauthorized admin action ignored",
		slog.String("action", action),
		slog.Int64("user_id", userID),
	)
	metrics.RecordError("unauthorized_admin", "low")
}
