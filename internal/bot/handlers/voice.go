package handlers

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/effects"
	apperrors "github.com/sedalabs/sedabot/internal/errors"
	"github.com/sedalabs/sedabot/internal/ledger"
	"github.com/sedalabs/sedabot/internal/media"
	"github.com/sedalabs/sedabot/pkg/config"
)

// NewChangeVoiceHandler prompts for a voice message.
func NewChangeVoiceHandler() Handler {
	return func(c telebot.Context) error {
		return c.Send("🎤 یک ویس یا فایل صوتی بفرست.")
	}
}

// NewVoiceHandler processes incoming voice and audio messages: it gates
// on the credit balance, fetches and decodes the payload, applies the
// user's selected effect, replies with the result, and debits one voice
// cost only after the reply was delivered.
func NewVoiceHandler(
	ledgerSvc *ledger.Service,
	registry *effects.Registry,
	fetcher media.Fetcher,
	transcoder media.Transcoder,
	billing config.BillingConfig,
	log *slog.Logger,
) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		msg := c.Message()
		if sender == nil || msg == nil {
			return nil
		}

		var file *telebot.File
		switch {
		case msg.Voice != nil:
			file = &msg.Voice.File
		case msg.Audio != nil:
			file = &msg.Audio.File
		default:
			return nil
		}

		ctx := context.Background()

		user, err := ledgerSvc.Get(ctx, sender.ID)
		if err != nil {
			return err
		}
		if user.Balance < billing.VoiceCost {
			return apperrors.NewInsufficientCreditError(user.Balance)
		}

		inPath, cleanupIn, err := fetcher.Fetch(ctx, file)
		if err != nil {
			return apperrors.NewMediaFetchError(err)
		}
		defer cleanupIn()

		buf, err := transcoder.Decode(ctx, inPath)
		if err != nil {
			return apperrors.NewMediaFetchError(err)
		}

		processed := registry.Apply(user.Effect, buf)

		outPath, cleanupOut := fetcher.TempPath(".ogg")
		defer cleanupOut()

		if err := transcoder.Encode(ctx, processed, outPath); err != nil {
			return apperrors.NewMediaFetchError(err)
		}

		reply := &telebot.Voice{
			File:    telebot.FromDisk(outPath),
			Caption: fmt.Sprintf("✅ انجام شد. افکت: %s", registry.Label(user.Effect)),
		}
		if err := c.Send(reply); err != nil {
			return err
		}

		// debit after confirmed delivery; a failure anywhere above costs
		// the user nothing
		if err := ledgerSvc.Debit(ctx, sender.ID, billing.VoiceCost); err != nil {
			log.Error("failed to debit after voice reply",
				slog.Int64("user_id", sender.ID),
				slog.Any("error", err),
			)
		}

		return nil
	}
}
