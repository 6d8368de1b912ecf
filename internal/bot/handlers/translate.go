package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/bot/keyboard"
	apperrors "github.com/sedalabs/sedabot/internal/errors"
	"github.com/sedalabs/sedabot/internal/session"
	"github.com/sedalabs/sedabot/internal/translate"
)

// NewTranslateMenuHandler opens a translation session: the await flag and
// the default target language are always set together.
func NewTranslateMenuHandler(sessions session.Store, defaultTarget string, kb *keyboard.Builder, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		if defaultTarget == "" {
			defaultTarget = session.DefaultTargetLanguage
		}

		sess := session.Session{AwaitingTranslation: true, TargetLanguage: defaultTarget}
		if err := sessions.Set(context.Background(), sender.ID, sess); err != nil {
			log.Error("failed to open translation session", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			return err
		}

		return c.Send("🌐 زبان مقصد:", kb.Languages())
	}
}

// NewLanguageCallbackHandler records the chosen target language and keeps
// the session open.
func NewLanguageCallbackHandler(sessions session.Store, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		callback := c.Callback()
		if sender == nil || callback == nil {
			return nil
		}

		data := strings.TrimPrefix(callback.Data, "\f")
		target := strings.TrimPrefix(data, "trg:")

		sess := session.Session{AwaitingTranslation: true, TargetLanguage: target}
		if err := sessions.Set(context.Background(), sender.ID, sess); err != nil {
			log.Error("failed to set target language", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			return err
		}

		return c.Edit(fmt.Sprintf("✅ زبان مقصد: %s", target))
	}
}

// NewSessionCallbackHandler serves the in-session keyboard: switching the
// target language or exiting back to the main menu.
func NewSessionCallbackHandler(sessions session.Store, kb *keyboard.Builder, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		callback := c.Callback()
		if sender == nil || callback == nil {
			return nil
		}

		ctx := context.Background()
		data := strings.TrimPrefix(callback.Data, "\f")

		switch data {
		case "tr:change_lang":
			return c.Edit("🌐 زبان مقصد:", kb.Languages())
		case "tr:back_home":
			sess, err := sessions.Get(ctx, sender.ID)
			if err != nil {
				sess = session.Default()
			}
			sess.AwaitingTranslation = false
			if err := sessions.Set(ctx, sender.ID, sess); err != nil {
				log.Error("failed to close translation session", slog.Int64("user_id", sender.ID), slog.Any("error", err))
				return err
			}
			return c.Edit("⬅️ به منوی اصلی برگشتی.")
		default:
			return nil
		}
	}
}

// NewTranslationInterceptor consumes plain text messages while the user
// is inside a translation session. Commands pass through untouched, and a
// failed translation leaves the session state unchanged.
func NewTranslationInterceptor(sessions session.Store, translator translate.Translator, kb *keyboard.Builder, log *slog.Logger) Interceptor {
	return func(c telebot.Context) (bool, error) {
		sender := c.Sender()
		msg := c.Message()
		if sender == nil || msg == nil {
			return false, nil
		}
		if msg.Voice != nil || msg.Audio != nil || msg.Photo != nil {
			return false, nil
		}

		text := c.Text()
		if text == "" || strings.HasPrefix(text, "/") {
			return false, nil
		}

		ctx := context.Background()
		sess, err := sessions.Get(ctx, sender.ID)
		if err != nil {
			log.Warn("interceptor failed to read session", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			return false, nil
		}
		if !sess.AwaitingTranslation {
			return false, nil
		}

		target := sess.TargetLanguage
		if target == "" {
			target = session.DefaultTargetLanguage
		}

		translated, err := translator.Translate(ctx, text, target)
		if err != nil {
			return true, apperrors.NewTranslationUnavailableError(err)
		}

		return true, c.Send(
			fmt.Sprintf("🔁 ترجمه (%s):\n%s", target, translated),
			kb.TranslationSession(target),
		)
	}
}

// NewTranslateCommandHandler serves one-shot "/tr <lang> <text...>"
// translations outside any session.
func NewTranslateCommandHandler(translator translate.Translator, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 2 {
			return apperrors.NewValidationError("usage: /tr <lang> <text>")
		}

		target := args[0]
		text := strings.Join(args[1:], " ")

		translated, err := translator.Translate(context.Background(), text, target)
		if err != nil {
			return apperrors.NewTranslationUnavailableError(err)
		}

		return c.Send("🔁 " + translated)
	}
}
