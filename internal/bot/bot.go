package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/bot/handlers"
	"github.com/sedalabs/sedabot/internal/bot/keyboard"
	"github.com/sedalabs/sedabot/internal/effects"
	apperrors "github.com/sedalabs/sedabot/internal/errors"
	"github.com/sedalabs/sedabot/internal/idempotency"
	"github.com/sedalabs/sedabot/internal/ledger"
	"github.com/sedalabs/sedabot/internal/media"
	"github.com/sedalabs/sedabot/internal/middleware"
	"github.com/sedalabs/sedabot/internal/session"
	"github.com/sedalabs/sedabot/internal/translate"
	"github.com/sedalabs/sedabot/pkg/config"
)

// Bot wraps telebot.Bot with application dependencies required for
// handling updates.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	dispatcher *Dispatcher
	keyboard   *keyboard.Builder
	errHandler *apperrors.Handler
}

// Dependencies carries the services the bot wires into its dispatcher.
type Dependencies struct {
	Ledger             *ledger.Service
	Effects            *effects.Registry
	Sessions           session.Store
	Translator         translate.Translator
	Transcoder         media.Transcoder
	IdempotencyManager idempotency.Manager
	RateLimit          *middleware.RateLimitMiddleware
}

// New builds a telegram bot instance configured according to the
// application settings and registers all routes.
func New(cfg config.Config, log *slog.Logger, deps Dependencies) (*Bot, error) {
	tb, err := telebot.NewBot(newSettings(cfg))
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	kb := keyboard.NewBuilder(deps.Effects, log)
	dispatcher := NewDispatcher(log)
	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		dispatcher: dispatcher,
		keyboard:   kb,
		errHandler: errHandler,
	}

	b.setupDispatcher(deps)

	if deps.RateLimit != nil {
		b.telebot.Use(deps.RateLimit.Handle)
	}

	b.registerTelebotHandlers()

	return b, nil
}

// newSettings builds the telebot settings for the configured mode. The
// webhook listener binds bot.webhook_listen, never server.port, which
// belongs to the ops HTTP server.
func newSettings(cfg config.Config) telebot.Settings {
	settings := telebot.Settings{
		Token: cfg.Bot.Token,
	}

	if cfg.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen: cfg.Bot.WebhookListen,
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: cfg.Bot.WebhookURL,
			},
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	return settings
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	if b.log != nil {
		b.log.Info("stopping telegram bot...")
	}

	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations
// such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) setupDispatcher(deps Dependencies) {
	b.dispatcher.Use(RecoveryMiddleware(b.log, b.errHandler))
	if deps.IdempotencyManager != nil {
		b.dispatcher.Use(middleware.Idempotency(deps.IdempotencyManager, b.log))
	}
	b.dispatcher.Use(ErrorHandlingMiddleware(b.errHandler))
	b.dispatcher.Use(LoggingMiddleware(b.log))
	b.dispatcher.Use(EnsureUserMiddleware(deps.Ledger, b.log))
	b.dispatcher.Use(middleware.Metrics)

	adminID := b.cfg.Bot.AdminID

	// The translation interceptor runs before primary routing for every
	// plain-text message. Commands bypass it.
	b.dispatcher.Intercept(handlers.NewTranslationInterceptor(deps.Sessions, deps.Translator, b.keyboard, b.log))

	b.dispatcher.Command(CommandStart, handlers.NewStartHandler(deps.Ledger, deps.Sessions, b.keyboard, adminID, b.log))
	b.dispatcher.Command(CommandPing, handlers.NewPingHandler())
	b.dispatcher.Command(CommandConfirm, handlers.NewConfirmHandler(deps.Ledger, adminID, b.log))
	b.dispatcher.Command(CommandTranslate, handlers.NewTranslateCommandHandler(deps.Translator, b.log))

	b.dispatcher.Button(ButtonTranslate, handlers.NewTranslateMenuHandler(deps.Sessions, b.cfg.Translate.DefaultTarget, b.keyboard, b.log))
	b.dispatcher.Button(ButtonChangeVoice, handlers.NewChangeVoiceHandler())
	b.dispatcher.Button(ButtonChooseEffect, handlers.NewChooseEffectHandler(deps.Ledger, deps.Effects, b.keyboard, b.log))
	b.dispatcher.Button(ButtonBalance, handlers.NewBalanceHandler(deps.Ledger, deps.Effects, b.log))
	b.dispatcher.Button(ButtonBuy, handlers.NewBuyHandler(b.cfg.Billing))
	b.dispatcher.Button(ButtonAdminPanel, handlers.NewAdminPanelHandler(adminID, b.keyboard, b.log))

	b.dispatcher.Callback(CallbackEffectPrefix, handlers.NewEffectCallbackHandler(deps.Ledger, deps.Effects, b.log))
	b.dispatcher.Callback(CallbackAdminPrefix, handlers.NewAdminCallbackHandler(deps.Ledger, adminID, b.log))
	b.dispatcher.Callback(CallbackLangPrefix, handlers.NewLanguageCallbackHandler(deps.Sessions, b.log))
	b.dispatcher.Callback(CallbackSessionPrefix, handlers.NewSessionCallbackHandler(deps.Sessions, b.keyboard, b.log))

	fetcher := media.NewTelegramFetcher(b.telebot, b.cfg.Audio.TempDir, b.log)
	b.dispatcher.Voice(handlers.NewVoiceHandler(deps.Ledger, deps.Effects, fetcher, deps.Transcoder, b.cfg.Billing, b.log))
	b.dispatcher.Photo(handlers.NewReceiptHandler(adminID, b.log))
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.dispatcher.Dispatch)
	b.telebot.Handle(telebot.OnVoice, b.dispatcher.Dispatch)
	b.telebot.Handle(telebot.OnAudio, b.dispatcher.Dispatch)
	b.telebot.Handle(telebot.OnPhoto, b.dispatcher.Dispatch)
	b.telebot.Handle(telebot.OnCallback, b.dispatcher.Dispatch)
}
