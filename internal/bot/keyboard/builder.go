// Package keyboard renders the bot's reply and inline keyboards.
package keyboard

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/effects"
)

// Builder creates the keyboards shown to users.
type Builder struct {
	registry *effects.Registry
	log      *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(registry *effects.Registry, log *slog.Logger) *Builder {
	return &Builder{registry: registry, log: log}
}

// MainMenu builds the persistent reply keyboard shown after /start. The
// admin panel row is only rendered for the privileged identity.
func (b *Builder) MainMenu(isAdmin bool) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
	markup.ReplyKeyboard = [][]telebot.ReplyButton{
		{
			{Text: "🌐 ترجمه متن"},
		},
		{
			{Text: "🎤 تغییر صدا"},
			{Text: "🎛️ انتخاب افکت"},
		},
		{
			{Text: "📊 موجودی"},
			{Text: "💳 خرید امتیاز"},
		},
	}

	if isAdmin {
		markup.ReplyKeyboard = append(markup.ReplyKeyboard, []telebot.ReplyButton{
			{Text: "🛠 پنل ادمین"},
		})
	}

	return markup
}

// Effects builds the inline effect catalog, two entries per row, with the
// identity effect on its own closing row.
func (b *Builder) Effects() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}

	var rows [][]telebot.InlineButton
	var row []telebot.InlineButton
	for _, def := range b.registry.List() {
		if def.Code == effects.CodeNone {
			continue
		}

		row = append(row, telebot.InlineButton{
			Text: def.Label,
			Data: "eff:" + def.Code,
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []telebot.InlineButton{
		{Text: "حذف افکت (عادی)", Data: "eff:" + effects.CodeNone},
	})

	markup.InlineKeyboard = rows
	return markup
}

// Languages builds the translation target language picker.
func (b *Builder) Languages() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{Text: "🇮🇷 فارسی", Data: "trg:fa"},
			{Text: "🇬🇧 English", Data: "trg:en"},
		},
		{
			{Text: "🇹🇷 Türkçe", Data: "trg:tr"},
			{Text: "🇸🇦 العربية", Data: "trg:ar"},
		},
		{
			{Text: "🇷🇺 Русский", Data: "trg:ru"},
			{Text: "🇵🇰 اردو", Data: "trg:ur"},
		},
	}
	return markup
}

// TranslationSession builds the in-session keyboard with the current
// target language shown on the switch button.
func (b *Builder) TranslationSession(target string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{Text: "🔁 تغییر زبان مقصد (فعلی: " + target + ")", Data: "tr:change_lang"},
		},
		{
			{Text: "⬅️ بازگشت به منوی اصلی", Data: "tr:back_home"},
		},
	}
	return markup
}

// AdminPanel builds the admin inline keyboard.
func (b *Builder) AdminPanel() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{Text: "📈 آمار", Data: "admin:stats"},
		},
	}
	return markup
}
