package bot

// Command constants for Telegram bot commands.
const (
	CommandStart     = "/start"
	CommandPing      = "/ping"
	CommandConfirm   = "/confirm"
	CommandTranslate = "/tr"
)

// Main-menu button labels, matched by exact text.
const (
	ButtonTranslate    = "🌐 ترجمه متن"
	ButtonChangeVoice  = "🎤 تغییر صدا"
	ButtonChooseEffect = "🎛️ انتخاب افکت"
	ButtonBalance      = "📊 موجودی"
	ButtonBuy          = "💳 خرید امتیاز"
	ButtonAdminPanel   = "🛠 پنل ادمین"
)

// Callback data prefixes for inline button interactions.
const (
	CallbackEffectPrefix  = "eff:"
	CallbackAdminPrefix   = "admin:"
	CallbackLangPrefix    = "trg:"
	CallbackSessionPrefix = "tr:"
)
