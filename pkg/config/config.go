package config

import "time"

// Config holds the full runtime configuration for sedabot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Bot       BotConfig       `mapstructure:"bot" validate:"required"`
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Billing   BillingConfig   `mapstructure:"billing" validate:"required"`
	Translate TranslateConfig `mapstructure:"translate"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Session   SessionConfig   `mapstructure:"session"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig bounds how fast a single user may send updates.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// PerUser allows this many updates per user within Window.
	PerUser int           `mapstructure:"per_user"`
	Window  time.Duration `mapstructure:"window"`
	// Whitelist lists user IDs that bypass limits entirely.
	Whitelist []int64 `mapstructure:"whitelist"`
}

// BotConfig configures the Telegram transport and the privileged identity.
type BotConfig struct {
	Token   string        `mapstructure:"token" validate:"required"`
	Mode    string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout time.Duration `mapstructure:"timeout"`
	// WebhookListen is the webhook's own bind address; server.port stays
	// reserved for the ops endpoint. WebhookURL is the public URL
	// registered with Telegram. Both are required in webhook mode.
	WebhookListen string `mapstructure:"webhook_listen" validate:"required_if=Mode webhook"`
	WebhookURL    string `mapstructure:"webhook_url" validate:"required_if=Mode webhook,omitempty,url"`
	// AdminID is the only identity allowed to run admin commands.
	AdminID int64 `mapstructure:"admin_id" validate:"required"`
}

// ServerConfig configures the operational HTTP endpoint (metrics, health).
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggerConfig controls slog output.
type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
	// File enables lumberjack rotation when non-empty.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     string `mapstructure:"port" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds Redis connection parameters used by the session backend,
// the idempotency store, and the rate limiter.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// SentryConfig controls error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// BillingConfig carries the credit economy parameters.
type BillingConfig struct {
	CardNumber string `mapstructure:"card_number" validate:"required"`
	// PointsPerUnit credits are granted per UnitAmount of paid currency,
	// using integer floor division on the paid amount.
	PointsPerUnit int64 `mapstructure:"points_per_unit" validate:"gt=0"`
	UnitAmount    int64 `mapstructure:"unit_amount" validate:"gt=0"`
	// VoiceCost is debited per processed voice message.
	VoiceCost int64 `mapstructure:"voice_cost" validate:"gt=0"`
}

// TranslateConfig configures the external translation collaborator.
type TranslateConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	DefaultTarget string        `mapstructure:"default_target"`
}

// AudioConfig configures the media transcoder.
type AudioConfig struct {
	FFmpegPath string `mapstructure:"ffmpeg_path"`
	SampleRate int    `mapstructure:"sample_rate"`
	TempDir    string `mapstructure:"temp_dir"`
}

// SessionConfig selects the session state backend.
type SessionConfig struct {
	Backend string        `mapstructure:"backend" validate:"oneof=memory redis"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" sslmode=" + sslmode
}
