package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Tasks    TasksConfig
	Reminder ReminderConfig
	SMTP     SMTPConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type JWTConfig struct {
	Issuer          string        `env:"JWT_ISSUER" env-default:"taskmatrix"`
	SigningKey      string        `env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
}

type StorageConfig struct {
	Dir           string `env:"STORAGE_DIR" env-default:"./uploads"`
	MaxUploadSize int64  `env:"STORAGE_MAX_UPLOAD_SIZE" env-default:"16777216"`
}

type TasksConfig struct {
	// RejectPastDeadline makes task validation refuse deadlines
	// earlier than the current time. Off by default.
	RejectPastDeadline bool `env:"TASKS_REJECT_PAST_DEADLINE" env-default:"false"`
}

type ReminderConfig struct {
	Enabled bool `env:"REMINDER_ENABLED" env-default:"false"`
	// Time is the daily send time in HH:MM, server location.
	Time string `env:"REMINDER_TIME" env-default:"08:00"`
	// Window is how far ahead of a deadline a task counts as pending.
	Window time.Duration `env:"REMINDER_WINDOW" env-default:"72h"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}
