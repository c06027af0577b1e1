package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	EmailFrom     string `mapstructure:"EMAIL_FROM"`
	EmailFromName string `mapstructure:"EMAIL_FROM_NAME"`
	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      string `mapstructure:"SMTP_PORT"`
	SMTPUser      string `mapstructure:"SMTP_USER"`
	SMTPPass      string `mapstructure:"SMTP_PASS"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`

	NotifySchedule string  `mapstructure:"NOTIFY_SCHEDULE"`
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	MigrationConfig `mapstructure:",squash"`
}

// MigrationConfig describes the legacy store and the new one for cmd/migrate.
type MigrationConfig struct {
	SourceDriver string `mapstructure:"MIGRATE_SOURCE_DRIVER"`
	SourceDSN    string `mapstructure:"MIGRATE_SOURCE_DSN"`
	DestDriver   string `mapstructure:"MIGRATE_DEST_DRIVER"`
	DestDSN      string `mapstructure:"MIGRATE_DEST_DSN"`
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

var defaults = map[string]interface{}{
	"PORT":                  "8080",
	"DB_DRIVER":             "sqlite3",
	"DATABASE_URL":          "gym.db",
	"JWT_SECRET":            "",
	"ADMIN_USERNAME":        "admin",
	"ADMIN_PASSWORD":        "",
	"EMAIL_FROM":            "noreply@gymdesk.local",
	"EMAIL_FROM_NAME":       "GymDesk",
	"SMTP_HOST":             "localhost",
	"SMTP_PORT":             "587",
	"SMTP_USER":             "",
	"SMTP_PASS":             "",
	"REDIS_ADDR":            "localhost:6379",
	"NOTIFY_SCHEDULE":       "0 8 * * *",
	"RATE_LIMIT_RPS":        10,
	"RATE_LIMIT_BURST":      20,
	"MIGRATE_SOURCE_DRIVER": "sqlite3",
	"MIGRATE_SOURCE_DSN":    "gym.db",
	"MIGRATE_DEST_DRIVER":   "mysql",
	"MIGRATE_DEST_DSN":      "gym:gym@tcp(127.0.0.1:3306)/gym?multiStatements=true",
}

// Load reads .env (when present) and the process environment. It does not
// validate server-only settings, so the migration CLI can share it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateServer checks the settings the API server cannot run without.
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}
