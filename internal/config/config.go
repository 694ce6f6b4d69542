package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is loaded once at process start and never mutated afterwards.
// It is threaded explicitly through constructors instead of being read
// from package-level state.
type Config struct {
	Port     string   `mapstructure:"port"`
	LogLevel string   `mapstructure:"log_level"`
	DB       DB       `mapstructure:"db"`
	Auth     Auth     `mapstructure:"auth"`
	Redis    Redis    `mapstructure:"redis"`
	Mail     Mail     `mapstructure:"mail"`
	Reminder Reminder `mapstructure:"reminder"`
}

type DB struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN assembles the PostgreSQL connection string from the individual
// connection parameters.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type Auth struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type Redis struct {
	Addr     string        `mapstructure:"addr"` // empty disables the user cache
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	UserTTL  time.Duration `mapstructure:"user_ttl"`
}

type Mail struct {
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"` // empty disables outgoing mail
	From           string `mapstructure:"from"`
	FromName       string `mapstructure:"from_name"`
}

type Reminder struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads the YAML config at path, applies defaults and environment
// overrides (dots replaced by underscores, e.g. DB_PASSWORD), and returns
// an immutable Config value.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "contacts")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("auth.token_ttl", "1h")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.user_ttl", "5m")

	v.SetDefault("mail.from", "noreply@localhost")
	v.SetDefault("mail.from_name", "Contacts API")

	v.SetDefault("reminder.enabled", false)
	v.SetDefault("reminder.interval", "24h")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Auth.SigningKey == "" {
		return nil, fmt.Errorf("auth.signing_key must be set")
	}
	return &cfg, nil
}
