package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name" validate:"required"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFile  string `mapstructure:"log_file"`

	ChargilyMode       string        `mapstructure:"chargily_mode" validate:"oneof=test live"`
	ChargilySecretKey  string        `mapstructure:"chargily_secret_key" json:"-"`
	ChargilyBaseURL    string        `mapstructure:"chargily_base_url" validate:"omitempty,url"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds" validate:"gt=0"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	ListenAddr      string        `mapstructure:"listen_addr" validate:"required"`
	WebhookPath     string        `mapstructure:"webhook_path" validate:"required,startswith=/"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	PublishersFile  string        `mapstructure:"publishers_file"`
	ShutdownSeconds int64         `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type" validate:"omitempty,oneof=none disabled bbolt"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds" validate:"gt=0"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds" validate:"gt=0"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "chargily-webhook-receiver")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("chargily_mode", "test")
	v.SetDefault("chargily_secret_key", "")
	v.SetDefault("chargily_base_url", "")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("webhook_path", "/webhooks/chargily")
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("publishers_file", "")
	v.SetDefault("shutdown_timeout_seconds", 10)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/events.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	cfg.ShutdownTimeout = time.Duration(cfg.ShutdownSeconds) * time.Second
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// RequireSecretKey fails when no API secret key is configured. Both the
// receiver and the CLI need it; loading alone does not.
func (c *Config) RequireSecretKey() error {
	if c == nil || c.ChargilySecretKey == "" {
		return fmt.Errorf("chargily_secret_key is not set")
	}
	return nil
}
