package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string        `mapstructure:"PORT"`
	GinMode                          string        `mapstructure:"GIN_MODE"`
	LogLevel                         string        `mapstructure:"LOG_LEVEL"`
	FirebaseProjectID                string        `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string        `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string        `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	ClientURL                        string        `mapstructure:"CLIENT_URL"`
	Timezone                         string        `mapstructure:"TIMEZONE"`
	RedisAddress                     string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword                    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                          int           `mapstructure:"REDIS_DB"`
	ReportCacheTTL                   time.Duration `mapstructure:"REPORT_CACHE_TTL"`
	RabbitMQURL                      string        `mapstructure:"RABBITMQ_URL"`
	RabbitMQQueue                    string        `mapstructure:"RABBITMQ_QUEUE"`
	SMTPHost                         string        `mapstructure:"SMTP_HOST"`
	SMTPPort                         string        `mapstructure:"SMTP_PORT"`
	SMTPUsername                     string        `mapstructure:"SMTP_USERNAME"`
	SMTPPassword                     string        `mapstructure:"SMTP_PASSWORD"`
	MailSender                       string        `mapstructure:"MAIL_SENDER"`
}

var envKeys = []string{
	"PORT",
	"GIN_MODE",
	"LOG_LEVEL",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"CLIENT_URL",
	"TIMEZONE",
	"REDIS_ADDRESS",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"REPORT_CACHE_TTL",
	"RABBITMQ_URL",
	"RABBITMQ_QUEUE",
	"SMTP_HOST",
	"SMTP_PORT",
	"SMTP_USERNAME",
	"SMTP_PASSWORD",
	"MAIL_SENDER",
}

// LoadConfig loads configuration from environment variables using Viper.
// A config.yaml in the working directory, if present, supplies values the
// environment does not set.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "Asia/Jakarta")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REPORT_CACHE_TTL", "15s")
	v.SetDefault("RABBITMQ_QUEUE", "vote-events")
	v.SetDefault("SMTP_PORT", "587")

	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.GoogleApplicationCredentials == "" && c.FirebaseServiceAccountJSONBase64 == "" && os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		return errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MailEnabled reports whether vote receipts can be delivered.
func (c *Config) MailEnabled() bool {
	return c.RabbitMQURL != "" && c.SMTPHost != "" && c.MailSender != ""
}
