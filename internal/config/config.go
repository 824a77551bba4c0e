package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	SMTP       SMTPConfig       `mapstructure:"smtp"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Moderation ModerationConfig `mapstructure:"moderation"`
}

type ServerConfig struct {
	Port      int     `mapstructure:"port" envconfig:"SERVER_PORT"`
	RateLimit float64 `mapstructure:"rate_limit" envconfig:"SERVER_RATE_LIMIT"`
	RateBurst int     `mapstructure:"rate_burst" envconfig:"SERVER_RATE_BURST"`
	LogLevel  string  `mapstructure:"log_level" envconfig:"SERVER_LOG_LEVEL"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT"`
	User     string `mapstructure:"user" envconfig:"DB_USER"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" envconfig:"REDIS_URL"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS"`
}

type ModerationConfig struct {
	// SuperAdminID is the only identity allowed to grant or revoke the admin
	// role.
	SuperAdminID string `mapstructure:"super_admin_id" envconfig:"MODERATION_SUPER_ADMIN_ID"`
}

// LoadConfig reads config.yaml and then overlays environment variables, so
// deployments can override any file value.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	return &config, nil
}
