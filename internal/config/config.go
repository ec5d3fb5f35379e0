package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the runtime configuration, read from the environment.
type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV" validate:"required,oneof=development production test"`
	AppPort         string        `mapstructure:"APP_PORT" validate:"required"`
	DatabaseDriver  string        `mapstructure:"DATABASE_DRIVER" validate:"required,oneof=postgres sqlite"`
	DatabaseDSN     string        `mapstructure:"DATABASE_DSN" validate:"required"`
	JWTSecret       string        `mapstructure:"JWT_SECRET" validate:"required,min=8"`
	RabbitMQURL     string        `mapstructure:"RABBITMQ_URL" validate:"omitempty,url"`
	CheckoutTimeout time.Duration `mapstructure:"CHECKOUT_TIMEOUT" validate:"gt=0"`
	AdminUsername   string        `mapstructure:"ADMIN_USERNAME" validate:"required_with=AdminPassword"`
	AdminEmail      string        `mapstructure:"ADMIN_EMAIL" validate:"omitempty,email"`
	AdminPassword   string        `mapstructure:"ADMIN_PASSWORD" validate:"omitempty,min=6"`
}

// Load reads configuration from v, which should already have AutomaticEnv or
// a config file applied. Pass viper.New() for an isolated instance.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=toko port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "supersecretjwtkey")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("CHECKOUT_TIMEOUT", "5s")
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
