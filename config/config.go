package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BindAddr    string `env:"PORTAL_BIND_ADDR" envDefault:":8080"`
	PostgresURL string `env:"POSTGRES_URL,required"`
	RedisAddr   string `env:"REDIS_ADDR,required"`
	JWTSecret   string `env:"PORTAL_JWT_SECRET" envDefault:"portal-dev-secret"`

	ImageHostURL string `env:"IMAGE_HOST_URL"`
	ImageHostKey string `env:"IMAGE_HOST_KEY"`
}

func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
