package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	SentryDSN   string  `envconfig:"SENTRY_DSN"`
	Environment string  `envconfig:"ENVIRONMENT" default:"development"`
	SampleRate  float64 `envconfig:"TRACES_SAMPLE_RATE" default:"0.1"`

	// Bootstrap: register an initial API key on startup
	InitAPIKey string `envconfig:"INIT_API_KEY"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("LANEWISE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
