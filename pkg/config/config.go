package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// Load parses environment variables into a fresh T based on its `env` field
// tags. The first call in the process also loads a .env file when one exists;
// a missing file is not an error.
//
// Example:
//
//	type GatewayConfig struct {
//		ClientID     string `env:"IDENTITY_CLIENT_ID,required"`
//		ClientSecret string `env:"IDENTITY_CLIENT_SECRET,required"`
//	}
//
//	cfg, err := config.Load[GatewayConfig]()
func Load[T any]() (T, error) {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad is Load for configuration the process cannot start without; it
// panics on failure.
func MustLoad[T any]() T {
	cfg, err := Load[T]()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}
