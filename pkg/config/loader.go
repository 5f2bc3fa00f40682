package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from environment variables using its `env` struct tags:
//
//	type Config struct {
//	    HTTPPort     int `env:"HTTP_PORT" envDefault:"8080"`
//	    CartTTLHours int `env:"CART_TTL_HOURS" envDefault:"168"`
//	}
//
// Defaults apply when the variable is unset; type conversion failures
// surface as errors.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
