package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains application configuration parameters.
type Config struct {
	LogLevel string  `env:"LOG_LEVEL" envDefault:"info"`
	Store    Store   `envPrefix:"STORE_"`
	Catalog  Catalog `envPrefix:"CATALOG_"`
	Auth     Auth    `envPrefix:"AUTH_"`
}

// Store contains local key-value store parameters.
type Store struct {
	Dir      string `env:"DIR" envDefault:"."`
	FileName string `env:"FILE_NAME" envDefault:"storefront.db"`
}

// Catalog contains product catalog parameters. An empty Path means
// the catalog embedded in the binary is used.
type Catalog struct {
	Path string `env:"PATH"`
}

// Auth contains account security parameters.
type Auth struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
