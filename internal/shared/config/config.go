package config

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	Version     string `env:"VERSION" envDefault:"0.1.0"`
	Port        int    `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN   string `env:"SENTRY_DSN"`

	// Credential store
	UsersFolder      string        `env:"USERS_FOLDER" envDefault:"./data"`
	UsersFile        string        `env:"USERS_FILE" envDefault:"users.json"`
	StoreLockTimeout time.Duration `env:"STORE_LOCK_TIMEOUT" envDefault:"5s"`

	// Token issuing
	JWTSecret    string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	TokenIssuer  string        `env:"TOKEN_ISSUER" envDefault:"authsvc"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.UsersFile == "" {
		return errors.New("USERS_FILE must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.StoreLockTimeout <= 0 {
		return errors.New("STORE_LOCK_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) IsEnvProd() bool {
	if c.Environment == "prod" && c.SentryDSN != "" {
		return true
	}
	return false
}

// UsersPath is the full path of the credential file.
func (c *Config) UsersPath() string {
	return filepath.Join(c.UsersFolder, c.UsersFile)
}
