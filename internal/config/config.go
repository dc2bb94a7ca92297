package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port             int    `env:"PORT" envDefault:"8000"`
	PostgresUser     string `env:"POSTGRES_USER,required"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,required"`
	PostgresDB       string `env:"POSTGRES_DB,required"`
	PostgresHost     string `env:"POSTGRES_HOST,required"`
	PostgresPort     int    `env:"POSTGRES_PORT,required"`
	APISecretKey     string `env:"API_SECRET_KEY,required"`
	AuthSecretKey    string `env:"API_AUTH_SECRET_KEY,required"`
	RedisURL         string `env:"REDIS_URL"`
	DataDir          string `env:"DATA_DIR" envDefault:"data"`
	TokenTTLMinutes  int    `env:"TOKEN_TTL_MINUTES" envDefault:"1440"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DatabaseURL assembles the Postgres connection string from the discrete
// POSTGRES_* variables the deployment provides.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB,
	)
}

func (c *Config) Validate(isProduction bool) error {
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive")
	}

	if isProduction {
		if err := validateSecret("API_SECRET_KEY", c.APISecretKey); err != nil {
			return err
		}
		if err := validateSecret("API_AUTH_SECRET_KEY", c.AuthSecretKey); err != nil {
			return err
		}
		if c.RedisURL == "" {
			log.Warn().Msg("REDIS_URL is empty in production: falling back to in-memory rate limiting")
		} else if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
