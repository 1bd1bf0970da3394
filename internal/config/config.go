package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	ModeHosted   = "hosted"
	ModePostgres = "postgres"
)

type Config struct {
	Env    string
	Port   string
	Origin string // CORS

	// ProviderMode selects the identity+storage backend: "hosted" talks to
	// the hosted provider's REST API, "postgres" runs self-contained.
	ProviderMode string

	// hosted mode
	ProviderURL string
	ProviderKey string

	// postgres mode
	DBURL         string
	SessionSecret string
	SessionTTL    time.Duration
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() Config {
	return Config{
		Env:           env("APP_ENV", "dev"),
		Port:          env("PORT", "3001"),
		Origin:        env("CORS_ORIGIN", "http://localhost:3000"),
		ProviderMode:  env("PROVIDER_MODE", ModeHosted),
		ProviderURL:   os.Getenv("PROVIDER_URL"),
		ProviderKey:   os.Getenv("PROVIDER_KEY"),
		DBURL:         os.Getenv("DB_DSN"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    envDuration("SESSION_TTL", 24*time.Hour),
	}
}

// Validate fails fast on settings the selected provider mode cannot run
// without.
func (c Config) Validate() error {
	switch c.ProviderMode {
	case ModeHosted:
		if c.ProviderURL == "" || c.ProviderKey == "" {
			return errors.New("PROVIDER_URL and PROVIDER_KEY are required in hosted mode")
		}
	case ModePostgres:
		if c.DBURL == "" {
			return errors.New("DB_DSN is required in postgres mode")
		}
		if c.SessionSecret == "" {
			return errors.New("SESSION_SECRET is required in postgres mode")
		}
	default:
		return fmt.Errorf("unknown PROVIDER_MODE %q", c.ProviderMode)
	}
	return nil
}
