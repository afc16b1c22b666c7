package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Config aggregates everything the server needs at startup. Secrets and
// deployment-specific URLs come from the environment; tunables may optionally
// be overridden by a config.yaml next to the binary.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	FrontendURL string
	NLPBaseURL  string

	DB        DBConfig
	NLP       NLPConfig
	RateLimit RateLimitConfig
	Tokens    TokenConfig
}

type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type NLPConfig struct {
	Timeout time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type TokenConfig struct {
	IdentityTTL time.Duration
	ChatTTL     time.Duration
	SessionTTL  time.Duration
}

// fileConfig is the config.yaml shape. Durations are plain integers with the
// unit in the field name; zero means "keep the default".
type fileConfig struct {
	DB struct {
		MaxOpenConns        int `yaml:"max_open_conns"`
		MaxIdleConns        int `yaml:"max_idle_conns"`
		ConnMaxLifetimeMins int `yaml:"conn_max_lifetime_minutes"`
	} `yaml:"db"`
	NLP struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"nlp"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	Tokens struct {
		IdentityTTLHours int `yaml:"identity_ttl_hours"`
		ChatTTLMinutes   int `yaml:"chat_ttl_minutes"`
		SessionTTLHours  int `yaml:"session_ttl_hours"`
	} `yaml:"tokens"`
}

// Load reads config.yaml if present, then applies environment variables.
// JWT_SECRET and DATABASE_URL are required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		DB:        DBConfig{MaxOpenConns: 20, MaxIdleConns: 20, ConnMaxLifetime: 30 * time.Minute},
		NLP:       NLPConfig{Timeout: 30 * time.Second},
		RateLimit: RateLimitConfig{RPS: 5, Burst: 10},
		Tokens: TokenConfig{
			IdentityTTL: 24 * time.Hour,
			ChatTTL:     15 * time.Minute,
			SessionTTL:  24 * time.Hour,
		},
	}

	if raw, err := os.ReadFile("config.yaml"); err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return nil, fmt.Errorf("parse config.yaml: %w", err)
		}
		applyFile(cfg, fc)
	}

	cfg.Port = envOr("PORT", "5050")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.FrontendURL = os.Getenv("FRONTEND_URL")
	cfg.NLPBaseURL = envOr("NLP_SERVICE_URL", "http://localhost:8000")

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	return cfg, nil
}

func applyFile(cfg *Config, fc fileConfig) {
	if fc.DB.MaxOpenConns > 0 {
		cfg.DB.MaxOpenConns = fc.DB.MaxOpenConns
	}
	if fc.DB.MaxIdleConns > 0 {
		cfg.DB.MaxIdleConns = fc.DB.MaxIdleConns
	}
	if fc.DB.ConnMaxLifetimeMins > 0 {
		cfg.DB.ConnMaxLifetime = time.Duration(fc.DB.ConnMaxLifetimeMins) * time.Minute
	}
	if fc.NLP.TimeoutSeconds > 0 {
		cfg.NLP.Timeout = time.Duration(fc.NLP.TimeoutSeconds) * time.Second
	}
	if fc.RateLimit.RPS > 0 {
		cfg.RateLimit.RPS = fc.RateLimit.RPS
	}
	if fc.RateLimit.Burst > 0 {
		cfg.RateLimit.Burst = fc.RateLimit.Burst
	}
	if fc.Tokens.IdentityTTLHours > 0 {
		cfg.Tokens.IdentityTTL = time.Duration(fc.Tokens.IdentityTTLHours) * time.Hour
	}
	if fc.Tokens.ChatTTLMinutes > 0 {
		cfg.Tokens.ChatTTL = time.Duration(fc.Tokens.ChatTTLMinutes) * time.Minute
	}
	if fc.Tokens.SessionTTLHours > 0 {
		cfg.Tokens.SessionTTL = time.Duration(fc.Tokens.SessionTTLHours) * time.Hour
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
