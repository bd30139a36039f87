package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// PoolProfile sizes the database connection pool for a deployment tier.
type PoolProfile struct {
	BaseSize       int32
	MaxOverflow    int32
	AcquireTimeout time.Duration
	RecycleAge     time.Duration
	PrePing        bool
	AppName        string
}

// MaxConns is the hard ceiling: base plus overflow.
func (p PoolProfile) MaxConns() int32 {
	return p.BaseSize + p.MaxOverflow
}

// PoolProfileFor returns the pool sizing for the given environment name.
// Unknown environments get the development profile.
func PoolProfileFor(appEnv string) PoolProfile {
	switch appEnv {
	case "production":
		return PoolProfile{
			BaseSize:       20,
			MaxOverflow:    30,
			AcquireTimeout: 60 * time.Second,
			RecycleAge:     time.Hour,
			PrePing:        true,
			AppName:        "MusicGenie-Production",
		}
	case "staging":
		return PoolProfile{
			BaseSize:       10,
			MaxOverflow:    20,
			AcquireTimeout: 30 * time.Second,
			RecycleAge:     30 * time.Minute,
			PrePing:        true,
			AppName:        "MusicGenie-Staging",
		}
	default:
		return PoolProfile{
			BaseSize:       5,
			MaxOverflow:    10,
			AcquireTimeout: 30 * time.Second,
			RecycleAge:     30 * time.Minute,
			PrePing:        true,
			AppName:        "MusicGenie-Development",
		}
	}
}

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv          string
	DatabaseURL     string
	AudioDir        string
	AudioURLPrefix  string
	MetricsInterval time.Duration
	HealthInterval  time.Duration
	Pool            PoolProfile
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	appEnv := getEnv("APP_ENV", "development")

	cfg := &Config{
		AppEnv:          appEnv,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AudioDir:        getEnv("AUDIO_DIR", "generated_audio"),
		AudioURLPrefix:  getEnv("AUDIO_URL_PREFIX", "/audio"),
		MetricsInterval: time.Second * time.Duration(getEnvInt("METRICS_INTERVAL_SECONDS", 60)),
		HealthInterval:  time.Second * time.Duration(getEnvInt("HEALTH_INTERVAL_SECONDS", 300)),
		Pool:            PoolProfileFor(appEnv),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
