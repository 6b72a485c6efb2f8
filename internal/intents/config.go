package intents

import (
	"os"
	"strconv"
)

// Config holds the remote intent-model settings. The remote path is
// disabled by default; the rule classifier carries the conversation alone.
type Config struct {
	Enabled             bool
	Endpoint            string
	TimeoutMs           int
	MaxRetries          int
	ConfidenceThreshold float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:             false,
		Endpoint:            "http://localhost:8600",
		TimeoutMs:           3000,
		MaxRetries:          1,
		ConfidenceThreshold: 0.80,
	}
}

// LoadConfig reads intent-model configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CONSULTOR_INTENTS_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CONSULTOR_INTENTS_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("CONSULTOR_INTENTS_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("CONSULTOR_INTENTS_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("CONSULTOR_INTENTS_CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.ConfidenceThreshold = f
		}
	}
	return cfg
}
