package config

import (
	"os"
	"strconv"
)

// Config holds application settings (in-memory representation).
// Values come from Default() with BEAMCUT_* environment overrides applied
// by FromEnv; there is no settings persistence.
type Config struct {
	Host string `json:"host"`
	Port int    `json:"port"`

	// Column-generation controls.
	MaxIterations int `json:"max_iterations"` // pricing-loop cap per solve

	// Branch-and-bound node budget for a single integer solve.
	NodeLimit int `json:"node_limit"`

	// Server-mode solve history retention (rows kept in SQLite).
	HistoryLimit int `json:"history_limit"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Host:          "127.0.0.1",
		Port:          13380,
		MaxIterations: 50,
		NodeLimit:     20000,
		HistoryLimit:  500,
	}
}

// FromEnv returns the default Config with any BEAMCUT_* environment
// variables applied on top. Malformed numeric values are ignored.
func FromEnv() *Config {
	cfg := Default()
	if v := os.Getenv("BEAMCUT_HOST"); v != "" {
		cfg.Host = v
	}
	applyInt("BEAMCUT_PORT", &cfg.Port)
	applyInt("BEAMCUT_MAX_ITERATIONS", &cfg.MaxIterations)
	applyInt("BEAMCUT_NODE_LIMIT", &cfg.NodeLimit)
	applyInt("BEAMCUT_HISTORY_LIMIT", &cfg.HistoryLimit)
	return cfg
}

func applyInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	*dst = n
}
