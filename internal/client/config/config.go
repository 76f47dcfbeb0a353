package config

import "time"

// Config holds runtime settings for the PropMan CLI.
//
// Fields:
//   - ServerURL: base URL of the REST backend, without the /api suffix.
//   - TokenDBPath: SQLite file that keeps the bearer token between runs.
//   - RequestTimeout: upper bound for a single HTTP request.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL      string
	TokenDBPath    string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.TokenDBPath = "propman.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
