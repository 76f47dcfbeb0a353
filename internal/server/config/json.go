package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/propman/internal/flagx"
	"github.com/dmitrijs2005/propman/internal/timex"
)

// JsonConfig is a DTO used only for reading the JSON file. Pointer fields
// tell "absent" apart from "empty"; durations accept "90m" or nanoseconds.
type JsonConfig struct {
	Address               *string         `json:"address"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	CORSOrigins           []string        `json:"cors_origins"`
	LogLevel              *string         `json:"log_level"`
	ShutdownTimeout       *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays cfg with the JSON file named by -c/-config, if any.
// It panics on read or decode errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Address != nil {
		cfg.Address = *jc.Address
	}
	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.SecretKey != nil {
		cfg.SecretKey = *jc.SecretKey
	}
	if jc.TokenValidityDuration != nil {
		cfg.TokenValidityDuration = jc.TokenValidityDuration.Duration
	}
	if jc.CORSOrigins != nil {
		cfg.CORSOrigins = jc.CORSOrigins
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
}
