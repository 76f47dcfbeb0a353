package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/propman/internal/flagx"
	"github.com/dmitrijs2005/propman/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell "absent" apart from "empty".
type JsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	TokenDBPath    *string         `json:"token_db_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       *string         `json:"log_level"`
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

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.TokenDBPath != nil {
		cfg.TokenDBPath = *jc.TokenDBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
