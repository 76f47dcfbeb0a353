// Package config loads runtime configuration for the PropMan CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend (e.g. http://127.0.0.1:8000)
//	-t string   path of the local token database
//	-r int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so "10s" and integer nanoseconds both work.
// Keys that are absent keep their earlier value:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "token_db_path": "propman.db",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
package config
