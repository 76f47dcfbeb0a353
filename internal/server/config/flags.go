package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/propman/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-o string   comma-separated CORS origins
//	-l string   log level
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Address, "a", cfg.Address, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	validity := fs.Int("t", int(cfg.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")
	origins := fs.String("o", strings.Join(cfg.CORSOrigins, ","), "allowed CORS origins")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenValidityDuration = time.Duration(*validity) * time.Minute
	cfg.CORSOrigins = splitList(*origins)
}
