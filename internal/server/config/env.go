package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded before the environment is read. Variables already set
// in the process environment win over the file.
var envFile = ".env"

// parseEnv overlays cfg with environment variables. A missing .env file is
// not an error; a malformed one or a non-numeric JWT_EXP_MINUTES panics.
//
//	ADDRESS          bind address
//	DATABASE_DSN     PostgreSQL DSN or mongodb:// URI
//	MONGO_URI        used when DATABASE_DSN is unset
//	JWT_SECRET       HMAC secret
//	JWT_EXP_MINUTES  token lifetime in minutes
//	CORS_ORIGINS     comma-separated origins
//	LOG_LEVEL        debug, info, warn or error
func parseEnv(cfg *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		cfg.Address = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		cfg.DatabaseDSN = v
	} else if v, ok := os.LookupEnv("MONGO_URI"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		cfg.SecretKey = v
	}
	if v, ok := os.LookupEnv("JWT_EXP_MINUTES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.TokenValidityDuration = time.Duration(n) * time.Minute
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
