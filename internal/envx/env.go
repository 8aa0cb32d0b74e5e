// Package envx reads typed settings from the environment, optionally seeded
// from a dotenv file.
package envx

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load seeds the environment from the given dotenv files. Variables that are
// already set win. A missing file is not an error when it is the implicit
// ".env"; an explicitly named file must exist.
func Load(file string) error {
	if file == "" {
		_ = godotenv.Load(".env")
		return nil
	}
	return godotenv.Load(file)
}

func String(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func Int(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func Bool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

// Duration accepts Go duration syntax ("1m30s") or a plain number of seconds.
func Duration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(val); err == nil {
		return parsed
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
