// Package config handles configuration for the auth server: defaults, a
// JSON overlay, MATRIMO_SERVER_* environment variables and command-line
// flags, applied in that order.
package config

import (
	"time"

	"github.com/dmitrijs2005/matrimo/internal/logging"
)

// Config holds runtime settings for the auth server.
//
// Fields:
//   - EndpointAddrGRPC / EndpointAddrHTTP: bind addresses; an empty HTTP
//     address disables the REST API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps all data in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - ResetCodeValidityDuration: lifetime of a password-reset code.
type Config struct {
	EndpointAddrGRPC             string
	EndpointAddrHTTP             string
	DatabaseDSN                  string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	ResetCodeValidityDuration    time.Duration
	LogLevel                     string
	LogBackend                   string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.ResetCodeValidityDuration = 10 * time.Minute
	c.LogLevel = "info"
	c.LogBackend = logging.BackendZap
}

// LoadConfig builds a Config from defaults, an optional JSON file, the
// environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
