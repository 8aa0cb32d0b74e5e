package config

import (
	"github.com/dmitrijs2005/matrimo/internal/envx"
	"github.com/dmitrijs2005/matrimo/internal/flagx"
)

// parseEnv overlays cfg with MATRIMO_* variables. A dotenv file named with
// -env must exist; ./.env is read when present.
func parseEnv(cfg *Config) {
	if err := envx.Load(flagx.EnvFileFlag()); err != nil {
		panic(err)
	}

	cfg.Transport = envx.String("MATRIMO_TRANSPORT", cfg.Transport)
	cfg.ServerEndpointAddr = envx.String("MATRIMO_SERVER_ADDR", cfg.ServerEndpointAddr)
	cfg.APIBaseURL = envx.String("MATRIMO_API_BASE_URL", cfg.APIBaseURL)
	cfg.RequestTimeout = envx.Duration("MATRIMO_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.OnlineCheckInterval = envx.Duration("MATRIMO_ONLINE_CHECK_INTERVAL", cfg.OnlineCheckInterval)
	cfg.DataDir = envx.String("MATRIMO_DATA_DIR", cfg.DataDir)
	cfg.DatabaseFile = envx.String("MATRIMO_DATABASE_FILE", cfg.DatabaseFile)
	cfg.StorageSecret = envx.String("MATRIMO_STORAGE_SECRET", cfg.StorageSecret)
	cfg.LogLevel = envx.String("MATRIMO_LOG_LEVEL", cfg.LogLevel)
	cfg.LogBackend = envx.String("MATRIMO_LOG_BACKEND", cfg.LogBackend)
}
