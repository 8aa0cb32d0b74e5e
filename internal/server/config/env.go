package config

import (
	"github.com/dmitrijs2005/matrimo/internal/envx"
	"github.com/dmitrijs2005/matrimo/internal/flagx"
)

// parseEnv overlays config with MATRIMO_SERVER_* variables, after loading
// the dotenv file named by -env (or ./.env when present).
func parseEnv(config *Config) {
	if err := envx.Load(flagx.EnvFileFlag()); err != nil {
		panic(err)
	}

	config.EndpointAddrGRPC = envx.String("MATRIMO_SERVER_GRPC_ADDR", config.EndpointAddrGRPC)
	config.EndpointAddrHTTP = envx.String("MATRIMO_SERVER_HTTP_ADDR", config.EndpointAddrHTTP)
	config.DatabaseDSN = envx.String("MATRIMO_SERVER_DATABASE_DSN", config.DatabaseDSN)
	config.SecretKey = envx.String("MATRIMO_SERVER_SECRET_KEY", config.SecretKey)
	config.AccessTokenValidityDuration = envx.Duration("MATRIMO_SERVER_ACCESS_TOKEN_TTL", config.AccessTokenValidityDuration)
	config.RefreshTokenValidityDuration = envx.Duration("MATRIMO_SERVER_REFRESH_TOKEN_TTL", config.RefreshTokenValidityDuration)
	config.ResetCodeValidityDuration = envx.Duration("MATRIMO_SERVER_RESET_CODE_TTL", config.ResetCodeValidityDuration)
	config.LogLevel = envx.String("MATRIMO_SERVER_LOG_LEVEL", config.LogLevel)
	config.LogBackend = envx.String("MATRIMO_SERVER_LOG_BACKEND", config.LogBackend)
}
