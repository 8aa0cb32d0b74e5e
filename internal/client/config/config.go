package config

import (
	"time"

	"github.com/dmitrijs2005/matrimo/internal/logging"
)

// Transports accepted in Config.Transport.
const (
	TransportGRPC = "grpc"
	TransportHTTP = "http"
)

// Config holds runtime settings for the matrimo console.
type Config struct {
	Transport           string
	ServerEndpointAddr  string
	APIBaseURL          string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration

	DataDir       string
	DatabaseFile  string
	StorageSecret string

	LogLevel   string
	LogBackend string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Transport = TransportGRPC
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 30 * time.Second

	c.DataDir = ".matrimo"
	c.DatabaseFile = "session.db"
	c.StorageSecret = "matrimo-local-secret"

	c.LogLevel = "warn"
	c.LogBackend = logging.BackendSlog
}

// LoadConfig applies defaults, then a JSON file (-c/-config), then the
// environment (MATRIMO_*, optionally seeded from -env or ./.env), then flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
