package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/matrimo/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   gRPC server address
//	-u string   REST base URL
//	-t string   transport, "grpc" or "http"
//	-d string   data directory
//	-l string   log level
//	-i int      online check interval in seconds
//
// Only these flags are taken from os.Args, see flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-t", "-d", "-l", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the gRPC server")
	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "base URL of the REST API")
	fs.StringVar(&cfg.Transport, "t", cfg.Transport, "transport: grpc or http")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory for local session data")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
