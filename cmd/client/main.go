package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dmitrijs2005/matrimo/internal/buildinfo"
	"github.com/dmitrijs2005/matrimo/internal/client/cli"
	"github.com/dmitrijs2005/matrimo/internal/client/client"
	"github.com/dmitrijs2005/matrimo/internal/client/config"
	"github.com/dmitrijs2005/matrimo/internal/client/session"
	"github.com/dmitrijs2005/matrimo/internal/client/storage"
	"github.com/dmitrijs2005/matrimo/internal/filex"
	"github.com/dmitrijs2005/matrimo/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.LoadConfig()); err != nil {
		log.Fatalf("%v", err)
	}
}

func newClient(cfg *config.Config) (client.Client, error) {
	switch cfg.Transport {
	case config.TransportHTTP:
		return client.NewHTTPClient(cfg.APIBaseURL, client.WithRequestTimeout(cfg.RequestTimeout)), nil
	case config.TransportGRPC:
		return client.NewGRPCClient(cfg.ServerEndpointAddr)
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(cfg.LogBackend, os.Stderr, cfg.LogLevel)
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer z.Sync()
	}

	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	c, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	mgr := session.New(c, storage.New(db, []byte(cfg.StorageSecret)), logger)
	defer mgr.Close()

	ctx = session.NewContext(ctx, mgr)

	app, err := cli.NewAppFromContext(ctx, c, logger, cli.Options{
		RequestTimeout:      cfg.RequestTimeout,
		OnlineCheckInterval: cfg.OnlineCheckInterval,
	}, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	app.Run(ctx)

	return nil
}
