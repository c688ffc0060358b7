package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/primex-finance/price-oracle-go/pkg/config"
	"github.com/primex-finance/price-oracle-go/pkg/logging"
	"github.com/primex-finance/price-oracle-go/pkg/metrics"
	"github.com/primex-finance/price-oracle-go/pkg/oracle"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/pricedrop"
	"github.com/primex-finance/price-oracle-go/pkg/oracle/registry"
	"github.com/primex-finance/price-oracle-go/pkg/server"
	"github.com/primex-finance/price-oracle-go/pkg/server/api"
	"github.com/primex-finance/price-oracle-go/pkg/server/feedstore"
	"github.com/primex-finance/price-oracle-go/pkg/version"
)

var (
	configFile = flag.String("config", "config/config.yaml", "Path to configuration file")
	showVer    = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("price-oracle version %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting price oracle", "version", version.Version)

	store := feedstore.New(logger.With("component", "feedstore"))
	reg := registry.New(logger.With("component", "registry"))
	if err := server.Bootstrap(cfg, reg, store); err != nil {
		logger.Fatal("Failed to bootstrap registrations", "error", err.Error())
	}

	engine := oracle.New(reg, logger.With("component", "oracle"))
	guard := pricedrop.New(reg, logger.With("component", "pricedrop"))

	if cfg.Metrics.Enabled {
		go func() {
			logger.Info("Starting metrics server", "addr", cfg.Metrics.Addr, "path", cfg.Metrics.Path)
			if err := metrics.Serve(cfg.Metrics.Addr, cfg.Metrics.Path); err != nil {
				logger.Error("Metrics server stopped", "error", err.Error())
			}
		}()
	}

	apiServer := api.NewServer(cfg.Server.Addr, cfg.Server.AdminToken, engine, guard, reg, store, logger.With("component", "api"))
	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received signal, shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("API server stopped", "error", err.Error())
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Stop(ctx); err != nil {
		logger.Error("Failed to stop API server", "error", err.Error())
	}
	logger.Info("Shutdown complete")
}
