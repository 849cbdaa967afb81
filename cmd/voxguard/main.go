package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"voxguard/internal/config"
	"voxguard/internal/interfaces"
	"voxguard/internal/llm"
	"voxguard/internal/llm/providers"
	"voxguard/internal/logging"
	"voxguard/internal/metrics"
	"voxguard/internal/net"
	"voxguard/internal/server"
)

// main is the entry point for the VoxGuard gateway.
// It handles command-line flags, loads configuration, and manages the server lifecycle.
func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to the YAML configuration file (default "+config.DefaultConfigPath+", optional)")
	checkConfig := flag.Bool("check-config", false, "Validate the configuration and exit")
	flag.Parse()

	// A .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize console logging
	logging.InitializeLogging(cfg.Logging.LogLevel)
	logging.ReplaceStandardLogger()

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		logging.Fatal("Invalid configuration: %v", err)
	}

	if *checkConfig {
		logging.Info("Configuration OK: listening on %s, model %s", cfg.Addr(), cfg.Provider.Model)
		return
	}

	if err := run(cfg, config.ResolvePath(*configPath)); err != nil {
		logging.Fatal("Server failed: %v", err)
	}
}

// run wires the gateway together and blocks until a shutdown signal arrives
func run(cfg *config.Config, configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	analyzer, err := newAnalyzer(ctx, cfg, m)
	if err != nil {
		return err
	}

	srv := server.New(cfg, analyzer, m, registry)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.ListenAndServe)

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if _, err := os.Stat(configPath); err == nil {
		watcher, err := config.NewWatcher(configPath, func(next *config.Config) {
			reloaded, err := newAnalyzer(gctx, next, m)
			if err != nil {
				logging.Error("Config reload rejected: %v", err)
				return
			}
			srv.Reload(next, reloaded)
			logging.SetLevel(next.Logging.LogLevel)
			logging.Info("Configuration reloaded from %s (model %s)", configPath, next.Provider.Model)
		})
		if err != nil {
			logging.Warn("Config hot reload disabled: %v", err)
		} else {
			g.Go(func() error { return watcher.Run(gctx) })
		}
	}

	logging.Info("VoxGuard is now running. Press CTRL-C to exit.")
	return g.Wait()
}

// newAnalyzer builds the provider client and analyzer for cfg
func newAnalyzer(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (interfaces.Analyzer, error) {
	httpClient := net.NewOptimizedClient(cfg.GetProviderTimeout())

	provider, err := providers.NewGeminiProvider(ctx, cfg, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return llm.NewAnalyzer(cfg, provider, m), nil
}
