// Package main provides the HTTP server exposing content collections to
// the site's rendering layer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"fortunesite/internal/config"
	"fortunesite/internal/content"
	"fortunesite/internal/logger"
	"fortunesite/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	addr := flag.String("addr", "", "Listen address (overrides config)")

	flag.Parse()

	loaded := config.LoadDotEnv()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log.Info("configuration loaded", "config", cfg.String(), "dotenv", loaded)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mode := cfg.ModeSource()

	if file, ok := mode.(config.ModeFile); ok {
		watcher, err := config.WatchModeFile(ctx, file, log)
		if err != nil {
			log.Warn("mode file not watched, reading it per request", "error", err)
		} else {
			defer func() { _ = watcher.Close() }()

			mode = watcher
		}
	}

	agg, err := content.FromConfigWithMode(cfg, mode, log, content.NewMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		log.Error("failed to build aggregator", "error", err)
		return 1
	}

	srv := server.New(server.Options{
		Content:         agg,
		Logger:          log,
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownGrace(),
	})

	if err := srv.Run(ctx); err != nil {
		log.Error("server exited", "error", err)
		return 1
	}

	return 0
}
