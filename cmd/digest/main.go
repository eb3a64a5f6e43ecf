package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Roofsimple/tech-custom-rss-feed/internal/di"
	digestService "github.com/Roofsimple/tech-custom-rss-feed/internal/modules/digest/service"
	feedService "github.com/Roofsimple/tech-custom-rss-feed/internal/modules/feed/service"
	renderService "github.com/Roofsimple/tech-custom-rss-feed/internal/modules/render/service"
	"github.com/Roofsimple/tech-custom-rss-feed/internal/shared/config"
	httpServer "github.com/Roofsimple/tech-custom-rss-feed/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

func main() {
	configPath := flag.String("config", "", "path to the feeds config file (discovered in the working directory when empty)")
	serve := flag.Bool("serve", false, "serve the rendered output for local preview after generating")
	flag.Parse()

	// Setup structured logging with multiple handlers using slog-multi
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	// Use Fanout to send logs to both handlers
	multiHandler := slogmulti.Fanout(textHandler, jsonHandler)
	logger := slog.New(multiHandler)
	slog.SetDefault(logger)

	// Setup dependency injection
	injector, err := di.Setup(*configPath)
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}

	// Get services from DI container
	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	fetcher := do.MustInvoke[*feedService.Service](injector)
	aggregator := do.MustInvoke[*digestService.Service](injector)
	renderer := do.MustInvoke[*renderService.Service](injector)

	// Run the pipeline once: fetch, aggregate, render. Feed failures are
	// skipped inside FetchAll; only config and render errors are fatal.
	ctx := context.Background()
	articles := fetcher.FetchAll(ctx)
	digest := aggregator.Build(articles, time.Now())

	if err := renderer.WriteDigest(digest); err != nil {
		slog.Error("Failed to write digest", "error", err)
		os.Exit(1)
	}

	if !*serve {
		return
	}

	// Local preview mode
	server := do.MustInvoke[*httpServer.Server](injector)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Failed to start preview server", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Preview started", "port", cfg.Settings.PreviewPort)
	slog.Info("Press Ctrl+C to stop")

	// Graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	<-shutdownCtx.Done()
	slog.Info("Shutting down...")
}
