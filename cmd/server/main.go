package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/tendermatch/internal/api"
	"github.com/dgallion1/tendermatch/internal/catalog"
	"github.com/dgallion1/tendermatch/internal/config"
	"github.com/dgallion1/tendermatch/internal/metrics"
	"github.com/dgallion1/tendermatch/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "_CONFIG"))
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(true); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Warn("unknown log level, using info", "log_level", cfg.LogLevel)
		level = slog.LevelInfo
	}
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mx := metrics.New()

	// Initialize matcher. Loading the gse dictionary takes a few seconds.
	start := time.Now()
	matcher, err := pipeline.NewMatcher(cfg, log)
	if err != nil {
		log.Error("init matcher", "error", err)
		os.Exit(1)
	}
	cat := matcher.Catalogs.Current()
	log.Info("matcher ready",
		"catalog", cat.Name,
		"catalog_version", cat.Version,
		"targets", len(cat.Targets),
		"segmenter", cfg.Segmenter,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if cfg.CatalogPath != "" && cfg.WatchCatalog {
		matcher.Catalogs.OnReload = func(*catalog.Catalog) { mx.CatalogReloaded() }
		if err := matcher.Catalogs.Watch(ctx, cfg.CatalogPath, log); err != nil {
			log.Warn("catalog hot reload disabled", "error", err)
		}
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, matcher, mx, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, mx, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}

		orch.Stop()
		cancel()
	}()

	log.Info("starting tendermatch", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
}
