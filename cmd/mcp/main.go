// Package main provides the stdio MCP server entry point for minutes.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/minutes/internal/cache"
	"github.com/thebtf/minutes/internal/config"
	"github.com/thebtf/minutes/internal/dates"
	"github.com/thebtf/minutes/internal/mcp"
	"github.com/thebtf/minutes/internal/store"
	"github.com/thebtf/minutes/internal/tools"
	"github.com/thebtf/minutes/internal/watcher"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cachePath := flag.String("cache-path", "", "Meeting cache file (overrides settings)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// MCP uses stdout for communication, so log to stderr.
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	if err := config.EnsureAll(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure data directories")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = config.Default()
	}
	if *cachePath != "" {
		cfg.CachePath = *cachePath
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down MCP server")
		cancel()
	}()

	loc := cfg.Location()
	meetingStore := store.New(cache.NewParser(cfg.CachePath), loc)
	resolver := dates.NewResolver(loc)
	registry := tools.New(meetingStore, resolver, cfg.Lookback)

	startCacheWatcher(ctx, cfg.CachePath)

	server := mcp.NewServer(registry, Version)
	log.Info().
		Str("cache", cfg.CachePath).
		Str("timezone", cfg.Timezone).
		Str("version", Version).
		Msg("Starting MCP server")

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("MCP server error")
	}
}

// startCacheWatcher logs a refresh hint when the cache file changes.
// Reloading stays explicit through the refresh_cache tool.
func startCacheWatcher(ctx context.Context, path string) {
	w := watcher.New(path, func() {
		log.Info().Str("path", path).Msg("Cache file changed, call refresh_cache to reload")
	})
	if err := w.Start(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to start cache watcher")
	}
}
