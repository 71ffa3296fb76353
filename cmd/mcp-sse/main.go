// Package main provides the HTTP MCP server entry point for minutes,
// serving the SSE and Streamable HTTP transports.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
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
	port := flag.Int("port", 0, "HTTP port (overrides settings)")
	cachePath := flag.String("cache-path", "", "Meeting cache file (overrides settings)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

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

	listenPort := cfg.SSEPort
	if envPort := os.Getenv("MINUTES_SSE_PORT"); envPort != "" {
		if parsed, err := strconv.Atoi(envPort); err == nil && parsed > 0 {
			listenPort = parsed
		}
	}
	if *port > 0 {
		listenPort = *port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down MCP SSE server")
		cancel()
	}()

	loc := cfg.Location()
	meetingStore := store.New(cache.NewParser(cfg.CachePath), loc)
	resolver := dates.NewResolver(loc)
	registry := tools.New(meetingStore, resolver, cfg.Lookback)

	startCacheWatcher(ctx, cfg.CachePath)

	server := mcp.NewServer(registry, Version)
	sseHandler := mcp.NewSSEHandler(server)
	streamableHandler := mcp.NewStreamableHandler(server)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Handle("/sse", sseHandler)
	r.Handle("/message", sseHandler)
	r.Handle("/mcp", streamableHandler)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","version":%q}`, Version)
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", listenPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	httpErrCh := make(chan error, 1)
	go func() {
		httpErrCh <- httpServer.ListenAndServe()
	}()

	log.Info().
		Int("port", listenPort).
		Str("cache", cfg.CachePath).
		Str("version", Version).
		Msg("Starting MCP SSE server")

	select {
	case err := <-httpErrCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("MCP SSE server error")
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("MCP SSE server shutdown failed")
		}
		sseHandler.Close()
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
