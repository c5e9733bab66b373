// CLAUDE:SUMMARY syllabusd: HTTP upload API and MCP server over the syllabus parsing engine, backed by SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/syllabus/ingest"
	"github.com/hazyhaar/syllabus/shield"
	"github.com/hazyhaar/syllabus/syllabus"
)

var version = "dev"

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	mcpStdio := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	if err := run(*cfgPath, *mcpStdio); err != nil {
		slog.Error("syllabusd", "error", err)
		os.Exit(1)
	}
}

func run(cfgPath string, mcpStdio bool) error {
	cfg := ingest.DefaultConfig()
	if cfgPath != "" {
		var err error
		if cfg, err = ingest.LoadConfig(cfgPath); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// stdout carries the MCP transport in stdio mode.
	var logOut io.Writer = os.Stdout
	if mcpStdio {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	scfg := cfg.SyllabusConfig()
	scfg.Logger = logger
	eng := syllabus.New(scfg)

	mcpSrv := mcp.NewServer(&mcp.Implementation{Name: "syllabusd", Version: version}, nil)
	eng.RegisterMCP(mcpSrv, cfg.MaxFileBytes())

	if mcpStdio {
		slog.Info("mcp stdio server starting", "version", version)
		if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			return fmt.Errorf("mcp: %w", err)
		}
		return nil
	}

	store, err := ingest.OpenStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer store.Close()

	if err := shield.Init(store.DB()); err != nil {
		return fmt.Errorf("shield schema: %w", err)
	}
	rl := shield.NewRateLimiter(store.DB())
	if cfg.UploadsPerMinute > 0 {
		if err := rl.SetRule(ctx, "POST /api/syllabi", cfg.UploadsPerMinute, time.Minute); err != nil {
			return err
		}
	}
	rl.StartReloader(ctx)

	ing := ingest.NewIngester(store, eng,
		ingest.WithLogger(logger),
		ingest.WithMaxBytes(cfg.MaxFileBytes()),
		ingest.WithInstitution(cfg.Institution),
	)

	r := chi.NewRouter()
	for _, mw := range shield.APIStack(rl, cfg.MaxFileBytes()) {
		r.Use(mw)
	}
	ing.Routes(r)
	r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return mcpSrv }, nil))

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("server starting", "listen", cfg.Listen, "db", cfg.DBPath, "max_file_mb", cfg.MaxFileMB, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
	return nil
}

// applyEnv lets the container environment override the file.
func applyEnv(cfg *ingest.Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}
	cfg.Listen = env("SYLLABUSD_LISTEN", cfg.Listen)
	cfg.DBPath = env("SYLLABUSD_DB", cfg.DBPath)
	cfg.Institution = env("SYLLABUSD_INSTITUTION", cfg.Institution)
	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
