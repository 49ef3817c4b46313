package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Admje14/auto-phrase-tokenfilter/internal/config"
	"github.com/Admje14/auto-phrase-tokenfilter/internal/phrases"
	"github.com/Admje14/auto-phrase-tokenfilter/internal/rewrite"
	"github.com/Admje14/auto-phrase-tokenfilter/internal/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(getEnv("AUTOPHRASE_LOG_LEVEL", "info")),
	}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if addr := os.Getenv("AUTOPHRASE_LISTEN"); addr != "" {
		cfg.Listen = addr
	}

	logger.Info("starting autophrase",
		"version", Version,
		"listen", cfg.Listen,
		"phrase_files", len(cfg.PhraseFiles),
		"config", *configPath,
	)

	filePhrases, err := phrases.LoadFiles(cfg.PhraseFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load phrase files: %v\n", err)
		os.Exit(1)
	}

	var store *phrases.Store
	if cfg.PhraseDB != "" {
		store, err = phrases.OpenStore(cfg.PhraseDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open phrase store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	handler, err := server.NewHandler(context.Background(), server.Options{
		FilePhrases:      filePhrases,
		Store:            store,
		CaseSensitive:    cfg.CaseSensitive,
		Separator:        cfg.Separator,
		EmitSingleTokens: cfg.EmitSingleTokens,
		Parsers:          rewrite.NewRegistry(),
		ParserName:       cfg.DownstreamParser,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize handler: %v\n", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	// Health check endpoint.
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"version": Version,
		})
	})

	// Readiness probe.
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "ready",
		})
	})

	// Root info endpoint.
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name":    "autophrase",
			"version": Version,
		})
	})

	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch level {
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
