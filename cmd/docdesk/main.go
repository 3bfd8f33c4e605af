package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/docdesk/docdesk/pkg/model"
	"github.com/docdesk/docdesk/pkg/model/gemini"
	"github.com/docdesk/docdesk/pkg/prompt"
	"github.com/docdesk/docdesk/pkg/server"
	"github.com/joho/godotenv"
)

func main() {
	// Setup logger.
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
	slog.SetDefault(logger)

	// Optional .env file for local development.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded .env file")
	}

	ctx := context.Background()

	// A missing credential is a startup warning, not a startup failure:
	// /api/ask reports the configuration error per request.
	var provider model.Provider
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		p, err := gemini.New(ctx, apiKey)
		if err != nil {
			slog.Error("Failed to initialize Gemini provider", "error", err)
			os.Exit(1)
		}
		provider = p
	} else {
		slog.Warn("GEMINI_API_KEY is not set; /api/ask will fail until it is configured")
	}

	srv := server.New(provider, server.Config{
		ModelName:       envOr("GEMINI_MODEL", "gemini-3-pro-preview"),
		MaxContextChars: envInt("MAX_CONTEXT_CHARS", prompt.DefaultMaxContextChars),
		AllowedOrigin:   envOr("ALLOWED_ORIGIN", "http://localhost:5173"),
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	addr := ":" + envOr("PORT", "3001")
	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}
