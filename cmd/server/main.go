package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/snapsplit/snapsplit/internal/auth"
	"github.com/snapsplit/snapsplit/internal/config"
	"github.com/snapsplit/snapsplit/internal/extractor/gemini"
	"github.com/snapsplit/snapsplit/internal/metrics"
	"github.com/snapsplit/snapsplit/internal/server"
	"github.com/snapsplit/snapsplit/internal/service"
	"github.com/snapsplit/snapsplit/internal/storage/sqlite"
	"github.com/snapsplit/snapsplit/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.Storage.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Storage.DBPath)

	extractorClient := gemini.NewClient(gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		BaseURL:     cfg.Gemini.BaseURL,
		Temperature: cfg.Gemini.Temperature,
		Timeout:     cfg.Gemini.Timeout,
	}, slog.Default())

	m := metrics.New()
	tokens := auth.NewShareTokens(cfg.Auth.ShareSecret)

	receipts := service.NewReceiptService(extractorClient, m)
	splits := service.NewSplitService(store, tokens, m, cfg.Server.BaseURL)

	srv := server.New(receipts, splits, m, cfg.Auth.APIKey, tokens)

	// h2c allows HTTP/2 without TLS when this sits behind a proxy.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	slog.Info("Server starting", "address", cfg.Server.Addr, "base_url", cfg.Server.BaseURL)
	if err := http.ListenAndServe(cfg.Server.Addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
