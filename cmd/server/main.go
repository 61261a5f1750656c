package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mlefebvre/enveloppe/internal/config"
	"github.com/mlefebvre/enveloppe/internal/middleware"
	"github.com/mlefebvre/enveloppe/internal/server"
	"github.com/mlefebvre/enveloppe/internal/service"
	"github.com/mlefebvre/enveloppe/internal/storage/sqlite"
	"github.com/mlefebvre/enveloppe/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	// Initialize SQLite storage (seeds the default snapshot on first run)
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	budget := service.NewBudgetService(store)
	mux := server.New(budget).Routes()

	// Metrics wraps the mux directly so it can resolve route patterns.
	handler := middleware.Logging(middleware.CORS(middleware.Metrics(mux)))

	// h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
