package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hanamikoji/api"
	"hanamikoji/config"
	"hanamikoji/geisha"
	"hanamikoji/registry"
	"hanamikoji/storage"
	"hanamikoji/telemetry"
	"hanamikoji/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found; using environment variables.")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, "hanamikoji-server", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("telemetry setup failed: %v", err)
	}
	defer providers.Shutdown(context.Background())
	logger := providers.Logger

	logger.Info("configuration loaded", "tag", "main",
		"geishaSet", cfg.GeishaSet, "roomTTLSeconds", cfg.RoomTTLSeconds, "wsPort", cfg.WSPort)

	var snap storage.SnapshotStore
	store, err := storage.NewStore(ctx, cfg.SnapshotDatabaseURL)
	if err != nil {
		logger.Error("snapshot store setup failed, persistence disabled", "tag", "main", "err", err)
		snap = storage.NoopStore{}
	} else if store == nil {
		snap = storage.NoopStore{}
	} else {
		snap = store
		defer store.Close()
		go sweepExpiredSnapshots(ctx, store, logger)
	}

	catalog := geisha.NewRegistry()
	geisha.RegisterDefaults(catalog)
	reg := registry.NewRegistry(ctx, cfg, catalog, snap, logger)

	hub := ws.NewHub(cfg, reg, logger)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.Handle("/health", api.HealthHandler(cfg))

	handler := api.CORS(cfg, mux)

	addr := fmt.Sprintf(":%d", cfg.WSPort)
	server := &http.Server{Addr: addr, Handler: handler}

	go func() {
		logger.Info("server listening", "tag", "main", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "tag", "main", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received", "tag", "main")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

// sweepExpiredSnapshots periodically clears stale room snapshots so a
// crashed-and-never-rejoined room doesn't linger in storage past its TTL.
func sweepExpiredSnapshots(ctx context.Context, store *storage.Store, logger *slog.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.SweepExpired(ctx)
			if err != nil {
				logger.Error("snapshot sweep failed", "tag", "main", "err", err)
				continue
			}
			if n > 0 {
				logger.Info("swept expired snapshots", "tag", "main", "count", n)
			}
		}
	}
}
