package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zawodev/zawomons/internal/api"
	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/logging"
	"github.com/zawodev/zawomons/internal/remote"
	"github.com/zawodev/zawomons/internal/service"
	"github.com/zawodev/zawomons/internal/storage"
	"github.com/zawodev/zawomons/internal/version"
)

func main() {
	defer logging.Sync()

	cfg := loadEnvOrExit()
	catalogFile := loadCatalogOrExit(cfg.CatalogPath)
	catalog := createCatalogOrExit(cfg.DBPath, catalogFile)
	battles := storage.NewMemoryBattles()

	// Remote battles are mirrored to websocket subscribers after the
	// configured latency. Local battles never see the hub.
	hub := remote.NewHub()
	port := remote.NewDelayed(hub, cfg.RemoteLatency)

	handler := api.NewBattleHandler(battles, catalog, hub, port, service.Settings{
		MaxPartySize:     cfg.MaxPartySize,
		CommitHold:       cfg.CommitHold,
		SelectionTimeout: cfg.SelectionTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startBattleScanner(ctx, battles, hub, cfg.FinishedTTL)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{Addr: cfg.Addr, Handler: api.NewRouter(handler)}

	go func() {
		logging.Info("Server started", logging.Fields{
			constants.LogFieldAddr: cfg.Addr,
			"version":              version.String(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to start server", err, nil)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", err, nil)
	}
	port.Wait()
}
