package api

import (
	"github.com/zawodev/zawomons/internal/remote"
	"github.com/zawodev/zawomons/internal/service"
	"github.com/zawodev/zawomons/internal/storage"
)

// BattleHandler groups all battle and catalog HTTP handlers.
type BattleHandler struct {
	battles  storage.BattleRepository
	catalog  storage.CatalogRepository
	hub      *remote.Hub
	port     remote.Port
	settings service.Settings
}

// NewBattleHandler creates a handler. Remote battles notify port; hub serves
// the websocket subscriptions port eventually delivers to.
func NewBattleHandler(battles storage.BattleRepository, catalog storage.CatalogRepository, hub *remote.Hub, port remote.Port, settings service.Settings) *BattleHandler {
	if port == nil && hub != nil {
		port = hub
	}
	return &BattleHandler{battles: battles, catalog: catalog, hub: hub, port: port, settings: settings}
}
