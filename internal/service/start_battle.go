package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/lifecycle"
	"github.com/zawodev/zawomons/internal/logging"
	"github.com/zawodev/zawomons/internal/remote"
	"github.com/zawodev/zawomons/internal/storage"
)

// StartBattleRequest names the combatants of each party. Remote battles are
// mirrored through the server's port; local ones stay offline.
type StartBattleRequest struct {
	PartyA []string `json:"party_a"`
	PartyB []string `json:"party_b"`
	Remote bool     `json:"remote"`
}

// StartBattle resolves both rosters from the catalog, creates a battle with
// a fresh id and stores it.
func StartBattle(ctx context.Context, battles BattleRepo, catalog CatalogRepo, port remote.Port, settings Settings, req StartBattleRequest) (*lifecycle.Battle, error) {
	partyA, err := loadRoster(catalog, req.PartyA, settings.MaxPartySize)
	if err != nil {
		return nil, err
	}
	partyB, err := loadRoster(catalog, req.PartyB, settings.MaxPartySize)
	if err != nil {
		return nil, err
	}
	if !req.Remote || port == nil {
		port = remote.Offline{}
	}

	id := uuid.NewString()
	b, err := lifecycle.Start(ctx, id, partyA, partyB, lifecycle.Options{
		Port:             port,
		CommitHold:       settings.CommitHold,
		SelectionTimeout: settings.SelectionTimeout,
	})
	if err != nil {
		return nil, err
	}
	if err := battles.Create(b); err != nil {
		return nil, err
	}
	logging.Info("battle created", logging.Fields{
		constants.LogFieldBattleID: id,
		constants.LogFieldCount:    len(partyA) + len(partyB),
		constants.LogFieldSource:   sourceOf(req.Remote),
	})
	return b, nil
}

func sourceOf(isRemote bool) string {
	if isRemote {
		return "remote"
	}
	return "local"
}

// loadRoster enforces the 1..max bound and maps names to definitions.
func loadRoster(catalog CatalogRepo, names []string, maxSize int) ([]*game.Combatant, error) {
	if len(names) == 0 || (maxSize > 0 && len(names) > maxSize) {
		return nil, fmt.Errorf("%w: got %d, want 1..%d", ErrRosterSize, len(names), maxSize)
	}
	roster, err := catalog.GetCombatantsByNames(names)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownCombatant, err)
		}
		return nil, err
	}
	return roster, nil
}
