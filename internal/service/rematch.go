package service

import (
	"context"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/lifecycle"
	"github.com/zawodev/zawomons/internal/logging"
)

// RematchRequest optionally replaces a party's roster. An empty list keeps
// the previous roster.
type RematchRequest struct {
	PartyA []string `json:"party_a"`
	PartyB []string `json:"party_b"`
}

// Rematch restarts a finished battle under the same id.
func Rematch(ctx context.Context, repo BattleRepo, catalog CatalogRepo, settings Settings, battleID string, req RematchRequest) (*lifecycle.Snapshot, error) {
	b, err := getBattle(repo, battleID)
	if err != nil {
		return nil, err
	}
	var partyA, partyB []*game.Combatant
	if len(req.PartyA) > 0 {
		if partyA, err = loadRoster(catalog, req.PartyA, settings.MaxPartySize); err != nil {
			return nil, err
		}
	}
	if len(req.PartyB) > 0 {
		if partyB, err = loadRoster(catalog, req.PartyB, settings.MaxPartySize); err != nil {
			return nil, err
		}
	}
	if err := b.Rematch(ctx, partyA, partyB); err != nil {
		return nil, err
	}
	s := b.Snapshot()
	return &s, nil
}

// Abandon ends a battle that is selecting or finished and forgets it.
func Abandon(ctx context.Context, repo BattleRepo, battleID string) error {
	b, err := getBattle(repo, battleID)
	if err != nil {
		return err
	}
	if err := b.Abandon(ctx); err != nil {
		return err
	}
	if err := repo.Delete(battleID); err != nil {
		logging.Warn("failed to drop abandoned battle", err, logging.Fields{constants.LogFieldBattleID: battleID})
	}
	return nil
}
