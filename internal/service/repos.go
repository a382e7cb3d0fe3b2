package service

import (
	"errors"
	"time"

	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/lifecycle"
)

var (
	ErrBattleNotFound   = errors.New("battle not found")
	ErrUnknownCombatant = errors.New("unknown combatant")
	ErrRosterSize       = errors.New("invalid roster size")
)

// BattleRepo is the minimal repository interface the battle operations
// need.
type BattleRepo interface {
	Create(b *lifecycle.Battle) error
	Get(id string) (*lifecycle.Battle, error)
	Delete(id string) error
}

// CatalogRepo resolves roster names to combatant definitions.
type CatalogRepo interface {
	GetCombatantsByNames(names []string) ([]*game.Combatant, error)
}

// Settings are the server-wide battle parameters.
type Settings struct {
	MaxPartySize     int
	CommitHold       time.Duration
	SelectionTimeout time.Duration
}

// Outcome is what a battle operation reports back to its caller.
type Outcome struct {
	Battle   lifecycle.Snapshot `json:"battle"`
	Fired    bool               `json:"fired,omitempty"`
	Resolved bool               `json:"resolved"`
	Turn     *game.TurnResult   `json:"turn,omitempty"`
}

func getBattle(repo BattleRepo, id string) (*lifecycle.Battle, error) {
	b, err := repo.Get(id)
	if err != nil || b == nil {
		return nil, ErrBattleNotFound
	}
	return b, nil
}
