package storage

import (
	"errors"
	"time"

	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/lifecycle"
)

var (
	// ErrNotFound is returned when a catalog entry or battle does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when a battle id is already taken.
	ErrDuplicateID = errors.New("duplicate id")
)

// CatalogRepository reads combatant and spell definitions.
type CatalogRepository interface {
	ListCombatants() ([]*game.Combatant, error)
	// GetCombatantsByNames returns one combatant per requested name, in
	// request order. Names are matched case-insensitively; a repeated name
	// yields the same definition twice. Unknown names fail with ErrNotFound.
	GetCombatantsByNames(names []string) ([]*game.Combatant, error)
	ListSpells() ([]*game.Spell, error)
	GetSpellsByIDs(ids []string) ([]*game.Spell, error)
}

// BattleRepository holds live battles.
type BattleRepository interface {
	Create(b *lifecycle.Battle) error
	Get(id string) (*lifecycle.Battle, error)
	Delete(id string) error
	List() []*lifecycle.Battle
	// FindExpired returns battles whose selection deadline is before now.
	FindExpired(now time.Time) []*lifecycle.Battle
	// FindFinished returns battles that ended before the cutoff.
	FindFinished(before time.Time) []*lifecycle.Battle
}
