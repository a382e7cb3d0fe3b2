package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/zawodev/zawomons/internal/lifecycle"
)

// memoryBattles keeps live battles in process memory. Battle outcomes are
// not persisted.
type memoryBattles struct {
	mu      sync.RWMutex
	battles map[string]*lifecycle.Battle
}

func NewMemoryBattles() BattleRepository {
	return &memoryBattles{battles: map[string]*lifecycle.Battle{}}
}

func (r *memoryBattles) Create(b *lifecycle.Battle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.battles[b.ID()]; exists {
		return fmt.Errorf("battle %s: %w", b.ID(), ErrDuplicateID)
	}
	r.battles[b.ID()] = b
	return nil
}

func (r *memoryBattles) Get(id string) (*lifecycle.Battle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.battles[id]
	if !ok {
		return nil, fmt.Errorf("battle %s: %w", id, ErrNotFound)
	}
	return b, nil
}

func (r *memoryBattles) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.battles[id]; !ok {
		return fmt.Errorf("battle %s: %w", id, ErrNotFound)
	}
	delete(r.battles, id)
	return nil
}

// List returns battles ordered by id.
func (r *memoryBattles) List() []*lifecycle.Battle {
	r.mu.RLock()
	out := make([]*lifecycle.Battle, 0, len(r.battles))
	for _, b := range r.battles {
		out = append(out, b)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (r *memoryBattles) FindExpired(now time.Time) []*lifecycle.Battle {
	var out []*lifecycle.Battle
	for _, b := range r.List() {
		if b.Expired(now) {
			out = append(out, b)
		}
	}
	return out
}

func (r *memoryBattles) FindFinished(before time.Time) []*lifecycle.Battle {
	var out []*lifecycle.Battle
	for _, b := range r.List() {
		if b.FinishedBefore(before) {
			out = append(out, b)
		}
	}
	return out
}
