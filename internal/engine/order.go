package engine

import (
	"sort"

	"github.com/zawodev/zawomons/internal/game"
)

// buildOrder collects every living participant holding a committed spell
// and sorts them into resolution order. Living participants without a spell
// are recorded as skipped.
func (tc *turnContext) buildOrder() []*game.Participant {
	order := make([]*game.Participant, 0, len(tc.b.Parties[0])+len(tc.b.Parties[1]))
	for _, p := range tc.b.All() {
		if !p.Alive() {
			continue
		}
		if p.Spell == nil {
			tc.skip(p)
			tc.add("%s skips the turn", displayName(p))
			continue
		}
		order = append(order, p)
	}
	SortByResolutionOrder(order)
	return order
}

// SortByResolutionOrder sorts in place: descending total initiative, level
// and experience, then ascending name. Party and slot break any remaining
// tie so the order is total even when both rosters field the same creature.
func SortByResolutionOrder(ps []*game.Participant) {
	sort.SliceStable(ps, func(i, j int) bool {
		return resolvesBefore(ps[i], ps[j])
	})
}

func resolvesBefore(a, b *game.Participant) bool {
	if ai, bi := a.TotalInitiative(), b.TotalInitiative(); ai != bi {
		return ai > bi
	}
	if al, bl := a.Level(), b.Level(); al != bl {
		return al > bl
	}
	if ae, be := a.Experience(), b.Experience(); ae != be {
		return ae > be
	}
	if a.Name() != b.Name() {
		return a.Name() < b.Name()
	}
	if a.Party != b.Party {
		return a.Party < b.Party
	}
	return a.Slot < b.Slot
}
