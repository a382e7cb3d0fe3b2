package engine

import "github.com/zawodev/zawomons/internal/game"

// displayName renders "A's Name" for summaries.
func displayName(p *game.Participant) string {
	if p == nil {
		return ""
	}
	return p.Party.String() + "'s " + p.Name()
}

// firstLiving returns the first living member in roster order that passes
// keep, or nil.
func firstLiving(members []*game.Participant, keep func(*game.Participant) bool) *game.Participant {
	for _, m := range members {
		if m.Alive() && keep(m) {
			return m
		}
	}
	return nil
}

// allLiving returns every living member in roster order that passes keep.
func allLiving(members []*game.Participant, keep func(*game.Participant) bool) []*game.Participant {
	out := make([]*game.Participant, 0, len(members))
	for _, m := range members {
		if m.Alive() && keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func everyone(*game.Participant) bool { return true }
