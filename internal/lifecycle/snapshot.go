package lifecycle

import (
	"time"

	"github.com/zawodev/zawomons/internal/game"
)

// ParticipantView is a read-only copy of one participant.
type ParticipantView struct {
	ID         game.ParticipantID `json:"id"`
	Name       string             `json:"name"`
	Level      int                `json:"level"`
	Primary    game.Element       `json:"primary"`
	Secondary  game.Element       `json:"secondary,omitempty"`
	Health     int                `json:"health"`
	MaxHealth  int                `json:"max_health"`
	Initiative int                `json:"initiative"`
	Damage     int                `json:"damage"`
	Alive      bool               `json:"alive"`
	Committed  bool               `json:"committed"`
	SpellID    string             `json:"spell_id,omitempty"`
	Target     game.ParticipantID `json:"target,omitempty"`
	Spells     []string           `json:"spells"`
}

// Snapshot is a point-in-time copy of a battle. Holding one never aliases
// the live battle.
type Snapshot struct {
	ID        string            `json:"id"`
	Round     int               `json:"round"`
	Phase     game.Phase        `json:"phase"`
	Turn      int               `json:"turn"`
	Winner    game.Winner       `json:"winner"`
	Abandoned bool              `json:"abandoned"`
	Locked    [2]bool           `json:"locked"`
	PartyA    []ParticipantView `json:"party_a"`
	PartyB    []ParticipantView `json:"party_b"`
	LastTurn  *game.TurnResult  `json:"last_turn,omitempty"`
	StartedAt time.Time         `json:"started_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Deadline  *time.Time        `json:"deadline,omitempty"`

	// FinishedAt is set once the battle has ended.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Snapshot copies the current battle state.
func (b *Battle) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := Snapshot{
		ID:        b.id,
		Round:     b.round,
		Phase:     b.state.Phase,
		Turn:      b.state.Turn,
		Winner:    b.state.Winner,
		Abandoned: b.abandoned,
		Locked:    b.state.Locked,
		PartyA:    views(b.state.Party(game.PartyA)),
		PartyB:    views(b.state.Party(game.PartyB)),
		LastTurn:  copyTurn(b.state.LastTurn),
		StartedAt: b.startedAt,
		UpdatedAt: b.updatedAt,
	}
	if !b.deadline.IsZero() {
		d := b.deadline
		s.Deadline = &d
	}
	if !b.finishedAt.IsZero() {
		f := b.finishedAt
		s.FinishedAt = &f
	}
	return s
}

func views(members []*game.Participant) []ParticipantView {
	out := make([]ParticipantView, 0, len(members))
	for _, m := range members {
		v := ParticipantView{
			ID:         m.ID,
			Name:       m.Name(),
			Level:      m.Level(),
			Primary:    m.Combatant.Primary,
			Secondary:  m.Combatant.Secondary,
			Health:     m.Health,
			MaxHealth:  m.MaxHealth(),
			Initiative: m.TotalInitiative(),
			Damage:     m.CurrentDamage(),
			Alive:      m.Alive(),
			Committed:  m.Committed,
			Target:     m.Target,
		}
		if m.Spell != nil {
			v.SpellID = m.Spell.ID
		}
		for _, sp := range m.Combatant.Spells {
			v.Spells = append(v.Spells, sp.ID)
		}
		out = append(out, v)
	}
	return out
}

func copyTurn(r *game.TurnResult) *game.TurnResult {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Actions = make([]game.ActionResult, 0, len(r.Actions))
	for _, a := range r.Actions {
		ac := a
		ac.Effects = make([]game.AppliedEffect, 0, len(a.Effects))
		for _, e := range a.Effects {
			ec := e
			ec.Targets = append([]game.TargetOutcome(nil), e.Targets...)
			ac.Effects = append(ac.Effects, ec)
		}
		cp.Actions = append(cp.Actions, ac)
	}
	cp.Skipped = append([]game.ParticipantID(nil), r.Skipped...)
	cp.Summary = append([]string(nil), r.Summary...)
	return &cp
}
