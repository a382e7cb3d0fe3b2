package readiness

import (
	"errors"
	"testing"

	"github.com/zawodev/zawomons/internal/game"
)

var (
	bolt = &game.Spell{ID: "bolt", Name: "Bolt", Effects: []game.Effect{
		{Target: game.TargetEnemy, Kind: game.EffectDamage, Magnitude: 5},
	}}
	mend = &game.Spell{ID: "mend", Name: "Mend", Effects: []game.Effect{
		{Target: game.TargetAlly, Kind: game.EffectHeal, Magnitude: 5},
	}}
	roar = &game.Spell{ID: "roar", Name: "Roar", Effects: []game.Effect{
		{Target: game.TargetAllAllies, Kind: game.EffectDamageBuff, Magnitude: 2},
	}}
	inferno = &game.Spell{ID: "inferno", Name: "Inferno", MinLevel: 3, Effects: []game.Effect{
		{Target: game.TargetAllEnemies, Kind: game.EffectDamage, Magnitude: 9},
	}}
)

func newBattle() *game.Battle {
	mk := func(name string) *game.Combatant {
		return &game.Combatant{Name: name, MaxHealth: 10, Spells: []*game.Spell{bolt, mend, roar, inferno}}
	}
	return game.NewBattle(
		[]*game.Combatant{mk("a0"), mk("a1")},
		[]*game.Combatant{mk("b0"), mk("b1")},
	)
}

func expectCode(t *testing.T, err error, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestSelectMove_Records(t *testing.T) {
	b := newBattle()
	if err := SelectMove(b, "A:0", "bolt", "B:1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := b.Participant("A:0")
	if !p.Committed || p.Spell == nil || p.Spell.ID != "bolt" || p.Target != "B:1" {
		t.Fatalf("selection not recorded: %+v", p)
	}
	// reselecting before the lock replaces the choice
	if err := SelectMove(b, "A:0", "mend", "A:1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Spell.ID != "mend" || p.Target != "A:1" {
		t.Fatalf("expected reselection to win, got %s -> %s", p.Spell.ID, p.Target)
	}
}

func TestSelectMove_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		prepare func(*game.Battle)
		id      game.ParticipantID
		spell   string
		target  game.ParticipantID
		want    error
	}{
		{"unknown participant", nil, "A:7", "bolt", "", game.ErrUnknownParticipant},
		{"dead participant", func(b *game.Battle) { b.Participant("A:0").Health = 0 }, "A:0", "bolt", "", game.ErrParticipantDead},
		{"locked party", func(b *game.Battle) { b.Locked[game.PartyA] = true }, "A:0", "bolt", "", game.ErrPartyLocked},
		{"unknown spell", nil, "A:0", "meteor", "", game.ErrSpellNotKnown},
		{"level gate", nil, "A:0", "inferno", "", game.ErrSpellNotEligible},
		{"enemy spell on ally", nil, "A:0", "bolt", "A:1", game.ErrInvalidTarget},
		{"ally spell on self", nil, "A:0", "mend", "A:0", game.ErrInvalidTarget},
		{"dead target", func(b *game.Battle) { b.Participant("B:1").Health = 0 }, "A:0", "bolt", "B:1", game.ErrInvalidTarget},
		{"missing target", nil, "A:0", "bolt", "B:9", game.ErrInvalidTarget},
		{"group spell with target", nil, "A:0", "roar", "A:1", game.ErrTargetNotApplicable},
		{"skip with target", nil, "A:0", "", "B:0", game.ErrTargetNotApplicable},
		{"combat phase", func(b *game.Battle) { b.Phase = game.PhaseCombat }, "A:0", "bolt", "", game.ErrWrongPhase},
		{"finished", func(b *game.Battle) { b.Phase = game.PhaseFinished }, "A:0", "bolt", "", game.ErrBattleFinished},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newBattle()
			if tc.prepare != nil {
				tc.prepare(b)
			}
			expectCode(t, SelectMove(b, tc.id, tc.spell, tc.target), tc.want)
			for _, m := range b.All() {
				if m.Committed || m.Spell != nil || m.Target != "" {
					t.Fatalf("rejected call mutated %s", m.ID)
				}
			}
		})
	}
}

func TestSelectMove_ExplicitSkip(t *testing.T) {
	b := newBattle()
	if err := SelectMove(b, "B:0", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := b.Participant("B:0")
	if !p.Committed || p.Spell != nil {
		t.Fatalf("expected committed skip, got %+v", p)
	}
}

func TestCommitParty_AutoSkipAndIdempotent(t *testing.T) {
	b := newBattle()
	if err := SelectMove(b, "A:0", "bolt", ""); err != nil {
		t.Fatal(err)
	}
	if err := CommitParty(b, game.PartyA); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a0, a1 := b.Participant("A:0"), b.Participant("A:1")
	if !b.Locked[game.PartyA] || !a1.Committed || a1.Spell != nil {
		t.Fatalf("expected lock with auto-skip, got locked=%v a1=%+v", b.Locked, a1)
	}
	if a0.Spell == nil || a0.Spell.ID != "bolt" {
		t.Fatalf("explicit selection must survive the lock")
	}
	if err := CommitParty(b, game.PartyA); err != nil {
		t.Fatalf("second commit should be a no-op, got %v", err)
	}
	expectCode(t, SelectMove(b, "A:1", "bolt", ""), game.ErrPartyLocked)
	expectCode(t, CommitParty(b, game.PartyID(5)), game.ErrUnknownParty)
}

func TestReady_Barrier(t *testing.T) {
	b := newBattle()
	for _, id := range []game.ParticipantID{"A:0", "A:1"} {
		if err := SelectMove(b, id, "bolt", ""); err != nil {
			t.Fatal(err)
		}
	}
	if Ready(b) {
		t.Fatalf("individual selections must not lock a party")
	}
	if err := CommitParty(b, game.PartyA); err != nil {
		t.Fatal(err)
	}
	if Ready(b) {
		t.Fatalf("only party A is locked")
	}
	if err := CommitParty(b, game.PartyB); err != nil {
		t.Fatal(err)
	}
	if !Ready(b) {
		t.Fatalf("both parties locked, expected ready")
	}
}

func TestReady_DefeatedPartyLocksVacuously(t *testing.T) {
	b := newBattle()
	for _, m := range b.Party(game.PartyB) {
		m.Health = 0
	}
	if err := CommitParty(b, game.PartyA); err != nil {
		t.Fatal(err)
	}
	if err := CommitParty(b, game.PartyB); err != nil {
		t.Fatalf("a wiped party must still lock: %v", err)
	}
	for _, m := range b.Party(game.PartyB) {
		if m.Committed {
			t.Fatalf("dead members must not be auto-committed")
		}
	}
	if !Ready(b) {
		t.Fatalf("expected ready with a defeated party")
	}
}

func TestReset_ClearsEverything(t *testing.T) {
	b := newBattle()
	_ = SelectMove(b, "A:0", "bolt", "B:1")
	_ = SelectMove(b, "B:1", "mend", "B:0")
	_ = CommitParty(b, game.PartyA)
	_ = CommitParty(b, game.PartyB)

	Reset(b)
	if b.Locked != [2]bool{} {
		t.Fatalf("expected locks cleared, got %v", b.Locked)
	}
	for _, m := range b.All() {
		if m.Committed || m.Spell != nil || m.Target != "" {
			t.Fatalf("stale selection on %s", m.ID)
		}
	}
	if Ready(b) {
		t.Fatalf("reset battle must not be ready")
	}
}
