package engine

import (
	"testing"

	"github.com/zawodev/zawomons/internal/game"
)

func ids(ps []*game.Participant) []game.ParticipantID {
	out := make([]game.ParticipantID, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func sameIDs(t *testing.T, got []*game.Participant, want ...game.ParticipantID) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range g {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func threeOnThree() *game.Battle {
	roster := func(prefix string) []*game.Combatant {
		return []*game.Combatant{
			{Name: prefix + "1", MaxHealth: 10},
			{Name: prefix + "2", MaxHealth: 10},
			{Name: prefix + "3", MaxHealth: 10},
		}
	}
	return game.NewBattle(roster("a"), roster("b"))
}

func TestResolveTargets_Shapes(t *testing.T) {
	b := threeOnThree()
	caster := b.Participant("A:1")
	own, opp := b.Party(game.PartyA), b.Party(game.PartyB)

	sameIDs(t, ResolveTargets(caster, game.TargetSelf, own, opp), "A:1")
	sameIDs(t, ResolveTargets(caster, game.TargetAlly, own, opp), "A:0")
	sameIDs(t, ResolveTargets(caster, game.TargetAllAllies, own, opp), "A:0", "A:2")
	sameIDs(t, ResolveTargets(caster, game.TargetEnemy, own, opp), "B:0")
	sameIDs(t, ResolveTargets(caster, game.TargetAllEnemies, own, opp), "B:0", "B:1", "B:2")
}

func TestResolveTargets_ExplicitChoice(t *testing.T) {
	b := threeOnThree()
	caster := b.Participant("A:0")
	own, opp := b.Party(game.PartyA), b.Party(game.PartyB)

	caster.Target = "B:2"
	sameIDs(t, ResolveTargets(caster, game.TargetEnemy, own, opp), "B:2")
	// an enemy id is not a valid ally choice: fall back to first ally
	sameIDs(t, ResolveTargets(caster, game.TargetAlly, own, opp), "A:1")

	caster.Target = "A:2"
	sameIDs(t, ResolveTargets(caster, game.TargetAlly, own, opp), "A:2")
	sameIDs(t, ResolveTargets(caster, game.TargetEnemy, own, opp), "B:0")

	// self is never a valid ally choice
	caster.Target = "A:0"
	sameIDs(t, ResolveTargets(caster, game.TargetAlly, own, opp), "A:1")
}

func TestResolveTargets_FallbackWhenChoiceDied(t *testing.T) {
	b := threeOnThree()
	caster := b.Participant("A:0")
	own, opp := b.Party(game.PartyA), b.Party(game.PartyB)

	caster.Target = "B:1"
	b.Participant("B:1").Health = 0
	b.Participant("B:0").Health = 0
	sameIDs(t, ResolveTargets(caster, game.TargetEnemy, own, opp), "B:2")
}

func TestResolveTargets_DeadExcluded(t *testing.T) {
	b := threeOnThree()
	caster := b.Participant("A:0")
	own, opp := b.Party(game.PartyA), b.Party(game.PartyB)
	b.Participant("A:1").Health = 0
	b.Participant("B:0").Health = 0

	sameIDs(t, ResolveTargets(caster, game.TargetAllAllies, own, opp), "A:2")
	sameIDs(t, ResolveTargets(caster, game.TargetAllEnemies, own, opp), "B:1", "B:2")

	for _, p := range opp {
		p.Health = 0
	}
	if got := ResolveTargets(caster, game.TargetEnemy, own, opp); len(got) != 0 {
		t.Fatalf("expected no target in a wiped party, got %v", ids(got))
	}
	if got := ResolveTargets(caster, game.TargetAllEnemies, own, opp); len(got) != 0 {
		t.Fatalf("expected empty set, got %v", ids(got))
	}
}

func TestResolveTargets_LoneCasterHasNoAlly(t *testing.T) {
	b := game.NewBattle([]*game.Combatant{{Name: "solo", MaxHealth: 5}}, []*game.Combatant{{Name: "foe", MaxHealth: 5}})
	caster := b.Participant("A:0")
	if got := ResolveTargets(caster, game.TargetAlly, b.Party(game.PartyA), b.Party(game.PartyB)); len(got) != 0 {
		t.Fatalf("expected no ally, got %v", ids(got))
	}
}

func TestValidExplicitTarget(t *testing.T) {
	b := threeOnThree()
	a0, a1, b0 := b.Participant("A:0"), b.Participant("A:1"), b.Participant("B:0")

	cases := []struct {
		name   string
		target *game.Participant
		shape  game.TargetShape
		want   bool
	}{
		{"ally ok", a1, game.TargetAlly, true},
		{"ally self", a0, game.TargetAlly, false},
		{"ally enemy", b0, game.TargetAlly, false},
		{"enemy ok", b0, game.TargetEnemy, true},
		{"enemy ally", a1, game.TargetEnemy, false},
		{"self shape", a0, game.TargetSelf, false},
		{"nil", nil, game.TargetEnemy, false},
	}
	for _, tc := range cases {
		if got := ValidExplicitTarget(a0, tc.target, tc.shape); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
	b0.Health = 0
	if ValidExplicitTarget(a0, b0, game.TargetEnemy) {
		t.Fatalf("dead target must be invalid")
	}
}
