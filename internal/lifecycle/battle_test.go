package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/remote"
)

type portLog struct {
	mu     sync.Mutex
	events []string
}

func (p *portLog) add(s string) {
	p.mu.Lock()
	p.events = append(p.events, s)
	p.mu.Unlock()
}

func (p *portLog) all() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func (p *portLog) OnBattleStart(context.Context, remote.BattleStarted) error {
	p.add(remote.EventBattleStart)
	return nil
}

func (p *portLog) OnMoveSelected(context.Context, remote.MoveSelected) error {
	p.add(remote.EventMoveSelected)
	return nil
}

func (p *portLog) OnTurnComplete(context.Context, remote.TurnCompleted) error {
	p.add(remote.EventTurnComplete)
	return nil
}

var (
	smash = &game.Spell{ID: "smash", Name: "Smash", Effects: []game.Effect{{Target: game.TargetEnemy, Kind: game.EffectDamage, Magnitude: 50}}}
	poke  = &game.Spell{ID: "poke", Name: "Poke", Effects: []game.Effect{{Target: game.TargetEnemy, Kind: game.EffectDamage, Magnitude: 1}}}
)

func rosters() ([]*game.Combatant, []*game.Combatant) {
	a := []*game.Combatant{{Name: "Brute", MaxHealth: 30, BaseInitiative: 9, Spells: []*game.Spell{smash, poke}}}
	b := []*game.Combatant{{Name: "Pip", MaxHealth: 20, BaseInitiative: 3, Spells: []*game.Spell{poke}}}
	return a, b
}

func start(t *testing.T, opts Options) *Battle {
	t.Helper()
	a, b := rosters()
	bt, err := Start(context.Background(), "battle-1", a, b, opts)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return bt
}

func TestStart_EntersSelection(t *testing.T) {
	log := &portLog{}
	bt := start(t, Options{Port: log})
	s := bt.Snapshot()
	if s.Phase != game.PhaseSelection || bt.State() != StateSelection || s.Turn != 0 || s.Winner != game.WinnerNone {
		t.Fatalf("unexpected initial snapshot %+v", s)
	}
	if s.PartyA[0].Health != 30 || s.PartyB[0].Health != 20 {
		t.Fatalf("participants must start at full health")
	}
	if got := log.all(); len(got) != 1 || got[0] != remote.EventBattleStart {
		t.Fatalf("expected battle start notification, got %v", got)
	}

	a, _ := rosters()
	if _, err := Start(context.Background(), "x", a, nil, Options{}); !errors.Is(err, game.ErrEmptyRoster) {
		t.Fatalf("expected empty roster rejection, got %v", err)
	}
}

func TestBattle_FullMatch(t *testing.T) {
	ctx := context.Background()
	log := &portLog{}
	bt := start(t, Options{Port: log})

	if err := bt.SelectMove(ctx, "A:0", "smash", "B:0"); err != nil {
		t.Fatal(err)
	}
	ready, err := bt.CommitParty(ctx, game.PartyA)
	if err != nil || ready {
		t.Fatalf("one locked party must not be ready (ready=%v err=%v)", ready, err)
	}
	if bt.Snapshot().Phase != game.PhaseSelection {
		t.Fatalf("phase must stay selection until both parties commit")
	}
	ready, err = bt.CommitParty(ctx, game.PartyB)
	if err != nil || !ready {
		t.Fatalf("expected ready after both commits (ready=%v err=%v)", ready, err)
	}
	if bt.Snapshot().Phase != game.PhaseCombat {
		t.Fatalf("expected combat")
	}
	if err := bt.SelectMove(ctx, "B:0", "poke", ""); !errors.Is(err, game.ErrWrongPhase) {
		t.Fatalf("combat accepts no selections, got %v", err)
	}

	res, err := bt.ResolveTurn(ctx)
	if err != nil {
		t.Fatal(err)
	}
	s := bt.Snapshot()
	if res.Winner != game.WinnerPartyA || s.Phase != game.PhaseFinished || bt.State() != StateFinished {
		t.Fatalf("expected party A to win, got %s in %s", res.Winner, s.Phase)
	}
	if s.PartyB[0].Health != 0 || s.Turn != 1 {
		t.Fatalf("unexpected final state %+v", s)
	}
	// B:0 was auto-skipped at lock time and sent no move
	want := []string{remote.EventBattleStart, remote.EventMoveSelected, remote.EventTurnComplete}
	got := log.all()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if _, err := bt.ResolveTurn(ctx); !errors.Is(err, game.ErrWrongPhase) {
		t.Fatalf("finished battle must refuse resolution, got %v", err)
	}
	if err := bt.SelectMove(ctx, "A:0", "poke", ""); !errors.Is(err, game.ErrBattleFinished) {
		t.Fatalf("finished battle must refuse selections, got %v", err)
	}
}

func TestBattle_ContinueResetsSelections(t *testing.T) {
	ctx := context.Background()
	bt := start(t, Options{})
	_ = bt.SelectMove(ctx, "A:0", "poke", "")
	_ = bt.SelectMove(ctx, "B:0", "poke", "")
	_, _ = bt.CommitParty(ctx, game.PartyA)
	_, _ = bt.CommitParty(ctx, game.PartyB)
	res, err := bt.ResolveTurn(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Finished() {
		t.Fatalf("pokes must not end the battle")
	}
	s := bt.Snapshot()
	if s.Phase != game.PhaseSelection || s.Turn != 1 || s.Locked != [2]bool{} {
		t.Fatalf("expected a clean selection phase, got %+v", s)
	}
	for _, v := range append(s.PartyA, s.PartyB...) {
		if v.Committed || v.SpellID != "" || v.Target != "" {
			t.Fatalf("stale selection on %s", v.ID)
		}
	}
	if s.PartyA[0].Health != 29 || s.PartyB[0].Health != 19 {
		t.Fatalf("unexpected health %d / %d", s.PartyA[0].Health, s.PartyB[0].Health)
	}
}

func TestBattle_ResolveOutsideCombatRejected(t *testing.T) {
	bt := start(t, Options{})
	before := bt.Snapshot()
	if _, err := bt.ResolveTurn(context.Background()); !errors.Is(err, game.ErrWrongPhase) {
		t.Fatalf("expected wrong phase, got %v", err)
	}
	after := bt.Snapshot()
	if after.Turn != before.Turn || after.Phase != before.Phase {
		t.Fatalf("rejected resolution mutated the battle")
	}
}

func TestBattle_HoldCommit(t *testing.T) {
	ctx := context.Background()
	bt := start(t, Options{CommitHold: time.Second})

	fired, _, err := bt.HoldCommit(ctx, game.PartyA, 600*time.Millisecond)
	if err != nil || fired {
		t.Fatalf("fired too early (err=%v)", err)
	}
	if err := bt.ReleaseCommit(game.PartyA); err != nil {
		t.Fatal(err)
	}
	if bt.Snapshot().Locked[game.PartyA] {
		t.Fatalf("release must not commit the party")
	}
	fired, _, _ = bt.HoldCommit(ctx, game.PartyA, 600*time.Millisecond)
	if fired {
		t.Fatalf("release must discard earlier hold time")
	}
	fired, ready, err := bt.HoldCommit(ctx, game.PartyA, 400*time.Millisecond)
	if err != nil || !fired || ready {
		t.Fatalf("expected party A to lock alone (fired=%v ready=%v err=%v)", fired, ready, err)
	}
	if !bt.Snapshot().Locked[game.PartyA] {
		t.Fatalf("expected party A locked")
	}
	fired, ready, err = bt.HoldCommit(ctx, game.PartyB, 2*time.Second)
	if err != nil || !fired || !ready {
		t.Fatalf("expected gate to fire for B (fired=%v ready=%v err=%v)", fired, ready, err)
	}
	if _, _, err := bt.HoldCommit(ctx, game.PartyID(9), time.Second); err == nil {
		t.Fatalf("expected unknown party error")
	}
}

func finish(t *testing.T, bt *Battle) {
	t.Helper()
	ctx := context.Background()
	_ = bt.SelectMove(ctx, "A:0", "smash", "")
	_, _ = bt.CommitParty(ctx, game.PartyA)
	_, _ = bt.CommitParty(ctx, game.PartyB)
	if _, err := bt.ResolveTurn(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestBattle_Rematch(t *testing.T) {
	ctx := context.Background()
	log := &portLog{}
	bt := start(t, Options{Port: log})
	if err := bt.Rematch(ctx, nil, nil); !errors.Is(err, game.ErrWrongPhase) {
		t.Fatalf("rematch during selection must be refused, got %v", err)
	}
	finish(t, bt)

	fresh := []*game.Combatant{{Name: "Newt", MaxHealth: 12, Spells: []*game.Spell{poke}}}
	if err := bt.Rematch(ctx, nil, fresh); err != nil {
		t.Fatal(err)
	}
	s := bt.Snapshot()
	if s.Round != 2 || s.Turn != 0 || s.Phase != game.PhaseSelection || s.Winner != game.WinnerNone || s.LastTurn != nil {
		t.Fatalf("rematch must discard the old battle, got %+v", s)
	}
	if s.PartyA[0].Name != "Brute" || s.PartyA[0].Health != 30 || s.PartyB[0].Name != "Newt" {
		t.Fatalf("unexpected rosters after rematch: %+v / %+v", s.PartyA, s.PartyB)
	}
	starts := 0
	for _, e := range log.all() {
		if e == remote.EventBattleStart {
			starts++
		}
	}
	if starts != 2 {
		t.Fatalf("expected two battle start notifications, got %d", starts)
	}
}

func TestBattle_Abandon(t *testing.T) {
	ctx := context.Background()
	bt := start(t, Options{})
	_, _ = bt.CommitParty(ctx, game.PartyA)
	_, _ = bt.CommitParty(ctx, game.PartyB)
	if err := bt.Abandon(ctx); !errors.Is(err, game.ErrWrongPhase) {
		t.Fatalf("abandon mid-combat must be refused, got %v", err)
	}
	if _, err := bt.ResolveTurn(ctx); err != nil {
		t.Fatal(err)
	}
	if err := bt.Abandon(ctx); err != nil {
		t.Fatal(err)
	}
	if err := bt.SelectMove(ctx, "A:0", "poke", ""); !errors.Is(err, game.ErrBattleFinished) {
		t.Fatalf("abandoned battle must refuse input, got %v", err)
	}
	if err := bt.Rematch(ctx, nil, nil); !errors.Is(err, game.ErrBattleFinished) {
		t.Fatalf("abandoned battle must refuse rematch, got %v", err)
	}
	if !bt.Snapshot().Abandoned {
		t.Fatalf("snapshot must report abandonment")
	}
}

func TestBattle_SelectionDeadline(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	bt := start(t, Options{SelectionTimeout: 30 * time.Second, Now: clock})

	if bt.Expired(now.Add(10 * time.Second)) {
		t.Fatalf("not expired yet")
	}
	_ = bt.SelectMove(ctx, "B:0", "poke", "")
	if !bt.Expired(now.Add(31 * time.Second)) {
		t.Fatalf("expected expiry")
	}
	if res, err := bt.ForceCommit(ctx, now.Add(10*time.Second)); res != nil || err != nil {
		t.Fatalf("force commit before the deadline must do nothing (res=%v err=%v)", res, err)
	}
	res, err := bt.ForceCommit(ctx, now.Add(31*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Actions) != 1 || res.Actions[0].Actor != "B:0" {
		t.Fatalf("only B:0 selected a move, got %+v", res.Actions)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "A:0" {
		t.Fatalf("A:0 must be auto-skipped, got %v", res.Skipped)
	}
	if bt.Snapshot().Phase != game.PhaseSelection {
		t.Fatalf("expected next selection phase")
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	bt := start(t, Options{})
	s := bt.Snapshot()
	s.PartyA[0].Health = 1
	s.Locked[0] = true
	again := bt.Snapshot()
	if again.PartyA[0].Health != 30 || again.Locked[0] {
		t.Fatalf("snapshot aliased live state")
	}
}

func TestBattle_ConcurrentParties(t *testing.T) {
	ctx := context.Background()
	a := []*game.Combatant{{Name: "a0", MaxHealth: 99, Spells: []*game.Spell{poke}}, {Name: "a1", MaxHealth: 99, Spells: []*game.Spell{poke}}}
	b := []*game.Combatant{{Name: "b0", MaxHealth: 99, Spells: []*game.Spell{poke}}, {Name: "b1", MaxHealth: 99, Spells: []*game.Spell{poke}}}
	bt, err := Start(ctx, "race", a, b, Options{})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	readyCount := 0
	var mu sync.Mutex
	for _, party := range []game.PartyID{game.PartyA, game.PartyB} {
		wg.Add(1)
		go func(party game.PartyID) {
			defer wg.Done()
			for slot := 0; slot < 2; slot++ {
				if err := bt.SelectMove(ctx, game.NewParticipantID(party, slot), "poke", ""); err != nil {
					t.Errorf("select: %v", err)
				}
			}
			ready, err := bt.CommitParty(ctx, party)
			if err != nil {
				t.Errorf("commit: %v", err)
			}
			if ready {
				mu.Lock()
				readyCount++
				mu.Unlock()
			}
		}(party)
	}
	wg.Wait()
	if readyCount != 1 {
		t.Fatalf("exactly one commit must open the gate, got %d", readyCount)
	}
	if bt.Snapshot().Phase != game.PhaseCombat {
		t.Fatalf("expected combat after both parties committed")
	}
}

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestBattle_CancelledContextStillTransitions(t *testing.T) {
	ctx := cancelledContext()
	bt := start(t, Options{})

	if err := bt.SelectMove(ctx, "A:0", "poke", ""); err != nil {
		t.Fatal(err)
	}
	_, _ = bt.CommitParty(ctx, game.PartyA)
	ready, err := bt.CommitParty(ctx, game.PartyB)
	if err != nil || !ready || bt.State() != StateCombat {
		t.Fatalf("engage must not depend on the caller's context (ready=%v err=%v state=%s)", ready, err, bt.State())
	}
	if _, err := bt.ResolveTurn(ctx); err != nil {
		t.Fatalf("resolve with a cancelled context: %v", err)
	}
	s := bt.Snapshot()
	if s.Phase != game.PhaseSelection || bt.State() != StateSelection || s.Turn != 1 || s.PartyB[0].Health != 19 {
		t.Fatalf("expected the turn to complete into selection, got %s/%s turn=%d", s.Phase, bt.State(), s.Turn)
	}

	// the next turn is still playable and finishes the match
	if err := bt.SelectMove(ctx, "A:0", "smash", ""); err != nil {
		t.Fatalf("selection after a cancelled resolve: %v", err)
	}
	_, _ = bt.CommitParty(ctx, game.PartyA)
	_, _ = bt.CommitParty(ctx, game.PartyB)
	res, err := bt.ResolveTurn(ctx)
	if err != nil || res.Turn != 2 || res.Winner != game.WinnerPartyA || bt.State() != StateFinished {
		t.Fatalf("expected A to win on turn 2 (res=%+v err=%v state=%s)", res, err, bt.State())
	}

	if err := bt.Rematch(ctx, nil, nil); err != nil || bt.State() != StateSelection {
		t.Fatalf("rematch with a cancelled context (err=%v state=%s)", err, bt.State())
	}
}

func TestBattle_ResolveTwiceDoesNotReapply(t *testing.T) {
	ctx := context.Background()
	bt := start(t, Options{})
	_ = bt.SelectMove(ctx, "A:0", "poke", "")
	_, _ = bt.CommitParty(ctx, game.PartyA)
	_, _ = bt.CommitParty(ctx, game.PartyB)
	if _, err := bt.ResolveTurn(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := bt.ResolveTurn(ctx); !errors.Is(err, game.ErrWrongPhase) {
		t.Fatalf("a second resolve must be refused, got %v", err)
	}
	if s := bt.Snapshot(); s.Turn != 1 || s.PartyB[0].Health != 19 {
		t.Fatalf("refused resolve changed state: turn=%d health=%d", s.Turn, s.PartyB[0].Health)
	}
}

func TestBattle_ForceCommitWithOnePartyLocked(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	bt := start(t, Options{SelectionTimeout: 30 * time.Second, Now: func() time.Time { return now }})

	bg := context.Background()
	if err := bt.SelectMove(bg, "A:0", "smash", ""); err != nil {
		t.Fatal(err)
	}
	if ready, err := bt.CommitParty(bg, game.PartyA); err != nil || ready {
		t.Fatalf("A alone must not be ready (ready=%v err=%v)", ready, err)
	}

	// the scanner's context is already done at shutdown
	res, err := bt.ForceCommit(cancelledContext(), now.Add(31*time.Second))
	if err != nil {
		t.Fatalf("force commit: %v", err)
	}
	if len(res.Actions) != 1 || res.Actions[0].Actor != "A:0" {
		t.Fatalf("only A:0 acts, got %+v", res.Actions)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "B:0" {
		t.Fatalf("B:0 must be auto-skipped, got %v", res.Skipped)
	}
	s := bt.Snapshot()
	if s.Phase != game.PhaseFinished || s.Winner != game.WinnerPartyA || s.Deadline != nil {
		t.Fatalf("expected A to win with no deadline left, got %+v", s)
	}
	if bt.Expired(now.Add(time.Hour)) {
		t.Fatalf("finished battle cannot expire")
	}
}

func TestBattle_HoldCommitAfterFinish(t *testing.T) {
	bt := start(t, Options{})
	finish(t, bt)
	if _, _, err := bt.HoldCommit(context.Background(), game.PartyA, time.Second); !errors.Is(err, game.ErrBattleFinished) {
		t.Fatalf("expected battle finished, got %v", err)
	}
}

func TestBattle_FinishedBefore(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	bt := start(t, Options{Now: func() time.Time { return now }})
	if bt.FinishedBefore(now.Add(time.Hour)) {
		t.Fatalf("a battle in play has not finished")
	}
	finish(t, bt)
	if bt.FinishedBefore(now) {
		t.Fatalf("cutoff equal to the finish time must not match")
	}
	if !bt.FinishedBefore(now.Add(time.Second)) {
		t.Fatalf("expected the battle to count as finished")
	}
	if s := bt.Snapshot(); s.FinishedAt == nil || !s.FinishedAt.Equal(now) {
		t.Fatalf("snapshot must carry the finish time, got %v", s.FinishedAt)
	}
	if err := bt.Rematch(context.Background(), nil, nil); err != nil {
		t.Fatal(err)
	}
	if bt.FinishedBefore(now.Add(time.Hour)) || bt.Snapshot().FinishedAt != nil {
		t.Fatalf("rematch must clear the finish time")
	}
}
