package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/engine"
	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/logging"
	"github.com/zawodev/zawomons/internal/readiness"
	"github.com/zawodev/zawomons/internal/remote"
)

// Options tune a battle. The zero value is an offline battle with a one
// second commit hold and no selection deadline.
type Options struct {
	Port             remote.Port
	CommitHold       time.Duration
	SelectionTimeout time.Duration
	Now              func() time.Time
}

const defaultCommitHold = time.Second

// Battle is a live match handle.
type Battle struct {
	id   string
	port remote.Port
	now  func() time.Time
	hold *readiness.HoldGate

	selectionTimeout time.Duration

	mu        sync.Mutex
	machine   *fsm.FSM
	state     *game.Battle
	rosters   [2][]*game.Combatant
	round     int
	abandoned bool
	startedAt time.Time
	updatedAt time.Time
	deadline  time.Time

	// finishedAt is zero until the battle ends.
	finishedAt time.Time
}

// Start builds a battle from two rosters and moves it into selection. The
// rosters are copied; later changes by the caller are not seen.
func Start(ctx context.Context, id string, partyA, partyB []*game.Combatant, opts Options) (*Battle, error) {
	if len(partyA) == 0 || len(partyB) == 0 {
		return nil, game.Reject(game.CodeEmptyRoster, "both parties need at least one combatant")
	}
	if opts.Port == nil {
		opts.Port = remote.Offline{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CommitHold <= 0 {
		opts.CommitHold = defaultCommitHold
	}
	b := &Battle{
		id:               id,
		port:             opts.Port,
		now:              opts.Now,
		hold:             readiness.NewHoldGate(opts.CommitHold),
		selectionTimeout: opts.SelectionTimeout,
		rosters:          [2][]*game.Combatant{cloneRoster(partyA), cloneRoster(partyB)},
	}
	b.machine = newMachine(b.onEnter)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.setup(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func cloneRoster(r []*game.Combatant) []*game.Combatant {
	out := make([]*game.Combatant, 0, len(r))
	for _, c := range r {
		out = append(out, c.Clone())
	}
	return out
}

// onEnter keeps the battle's phase in step with the machine. Setup has no
// phase of its own: a fresh battle is created directly in selection.
func (b *Battle) onEnter(state string) {
	if b.state == nil || state == StateSetup {
		return
	}
	b.state.Phase = game.Phase(state)
}

// setup rebuilds the battle state from the stored rosters and begins
// selection. Caller holds mu and the machine is in setup.
func (b *Battle) setup(ctx context.Context) error {
	b.state = game.NewBattle(b.rosters[game.PartyA], b.rosters[game.PartyB])
	b.hold.Reset()
	if err := fire(ctx, b.machine, EventBegin); err != nil {
		return err
	}
	b.round++
	b.startedAt = b.now()
	b.finishedAt = time.Time{}
	b.touch()
	b.armDeadline()

	logging.Info("battle started", logging.Fields{
		constants.LogFieldBattleID: b.id,
		constants.LogFieldCount:    b.round,
	})
	b.notify(remote.EventBattleStart, b.port.OnBattleStart(ctx, remote.BattleStarted{
		BattleID:  b.id,
		Round:     b.round,
		PartyA:    names(b.rosters[game.PartyA]),
		PartyB:    names(b.rosters[game.PartyB]),
		StartedAt: b.startedAt,
	}))
	return nil
}

func names(r []*game.Combatant) []string {
	out := make([]string, 0, len(r))
	for _, c := range r {
		out = append(out, c.Name)
	}
	return out
}

func (b *Battle) touch() { b.updatedAt = b.now() }

func (b *Battle) armDeadline() {
	b.deadline = time.Time{}
	if b.selectionTimeout > 0 {
		b.deadline = b.now().Add(b.selectionTimeout)
	}
}

func (b *Battle) notify(event string, err error) {
	if err != nil {
		logging.Warn("remote notification failed", err, logging.Fields{
			constants.LogFieldBattleID: b.id,
			constants.LogFieldEvent:    event,
		})
	}
}

func (b *Battle) checkOpen() error {
	if b.abandoned {
		return game.Reject(game.CodeBattleFinished, "battle was abandoned")
	}
	return nil
}

// ID returns the battle id.
func (b *Battle) ID() string { return b.id }

// SelectMove records a participant's choice for the current turn.
func (b *Battle) SelectMove(ctx context.Context, id game.ParticipantID, spellID string, target game.ParticipantID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkOpen(); err != nil {
		return err
	}
	if err := readiness.SelectMove(b.state, id, spellID, target); err != nil {
		return err
	}
	b.touch()
	b.notify(remote.EventMoveSelected, b.port.OnMoveSelected(ctx, remote.MoveSelected{
		BattleID:    b.id,
		Turn:        b.state.Turn + 1,
		Participant: id,
		SpellID:     spellID,
		Target:      target,
	}))
	return nil
}

// CommitParty locks a party in. It reports whether both parties are now
// ready, in which case the battle has entered combat and ResolveTurn must
// be called.
func (b *Battle) CommitParty(ctx context.Context, party game.PartyID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkOpen(); err != nil {
		return false, err
	}
	return b.commitLocked(ctx, party)
}

func (b *Battle) commitLocked(ctx context.Context, party game.PartyID) (bool, error) {
	if err := readiness.CommitParty(b.state, party); err != nil {
		return false, err
	}
	b.touch()
	logging.Info("party committed", logging.Fields{
		constants.LogFieldBattleID: b.id,
		constants.LogFieldParty:    party.String(),
	})
	return b.engageIfReady(ctx)
}

func (b *Battle) engageIfReady(ctx context.Context) (bool, error) {
	if !readiness.Ready(b.state) {
		return false, nil
	}
	if err := fire(ctx, b.machine, EventEngage); err != nil {
		return false, err
	}
	return true, nil
}

// HoldCommit adds elapsed to the party's ready gesture. When the hold
// threshold is reached the party is committed. It reports whether the
// gesture fired and whether the battle entered combat.
func (b *Battle) HoldCommit(ctx context.Context, party game.PartyID, elapsed time.Duration) (fired, ready bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkOpen(); err != nil {
		return false, false, err
	}
	if !party.Valid() {
		return false, false, game.Reject(game.CodeUnknownParty, "no party %d", int(party))
	}
	if err := readiness.RequireSelection(b.state); err != nil {
		return false, false, err
	}
	if b.state.Locked[party] {
		return false, false, nil
	}
	if !b.hold.Hold(party, elapsed) {
		return false, false, nil
	}
	ready, err = b.commitLocked(ctx, party)
	return true, ready, err
}

// ReleaseCommit abandons a party's ready gesture. Nothing is committed.
func (b *Battle) ReleaseCommit(party game.PartyID) error {
	if !party.Valid() {
		return game.Reject(game.CodeUnknownParty, "no party %d", int(party))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hold.Release(party)
	return nil
}

// ResolveTurn runs one resolution pass. Afterwards the battle is either
// finished or back in selection with every commitment cleared.
func (b *Battle) ResolveTurn(ctx context.Context) (*game.TurnResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return b.resolveLocked(ctx)
}

func (b *Battle) resolveLocked(ctx context.Context) (*game.TurnResult, error) {
	// Both exits from combat must be open before the engine touches state.
	if !b.machine.Can(EventContinue) || !b.machine.Can(EventFinish) {
		return nil, game.Reject(game.CodeWrongPhase, "resolve requires phase %s, machine is in %s", game.PhaseCombat, b.machine.Current())
	}
	res, err := engine.ResolveTurn(b.state)
	if err != nil {
		return nil, err
	}
	if res.Finished() {
		if err := fire(ctx, b.machine, EventFinish); err != nil {
			return nil, err
		}
		b.deadline = time.Time{}
		b.finishedAt = b.now()
		logging.Info("battle finished", logging.Fields{
			constants.LogFieldBattleID: b.id,
			constants.LogFieldTurn:     res.Turn,
			constants.LogFieldWinner:   string(res.Winner),
		})
	} else {
		readiness.Reset(b.state)
		b.hold.Reset()
		if err := fire(ctx, b.machine, EventContinue); err != nil {
			return nil, err
		}
		b.armDeadline()
	}
	b.touch()
	b.notify(remote.EventTurnComplete, b.port.OnTurnComplete(ctx, remote.TurnCompleted{
		BattleID: b.id,
		Phase:    b.state.Phase,
		Winner:   b.state.Winner,
		Result:   res,
	}))
	return res, nil
}

// Expired reports whether the selection deadline has passed.
func (b *Battle) Expired(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.expiredLocked(now)
}

func (b *Battle) expiredLocked(now time.Time) bool {
	return !b.abandoned && b.state.Phase == game.PhaseSelection && !b.deadline.IsZero() && now.After(b.deadline)
}

// FinishedBefore reports whether the battle ended before cutoff. A battle
// that is still being played, or was restarted by a rematch, never is.
func (b *Battle) FinishedBefore(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.finishedAt.IsZero() && b.finishedAt.Before(cutoff)
}

// ForceCommit locks every party that has not committed yet and resolves
// the turn, provided the selection deadline had passed at now. Living
// members without a selection skip. It returns a nil result when the
// deadline has not passed.
func (b *Battle) ForceCommit(ctx context.Context, now time.Time) (*game.TurnResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.expiredLocked(now) {
		return nil, nil
	}
	for _, party := range []game.PartyID{game.PartyA, game.PartyB} {
		if b.state.Locked[party] {
			continue
		}
		if _, err := b.commitLocked(ctx, party); err != nil {
			return nil, err
		}
	}
	if b.state.Phase != game.PhaseCombat {
		return nil, game.Reject(game.CodeWrongPhase, "battle did not reach combat")
	}
	return b.resolveLocked(ctx)
}

// Rematch discards the finished battle and starts a new one. Nil rosters
// reuse the previous ones.
func (b *Battle) Rematch(ctx context.Context, partyA, partyB []*game.Combatant) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkOpen(); err != nil {
		return err
	}
	if b.state.Phase != game.PhaseFinished {
		return game.Reject(game.CodeWrongPhase, "rematch only after the battle is finished, phase is %s", b.state.Phase)
	}
	next := b.rosters
	if partyA != nil {
		next[game.PartyA] = cloneRoster(partyA)
	}
	if partyB != nil {
		next[game.PartyB] = cloneRoster(partyB)
	}
	if len(next[game.PartyA]) == 0 || len(next[game.PartyB]) == 0 {
		return game.Reject(game.CodeEmptyRoster, "both parties need at least one combatant")
	}
	if err := fire(ctx, b.machine, EventRematch); err != nil {
		return err
	}
	b.rosters = next
	return b.setup(ctx)
}

// Abandon ends the battle for good. It is refused mid-resolution.
func (b *Battle) Abandon(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.abandoned {
		return nil
	}
	switch b.state.Phase {
	case game.PhaseSelection:
		if err := fire(ctx, b.machine, EventFinish); err != nil {
			return err
		}
	case game.PhaseFinished:
	default:
		return game.Reject(game.CodeWrongPhase, "cannot abandon while %s", b.state.Phase)
	}
	b.abandoned = true
	b.deadline = time.Time{}
	if b.finishedAt.IsZero() {
		b.finishedAt = b.now()
	}
	b.touch()
	logging.Info("battle abandoned", logging.Fields{constants.LogFieldBattleID: b.id})
	return nil
}

// State returns the machine state, which may be setup between a rematch
// and the next selection.
func (b *Battle) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.machine.Current()
}
