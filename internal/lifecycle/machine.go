// Package lifecycle drives one battle through setup, selection, combat and
// finished. A Battle is owned by its caller; all of its methods are safe for
// concurrent use and serialize against the battle state.
package lifecycle

import (
	"context"
	"errors"

	"github.com/looplab/fsm"

	"github.com/zawodev/zawomons/internal/game"
)

// Machine states. Selection, combat and finished mirror game.Phase.
const (
	StateSetup     = "setup"
	StateSelection = string(game.PhaseSelection)
	StateCombat    = string(game.PhaseCombat)
	StateFinished  = string(game.PhaseFinished)
)

// Machine events.
const (
	EventBegin    = "begin"
	EventEngage   = "engage"
	EventContinue = "continue"
	EventFinish   = "finish"
	EventRematch  = "rematch"
)

func newMachine(onEnter func(state string)) *fsm.FSM {
	return fsm.NewFSM(
		StateSetup,
		fsm.Events{
			{Name: EventBegin, Src: []string{StateSetup}, Dst: StateSelection},
			{Name: EventEngage, Src: []string{StateSelection}, Dst: StateCombat},
			{Name: EventContinue, Src: []string{StateCombat}, Dst: StateSelection},
			// selection -> finished is only used when a battle is abandoned
			{Name: EventFinish, Src: []string{StateCombat, StateSelection}, Dst: StateFinished},
			{Name: EventRematch, Src: []string{StateFinished}, Dst: StateSetup},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				onEnter(e.Dst)
			},
		},
	)
}

// fire runs a machine event, turning a refused transition into a phase
// rejection. Transitions always complete: the caller's cancellation is
// dropped so a half-applied turn can never strand the machine.
func fire(ctx context.Context, m *fsm.FSM, event string) error {
	err := m.Event(context.WithoutCancel(ctx), event)
	if err == nil {
		return nil
	}
	var invalid fsm.InvalidEventError
	if errors.As(err, &invalid) {
		return game.Reject(game.CodeWrongPhase, "cannot %s while %s", event, m.Current())
	}
	return err
}
