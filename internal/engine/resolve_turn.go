package engine

import "github.com/zawodev/zawomons/internal/game"

// finalizeTurn evaluates the end condition, stamps the winner and advances
// the turn counter.
func (tc *turnContext) finalizeTurn() {
	aDown := tc.b.Defeated(game.PartyA)
	bDown := tc.b.Defeated(game.PartyB)
	switch {
	case aDown && bDown:
		tc.b.Winner = game.WinnerDraw
		tc.add("Both parties are defeated. Draw.")
	case aDown:
		tc.b.Winner = game.WinnerPartyB
		tc.add("Victory for party B")
	case bDown:
		tc.b.Winner = game.WinnerPartyA
		tc.add("Victory for party A")
	default:
		tc.b.Winner = game.WinnerNone
	}

	tc.b.Turn = tc.result.Turn
	tc.result.Winner = tc.b.Winner
	tc.result.Summary = tc.summary
	tc.b.LastTurn = tc.result
}

// ResolveTurn is the main entry point for resolving a turn. It orders every
// living committed participant, applies their spells effect by effect and
// evaluates the end condition. The battle must be in the combat phase; on
// return the phase is untouched so the caller (the lifecycle) can move it to
// selection or finished.
//
// ResolveTurn runs to completion once invoked and never blocks.
func ResolveTurn(b *game.Battle) (*game.TurnResult, error) {
	if b.Phase != game.PhaseCombat {
		return nil, game.Reject(game.CodeWrongPhase, "resolve requires phase %s, battle is in %s", game.PhaseCombat, b.Phase)
	}
	tc := newTurnContext(b)

	order := tc.buildOrder()
	tc.executeOrder(order)
	tc.finalizeTurn()

	return tc.result, nil
}
