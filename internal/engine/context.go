package engine

import (
	"fmt"

	"github.com/zawodev/zawomons/internal/game"
)

// --- Turn context and helpers -----------------------------------------
type turnContext struct {
	b       *game.Battle
	result  *game.TurnResult
	summary []string
}

func newTurnContext(b *game.Battle) *turnContext {
	return &turnContext{
		b:       b,
		result:  &game.TurnResult{Turn: b.Turn + 1, Winner: game.WinnerNone},
		summary: make([]string, 0, 16),
	}
}

func (tc *turnContext) add(format string, args ...any) {
	tc.summary = append(tc.summary, fmt.Sprintf(format, args...))
}

func (tc *turnContext) skip(p *game.Participant) {
	tc.result.Skipped = append(tc.result.Skipped, p.ID)
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
