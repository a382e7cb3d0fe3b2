// Package remote mirrors battle progress to collaborators outside the
// process. Every call is a notification: the local battle is authoritative
// and never waits on, or changes because of, a port.
package remote

import (
	"context"
	"time"

	"github.com/zawodev/zawomons/internal/game"
)

// BattleStarted is sent once per battle, including after a rematch.
type BattleStarted struct {
	BattleID  string    `json:"battle_id"`
	Round     int       `json:"round"`
	PartyA    []string  `json:"party_a"`
	PartyB    []string  `json:"party_b"`
	StartedAt time.Time `json:"started_at"`
}

// MoveSelected is sent for every accepted selection.
type MoveSelected struct {
	BattleID    string             `json:"battle_id"`
	Turn        int                `json:"turn"`
	Participant game.ParticipantID `json:"participant"`
	SpellID     string             `json:"spell_id,omitempty"`
	Target      game.ParticipantID `json:"target,omitempty"`
}

// TurnCompleted carries the result of one resolution pass.
type TurnCompleted struct {
	BattleID string           `json:"battle_id"`
	Phase    game.Phase       `json:"phase"`
	Winner   game.Winner      `json:"winner"`
	Result   *game.TurnResult `json:"result"`
}

// Port is implemented by whatever mirrors a battle. An offline battle uses
// Offline.
type Port interface {
	OnBattleStart(ctx context.Context, d BattleStarted) error
	OnMoveSelected(ctx context.Context, d MoveSelected) error
	OnTurnComplete(ctx context.Context, d TurnCompleted) error
}

// Offline discards every notification.
type Offline struct{}

func (Offline) OnBattleStart(context.Context, BattleStarted) error  { return nil }
func (Offline) OnMoveSelected(context.Context, MoveSelected) error  { return nil }
func (Offline) OnTurnComplete(context.Context, TurnCompleted) error { return nil }

// Fanout forwards each notification to every port in order and returns the
// first error after all of them were called.
type Fanout []Port

func (f Fanout) OnBattleStart(ctx context.Context, d BattleStarted) error {
	var first error
	for _, p := range f {
		if err := p.OnBattleStart(ctx, d); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f Fanout) OnMoveSelected(ctx context.Context, d MoveSelected) error {
	var first error
	for _, p := range f {
		if err := p.OnMoveSelected(ctx, d); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f Fanout) OnTurnComplete(ctx context.Context, d TurnCompleted) error {
	var first error
	for _, p := range f {
		if err := p.OnTurnComplete(ctx, d); err != nil && first == nil {
			first = err
		}
	}
	return first
}
