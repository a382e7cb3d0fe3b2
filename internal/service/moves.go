package service

import (
	"context"
	"time"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/lifecycle"
	"github.com/zawodev/zawomons/internal/logging"
)

// SelectMove stores a participant's spell and target for the current turn.
func SelectMove(ctx context.Context, repo BattleRepo, battleID string, participant game.ParticipantID, spellID string, target game.ParticipantID) (*Outcome, error) {
	b, err := getBattle(repo, battleID)
	if err != nil {
		return nil, err
	}
	if err := b.SelectMove(ctx, participant, spellID, target); err != nil {
		return nil, err
	}
	return &Outcome{Battle: b.Snapshot()}, nil
}

// CommitParty locks a party in and resolves the turn as soon as both
// parties are ready.
func CommitParty(ctx context.Context, repo BattleRepo, battleID string, party game.PartyID) (*Outcome, error) {
	b, err := getBattle(repo, battleID)
	if err != nil {
		return nil, err
	}
	ready, err := b.CommitParty(ctx, party)
	if err != nil {
		return nil, err
	}
	return afterCommit(ctx, b, ready, false)
}

// HoldCommit feeds a party's sustained ready gesture. The party commits once
// the hold threshold is reached.
func HoldCommit(ctx context.Context, repo BattleRepo, battleID string, party game.PartyID, held time.Duration) (*Outcome, error) {
	b, err := getBattle(repo, battleID)
	if err != nil {
		return nil, err
	}
	fired, ready, err := b.HoldCommit(ctx, party, held)
	if err != nil {
		return nil, err
	}
	return afterCommit(ctx, b, ready, fired)
}

// ReleaseCommit cancels a party's ready gesture without committing.
func ReleaseCommit(repo BattleRepo, battleID string, party game.PartyID) (*Outcome, error) {
	b, err := getBattle(repo, battleID)
	if err != nil {
		return nil, err
	}
	if err := b.ReleaseCommit(party); err != nil {
		return nil, err
	}
	return &Outcome{Battle: b.Snapshot()}, nil
}

func afterCommit(ctx context.Context, b *lifecycle.Battle, ready, fired bool) (*Outcome, error) {
	out := &Outcome{Fired: fired}
	if ready {
		res, err := b.ResolveTurn(ctx)
		if err != nil {
			return nil, err
		}
		out.Resolved = true
		out.Turn = res
		logging.Info("turn resolved", logging.Fields{
			constants.LogFieldBattleID: b.ID(),
			constants.LogFieldTurn:     res.Turn,
			constants.LogFieldWinner:   string(res.Winner),
		})
	}
	out.Battle = b.Snapshot()
	return out, nil
}

// GetBattle returns a snapshot of a battle.
func GetBattle(repo BattleRepo, battleID string) (*lifecycle.Snapshot, error) {
	b, err := getBattle(repo, battleID)
	if err != nil {
		return nil, err
	}
	s := b.Snapshot()
	return &s, nil
}
