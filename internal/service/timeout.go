package service

import (
	"context"
	"time"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/lifecycle"
	"github.com/zawodev/zawomons/internal/logging"
)

// HandleExpiredSelection applies deadline resolution for a single battle.
// Behavior:
//   - the selection window is still open -> nothing happens
//   - otherwise every party that has not committed is locked in, living
//     members without a selection skip, and the turn is resolved
//
// It reports whether a turn was resolved.
func HandleExpiredSelection(ctx context.Context, b *lifecycle.Battle, now time.Time) (bool, error) {
	res, err := b.ForceCommit(ctx, now)
	if err != nil || res == nil {
		return false, err
	}
	logging.Info("selection deadline passed; forced commit", logging.Fields{
		constants.LogFieldBattleID: b.ID(),
		constants.LogFieldTurn:     res.Turn,
		constants.LogFieldWinner:   string(res.Winner),
	})
	return true, nil
}

// ExpireSelections runs HandleExpiredSelection over every expired battle and
// reports how many turns were resolved.
func ExpireSelections(ctx context.Context, repo interface {
	FindExpired(now time.Time) []*lifecycle.Battle
}, now time.Time) int {
	n := 0
	for _, b := range repo.FindExpired(now) {
		resolved, err := HandleExpiredSelection(ctx, b, now)
		if err != nil {
			logging.Error("failed to resolve expired selection", err, logging.Fields{constants.LogFieldBattleID: b.ID()})
			continue
		}
		if resolved {
			n++
		}
	}
	return n
}

// ReapFinished forgets battles that ended more than ttl before now and
// returns their ids so transports can drop their subscribers. A zero ttl
// keeps finished battles until they are abandoned.
func ReapFinished(repo interface {
	FindFinished(before time.Time) []*lifecycle.Battle
	Delete(id string) error
}, now time.Time, ttl time.Duration) []string {
	if ttl <= 0 {
		return nil
	}
	var reaped []string
	for _, b := range repo.FindFinished(now.Add(-ttl)) {
		if err := repo.Delete(b.ID()); err != nil {
			logging.Warn("failed to drop finished battle", err, logging.Fields{constants.LogFieldBattleID: b.ID()})
			continue
		}
		reaped = append(reaped, b.ID())
	}
	if len(reaped) > 0 {
		logging.Info("finished battles dropped", logging.Fields{constants.LogFieldCount: len(reaped)})
	}
	return reaped
}
