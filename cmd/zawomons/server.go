package main

import (
	"context"
	"time"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/logging"
	"github.com/zawodev/zawomons/internal/remote"
	"github.com/zawodev/zawomons/internal/service"
	"github.com/zawodev/zawomons/internal/storage"
)

const scanInterval = time.Second

// startBattleScanner force-commits battles whose selection deadline has
// passed and drops battles finished for longer than finishedTTL, until ctx
// is done.
func startBattleScanner(ctx context.Context, repo storage.BattleRepository, hub *remote.Hub, finishedTTL time.Duration) {
	go func() {
		ticker := time.NewTicker(scanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := service.ExpireSelections(ctx, repo, now); n > 0 {
					logging.Info("expired selections resolved", logging.Fields{constants.LogFieldCount: n})
				}
				for _, id := range service.ReapFinished(repo, now, finishedTTL) {
					hub.Close(id)
				}
			}
		}
	}()
}
