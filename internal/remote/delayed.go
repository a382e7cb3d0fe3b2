package remote

import (
	"context"
	"sync"
	"time"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/logging"
)

type delivery struct {
	ctx      context.Context
	due      time.Time
	event    string
	battleID string
	send     func(context.Context) error
}

// Delayed forwards notifications to an inner port after a fixed latency.
// Calls return immediately and deliveries happen on a single background
// goroutine in the order they were made, so the inner port must return
// promptly. Hub only queues per subscriber. Delivery errors are logged.
type Delayed struct {
	inner   Port
	latency time.Duration

	mu      sync.Mutex
	pending []delivery
	wake    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func NewDelayed(inner Port, latency time.Duration) *Delayed {
	if inner == nil {
		inner = Offline{}
	}
	return &Delayed{inner: inner, latency: latency, wake: make(chan struct{}, 1)}
}

func (d *Delayed) dispatch(ctx context.Context, event, battleID string, send func(context.Context) error) {
	d.once.Do(func() { go d.run() })
	d.wg.Add(1)
	d.mu.Lock()
	d.pending = append(d.pending, delivery{
		// the caller's request context ends long before delivery
		ctx:      context.WithoutCancel(ctx),
		due:      time.Now().Add(d.latency),
		event:    event,
		battleID: battleID,
		send:     send,
	})
	d.mu.Unlock()
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Delayed) run() {
	for {
		d.mu.Lock()
		if len(d.pending) == 0 {
			d.mu.Unlock()
			<-d.wake
			continue
		}
		next := d.pending[0]
		d.pending = d.pending[1:]
		d.mu.Unlock()

		if wait := time.Until(next.due); wait > 0 {
			time.Sleep(wait)
		}
		if err := next.send(next.ctx); err != nil {
			logging.Warn("remote delivery failed", err, logging.Fields{
				constants.LogFieldEvent:    next.event,
				constants.LogFieldBattleID: next.battleID,
			})
		}
		d.wg.Done()
	}
}

func (d *Delayed) OnBattleStart(ctx context.Context, m BattleStarted) error {
	d.dispatch(ctx, EventBattleStart, m.BattleID, func(ctx context.Context) error {
		return d.inner.OnBattleStart(ctx, m)
	})
	return nil
}

func (d *Delayed) OnMoveSelected(ctx context.Context, m MoveSelected) error {
	d.dispatch(ctx, EventMoveSelected, m.BattleID, func(ctx context.Context) error {
		return d.inner.OnMoveSelected(ctx, m)
	})
	return nil
}

func (d *Delayed) OnTurnComplete(ctx context.Context, m TurnCompleted) error {
	d.dispatch(ctx, EventTurnComplete, m.BattleID, func(ctx context.Context) error {
		return d.inner.OnTurnComplete(ctx, m)
	})
	return nil
}

// Wait blocks until every delivery queued so far has run.
func (d *Delayed) Wait() {
	d.wg.Wait()
}
