package remote

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/logging"
)

// Envelope types written to subscribers.
const (
	EventBattleStart  = "battle_start"
	EventMoveSelected = "move_selected"
	EventTurnComplete = "turn_complete"
)

const writeWait = 5 * time.Second

// Envelope is the JSON frame sent to websocket subscribers.
type Envelope struct {
	Type     string `json:"type"`
	BattleID string `json:"battle_id"`
	Data     any    `json:"data"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// sendBuffer is how many envelopes may wait for one slow socket before it
// is dropped.
const sendBuffer = 32

// subscriber owns one socket. Envelopes are queued on out and written by a
// dedicated goroutine, so a slow client only ever stalls itself.
type subscriber struct {
	conn *websocket.Conn
	out  chan Envelope
	once sync.Once
}

func newSubscriber(conn *websocket.Conn) *subscriber {
	return &subscriber{conn: conn, out: make(chan Envelope, sendBuffer)}
}

// writeLoop drains out until it is closed, then closes the socket.
func (s *subscriber) writeLoop(battleID string) {
	defer func() { _ = s.conn.Close() }()
	for e := range s.out {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteJSON(e); err != nil {
			logging.Warn("ws: write failed", err, logging.Fields{
				constants.LogFieldBattleID: battleID,
				constants.LogFieldEvent:    e.Type,
			})
			return
		}
	}
}

// enqueue never blocks. It reports false when the buffer is full.
func (s *subscriber) enqueue(e Envelope) bool {
	select {
	case s.out <- e:
		return true
	default:
		return false
	}
}

// stop ends the write loop. Only call it after the subscriber has been
// removed from the hub, under the hub's write lock.
func (s *subscriber) stop() {
	s.once.Do(func() { close(s.out) })
}

// Hub mirrors notifications to every websocket subscribed to the battle.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: map[string]map[*subscriber]struct{}{}}
}

// Serve upgrades the request and keeps the subscriber registered until the
// client goes away. Incoming frames are read and discarded.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, battleID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	s := newSubscriber(conn)
	h.add(battleID, s)
	logging.Info("remote subscriber connected", logging.Fields{
		constants.LogFieldBattleID: battleID,
		constants.LogFieldAddr:     r.RemoteAddr,
	})
	go s.writeLoop(battleID)
	go func() {
		defer h.remove(battleID, s)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// Subscribers returns how many sockets watch the battle.
func (h *Hub) Subscribers(battleID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[battleID])
}

// Close drops every subscriber of a battle. Envelopes already queued are
// still written before each socket closes.
func (h *Hub) Close(battleID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[battleID] {
		s.stop()
	}
	delete(h.subs, battleID)
}

func (h *Hub) add(battleID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[battleID]
	if !ok {
		set = map[*subscriber]struct{}{}
		h.subs[battleID] = set
	}
	set[s] = struct{}{}
}

func (h *Hub) remove(battleID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[battleID]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, battleID)
	}
	s.stop()
}

// broadcast queues e for every subscriber of its battle without waiting on
// any socket. Subscribers whose buffer is full are dropped.
func (h *Hub) broadcast(e Envelope) {
	var slow []*subscriber
	h.mu.RLock()
	for s := range h.subs[e.BattleID] {
		if !s.enqueue(e) {
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()
	for _, s := range slow {
		logging.Warn("ws: subscriber too slow, dropping", nil, logging.Fields{
			constants.LogFieldBattleID: e.BattleID,
			constants.LogFieldEvent:    e.Type,
		})
		h.remove(e.BattleID, s)
	}
}

func (h *Hub) OnBattleStart(_ context.Context, d BattleStarted) error {
	h.broadcast(Envelope{Type: EventBattleStart, BattleID: d.BattleID, Data: d})
	return nil
}

func (h *Hub) OnMoveSelected(_ context.Context, d MoveSelected) error {
	h.broadcast(Envelope{Type: EventMoveSelected, BattleID: d.BattleID, Data: d})
	return nil
}

func (h *Hub) OnTurnComplete(_ context.Context, d TurnCompleted) error {
	h.broadcast(Envelope{Type: EventTurnComplete, BattleID: d.BattleID, Data: d})
	return nil
}
