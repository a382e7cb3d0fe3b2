package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/logging"
	"github.com/zawodev/zawomons/internal/service"
)

// CreateBattle starts a battle between two named rosters.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req service.StartBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	b, err := service.StartBattle(c.Request.Context(), h.battles, h.catalog, h.port, h.settings, req)
	if err != nil {
		writeError(c, err, constants.ErrFailedCreateBattle)
		return
	}
	noCache(c)
	c.JSON(http.StatusCreated, b.Snapshot())
}

// GetBattle returns the current battle snapshot.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	id, ok := battleIDParam(c)
	if !ok {
		return
	}
	s, err := service.GetBattle(h.battles, id)
	if err != nil {
		writeError(c, err, constants.ErrBattleNotFound)
		return
	}
	noCache(c)
	c.JSON(http.StatusOK, s)
}

type MoveRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
	// SpellID empty means the participant skips this turn.
	SpellID  string `json:"spell_id"`
	TargetID string `json:"target_id"`
}

// SelectMove records one participant's spell and optional target.
func (h *BattleHandler) SelectMove(c *gin.Context) {
	id, ok := battleIDParam(c)
	if !ok {
		return
	}
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	participant := game.ParticipantID(strings.ToUpper(strings.TrimSpace(req.ParticipantID)))
	target := game.ParticipantID(strings.ToUpper(strings.TrimSpace(req.TargetID)))
	out, err := service.SelectMove(c.Request.Context(), h.battles, id, participant, strings.TrimSpace(req.SpellID), target)
	if err != nil {
		writeError(c, err, constants.ErrInvalidRequest)
		return
	}
	noCache(c)
	c.JSON(http.StatusOK, out)
}

// CommitParty locks a party in. When both parties are locked the turn is
// resolved before responding.
func (h *BattleHandler) CommitParty(c *gin.Context) {
	id, ok := battleIDParam(c)
	if !ok {
		return
	}
	party, ok := partyParam(c)
	if !ok {
		return
	}
	out, err := service.CommitParty(c.Request.Context(), h.battles, id, party)
	if err != nil {
		writeError(c, err, constants.ErrInvalidRequest)
		return
	}
	noCache(c)
	c.JSON(http.StatusOK, out)
}

type HoldRequest struct {
	HeldMS int64 `json:"held_ms"`
}

// HoldCommit reports how long a party's ready gesture has been held since
// the previous report.
func (h *BattleHandler) HoldCommit(c *gin.Context) {
	id, ok := battleIDParam(c)
	if !ok {
		return
	}
	party, ok := partyParam(c)
	if !ok {
		return
	}
	var req HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.HeldMS < 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	out, err := service.HoldCommit(c.Request.Context(), h.battles, id, party, time.Duration(req.HeldMS)*time.Millisecond)
	if err != nil {
		writeError(c, err, constants.ErrInvalidRequest)
		return
	}
	noCache(c)
	c.JSON(http.StatusOK, out)
}

// ReleaseCommit abandons a party's ready gesture.
func (h *BattleHandler) ReleaseCommit(c *gin.Context) {
	id, ok := battleIDParam(c)
	if !ok {
		return
	}
	party, ok := partyParam(c)
	if !ok {
		return
	}
	out, err := service.ReleaseCommit(h.battles, id, party)
	if err != nil {
		writeError(c, err, constants.ErrInvalidRequest)
		return
	}
	noCache(c)
	c.JSON(http.StatusOK, out)
}

// Rematch restarts a finished battle, optionally with new rosters.
func (h *BattleHandler) Rematch(c *gin.Context) {
	id, ok := battleIDParam(c)
	if !ok {
		return
	}
	var req service.RematchRequest
	// An empty body keeps both rosters.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
	}
	s, err := service.Rematch(c.Request.Context(), h.battles, h.catalog, h.settings, id, req)
	if err != nil {
		writeError(c, err, constants.ErrFailedCreateBattle)
		return
	}
	noCache(c)
	c.JSON(http.StatusOK, s)
}

// AbandonBattle ends a battle and disconnects its remote subscribers.
func (h *BattleHandler) AbandonBattle(c *gin.Context) {
	id, ok := battleIDParam(c)
	if !ok {
		return
	}
	if err := service.Abandon(c.Request.Context(), h.battles, id); err != nil {
		writeError(c, err, constants.ErrInvalidRequest)
		return
	}
	if h.hub != nil {
		h.hub.Close(id)
	}
	c.Status(http.StatusNoContent)
}

// WatchBattle upgrades to a websocket that mirrors the battle's remote
// notifications.
func (h *BattleHandler) WatchBattle(c *gin.Context) {
	id, ok := battleIDParam(c)
	if !ok {
		return
	}
	if _, err := service.GetBattle(h.battles, id); err != nil {
		writeError(c, err, constants.ErrBattleNotFound)
		return
	}
	if h.hub == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	// The upgrader writes its own error response.
	if err := h.hub.Serve(c.Writer, c.Request, id); err != nil {
		logging.Warn(constants.ErrFailedUpgradeWebsocket, err, logging.Fields{constants.LogFieldBattleID: id})
	}
}
