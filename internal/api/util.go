package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/logging"
	"github.com/zawodev/zawomons/internal/service"
)

// battleIDParam returns the trimmed battle id path parameter, or writes a
// 400 and returns false.
func battleIDParam(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param(constants.ParamBattleID))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return "", false
	}
	return id, true
}

// partyParam parses the party path parameter ("a", "b", "party_a" ...).
func partyParam(c *gin.Context) (game.PartyID, bool) {
	p, ok := game.ParsePartyID(c.Param(constants.ParamParty))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			constants.JSONKeyError: constants.ErrInvalidParty,
			constants.JSONKeyCode:  game.CodeUnknownParty,
		})
		return 0, false
	}
	return p, true
}

// rejectionStatus maps a rejection code to an HTTP status.
func rejectionStatus(code game.RejectionCode) int {
	switch code {
	case game.CodeWrongPhase, game.CodeBattleFinished, game.CodePartyLocked:
		return http.StatusConflict
	case game.CodeUnknownParticipant:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// writeError turns a service error into a JSON response. Unknown errors are
// logged and reported as fallback with a 500.
func writeError(c *gin.Context, err error, fallback string) {
	var rej *game.Rejection
	switch {
	case errors.Is(err, service.ErrBattleNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
	case errors.Is(err, service.ErrRosterSize), errors.Is(err, service.ErrUnknownCombatant):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
	case errors.As(err, &rej):
		c.JSON(rejectionStatus(rej.Code), gin.H{
			constants.JSONKeyError: rej.Error(),
			constants.JSONKeyCode:  rej.Code,
		})
	default:
		logging.Error(fallback, err, logging.Fields{constants.LogFieldBattleID: c.Param(constants.ParamBattleID)})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: fallback})
	}
}

// noCache marks responses that carry live battle state.
func noCache(c *gin.Context) {
	c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
}
