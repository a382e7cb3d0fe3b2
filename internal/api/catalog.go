package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/logging"
)

type combatantView struct {
	*game.Combatant
	Level int `json:"level"`
}

// ListCombatants returns the roster catalog with derived levels.
func (h *BattleHandler) ListCombatants(c *gin.Context) {
	list, err := h.catalog.ListCombatants()
	if err != nil {
		logging.Error(constants.ErrFailedFetchCombatants, err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCombatants})
		return
	}
	out := make([]combatantView, 0, len(list))
	for _, cb := range list {
		out = append(out, combatantView{Combatant: cb, Level: cb.Level()})
	}
	c.JSON(http.StatusOK, out)
}

// ListSpells returns every spell definition.
func (h *BattleHandler) ListSpells(c *gin.Context) {
	list, err := h.catalog.ListSpells()
	if err != nil {
		logging.Error(constants.ErrFailedFetchSpells, err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchSpells})
		return
	}
	c.JSON(http.StatusOK, list)
}
