package api

import (
	"github.com/gin-gonic/gin"

	"github.com/zawodev/zawomons/internal/constants"
)

// NewRouter wires every route under the API prefix.
func NewRouter(h *BattleHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteHealthz, Healthz)
		apiRoutes.GET(constants.RouteVersion, Version)

		apiRoutes.GET(constants.RouteCombatants, h.ListCombatants)
		apiRoutes.GET(constants.RouteSpells, h.ListSpells)

		apiRoutes.POST(constants.RouteBattles, h.CreateBattle)
		apiRoutes.GET(constants.RouteBattleByID, h.GetBattle)
		apiRoutes.DELETE(constants.RouteBattleByID, h.AbandonBattle)
		apiRoutes.POST(constants.RouteBattleMoves, h.SelectMove)
		apiRoutes.POST(constants.RoutePartyCommit, h.CommitParty)
		apiRoutes.POST(constants.RoutePartyHold, h.HoldCommit)
		apiRoutes.POST(constants.RoutePartyRelease, h.ReleaseCommit)
		apiRoutes.POST(constants.RouteBattleRematch, h.Rematch)
		apiRoutes.GET(constants.RouteBattleWS, h.WatchBattle)
	}
	return router
}
