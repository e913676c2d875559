package match

import (
	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/gin-gonic/gin"
)

// MatchRoutes sets up all match-related routes.
func MatchRoutes(router *gin.RouterGroup, service *MatchService, jwtSecret string) {
	matchController := NewMatchController(service)

	// Public read routes
	router.GET("/matches/active", matchController.GetActiveMatch)
	router.GET("/matches/:id", matchController.GetMatchByID)
	router.GET("/matches/:id/balls", matchController.ListBalls)

	// Authenticated routes
	authRoutes := router.Group("/matches")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret))
	{
		authRoutes.POST("", matchController.CreateMatch)
		authRoutes.POST("/:id/toss", matchController.RecordToss)
		authRoutes.POST("/:id/authorized-users", matchController.AuthorizeUser)

		// Squads
		authRoutes.POST("/:id/squads/:team_id/players", matchController.AddPlayerToSquad)
		authRoutes.DELETE("/:id/squads/:team_id/players/:player_id", matchController.RemovePlayerFromSquad)

		// Lifecycle
		authRoutes.POST("/:id/start", matchController.StartMatch)
		authRoutes.POST("/:id/second-innings", matchController.SwitchToSecondInnings)
		authRoutes.POST("/:id/end", matchController.EndMatch)
		authRoutes.POST("/:id/abandon", matchController.AbandonMatch)
		authRoutes.POST("/:id/rematch", matchController.CreateRematch)

		// Scoring
		authRoutes.POST("/:id/balls", matchController.RecordBall)
		authRoutes.DELETE("/:id/balls/last", matchController.UndoLastBall)
		authRoutes.POST("/:id/bowler", matchController.ChangeBowler)
		authRoutes.POST("/:id/batters", matchController.SelectBatter)
	}
}
