package player

import (
	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/gin-gonic/gin"
)

// PlayerRoutes sets up the player pool routes.
func PlayerRoutes(router *gin.RouterGroup, repo PlayerRepository, jwtSecret string) {
	playerController := NewPlayerController(repo)

	router.GET("/players", playerController.SearchPlayers)
	router.GET("/players/:id", playerController.GetPlayerByID)

	authRoutes := router.Group("/players")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret))
	{
		authRoutes.POST("", playerController.CreatePlayer)
	}
}
