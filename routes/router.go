package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/DhavalSuthar-24/crease/config"
	"github.com/DhavalSuthar-24/crease/internal/live"
	"github.com/DhavalSuthar-24/crease/internal/match"
	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/internal/player"
)

// Dependencies are the wired services the HTTP layer exposes.
type Dependencies struct {
	Config  *config.Config
	Matches *match.MatchService
	Players player.PlayerRepository
	Hub     *live.Hub
}

func SetupRoutes(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(mw.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", mw.RequestIDHeader},
		ExposeHeaders:    []string{mw.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "crease",
			"status":  "ok",
			"docs":    "/swagger/index.html",
		})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Live feed
	if deps.Hub != nil {
		r.GET("/ws/matches/:id", live.NewHandler(deps.Hub, cfg.App.FrontendURL).ServeMatch)
	}

	// API routes
	api := r.Group("/api")
	player.PlayerRoutes(api, deps.Players, cfg.JWT.AccessTokenSecret)
	match.MatchRoutes(api, deps.Matches, cfg.JWT.AccessTokenSecret)

	return r
}
