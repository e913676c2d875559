package player

import (
	"net/http"
	"strconv"

	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/pkg/responses"
	"github.com/gin-gonic/gin"
)

// PlayerController handles player pool HTTP requests
type PlayerController struct {
	repo PlayerRepository
}

// NewPlayerController creates a new player controller
func NewPlayerController(repo PlayerRepository) *PlayerController {
	return &PlayerController{repo: repo}
}

// CreatePlayer godoc
// @Summary      Add a player to the pool
// @Description  Creates a reusable player that any match can draft into a squad.
// @Tags         Players
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        player  body  CreatePlayerRequest  true  "Player details"
// @Success      201  {object}  responses.SuccessResponse{data=Player}
// @Failure      400  {object}  responses.ErrorResponse "Validation error"
// @Failure      401  {object}  responses.ErrorResponse "Unauthorized"
// @Router       /players [post]
func (pc *PlayerController) CreatePlayer(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	p := &Player{DisplayName: req.DisplayName, CreatedByID: userID}
	if err := pc.repo.CreatePlayer(c.Request.Context(), p); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Player created successfully", p)
}

// GetPlayerByID godoc
// @Summary      Get a player
// @Tags         Players
// @Produce      json
// @Param        id   path  int  true  "Player ID"
// @Success      200  {object}  responses.SuccessResponse{data=Player}
// @Failure      404  {object}  responses.ErrorResponse "Player not found"
// @Router       /players/{id} [get]
func (pc *PlayerController) GetPlayerByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		responses.BadRequest(c, "Invalid player ID")
		return
	}

	p, err := pc.repo.GetPlayerByID(c.Request.Context(), uint(id))
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", p)
}

// SearchPlayers godoc
// @Summary      Search the player pool
// @Description  Case and accent insensitive substring search on display names.
// @Tags         Players
// @Produce      json
// @Param        q          query  string  false  "Name fragment"
// @Param        page       query  int     false  "Page number" default(1)
// @Param        page_size  query  int     false  "Page size" default(20)
// @Success      200  {object}  responses.PaginatedResponse{data=[]Player}
// @Router       /players [get]
func (pc *PlayerController) SearchPlayers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	players, total, err := pc.repo.SearchPlayers(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Players retrieved successfully", players, total, page, pageSize)
}
