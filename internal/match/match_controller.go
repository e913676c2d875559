package match

import (
	"net/http"
	"strconv"

	"github.com/DhavalSuthar-24/crease/pkg/responses"
	"github.com/gin-gonic/gin"
)

// MatchController handles match-related HTTP requests
type MatchController struct {
	service *MatchService
}

// NewMatchController creates a new match controller
func NewMatchController(service *MatchService) *MatchController {
	return &MatchController{service: service}
}

// --- DTOs for requests ---

// SquadPlayerRequest names a pool player to draft into a squad
type SquadPlayerRequest struct {
	PlayerID uint `json:"player_id" binding:"required"`
}

// ChangeBowlerRequest selects the bowler of the next delivery
type ChangeBowlerRequest struct {
	BowlerID uint `json:"bowler_id" binding:"required"`
}

// SelectBatterRequest fills an empty crease slot
type SelectBatterRequest struct {
	Slot     BatterSlot `json:"slot" binding:"required,oneof=striker non_striker"`
	PlayerID uint       `json:"player_id" binding:"required"`
}

// RematchRequest optionally changes the format of the rematch
type RematchRequest struct {
	TotalOvers int `json:"total_overs" binding:"omitempty,min=1,max=50"`
}

// AuthorizeUserRequest grants scoring rights to another user
type AuthorizeUserRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func parseUintParam(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid "+label)
		return 0, false
	}
	return uint(id), true
}

func matchID(c *gin.Context) (uint, bool) {
	return parseUintParam(c, "id", "match ID")
}

// respond sends the match or maps the service error.
func respond(c *gin.Context, status int, message string, m *Match, err error) {
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, status, message, NewMatchView(m))
}

// CreateMatch godoc
// @Summary      Create a match
// @Description  Creates a scheduled match owned by the caller. Overs and extra runs fall back to the server defaults.
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        match  body  CreateMatchInput  true  "Teams and format"
// @Success      201  {object}  responses.SuccessResponse{data=MatchView}
// @Failure      400  {object}  responses.ErrorResponse "Validation error"
// @Failure      422  {object}  responses.ErrorResponse "Rule violation"
// @Router       /matches [post]
func (mc *MatchController) CreateMatch(c *gin.Context) {
	var req CreateMatchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	m, err := mc.service.CreateMatch(c.Request.Context(), req)
	respond(c, http.StatusCreated, "Match created successfully", m, err)
}

// GetMatchByID godoc
// @Summary      Get a match
// @Tags         Matches
// @Produce      json
// @Param        id   path  int  true  "Match ID"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Failure      404  {object}  responses.ErrorResponse "Match not found"
// @Router       /matches/{id} [get]
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	m, err := mc.service.GetMatchByID(c.Request.Context(), id)
	respond(c, http.StatusOK, "", m, err)
}

// GetActiveMatch godoc
// @Summary      Get a user's live match
// @Tags         Matches
// @Produce      json
// @Param        owner_id  query  int  true  "Owner user ID"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Failure      404  {object}  responses.ErrorResponse "No live match"
// @Router       /matches/active [get]
func (mc *MatchController) GetActiveMatch(c *gin.Context) {
	ownerID, err := strconv.ParseUint(c.Query("owner_id"), 10, 64)
	if err != nil || ownerID == 0 {
		responses.BadRequest(c, "owner_id query parameter is required")
		return
	}
	m, err := mc.service.GetActiveMatch(c.Request.Context(), uint(ownerID))
	respond(c, http.StatusOK, "", m, err)
}

// RecordToss godoc
// @Summary      Record the toss
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int        true  "Match ID"
// @Param        toss  body  TossInput  true  "Toss winner and decision"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Failure      409  {object}  responses.ErrorResponse "Match already started"
// @Router       /matches/{id}/toss [post]
func (mc *MatchController) RecordToss(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req TossInput
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	m, err := mc.service.RecordToss(c.Request.Context(), id, req)
	respond(c, http.StatusOK, "Toss recorded", m, err)
}

// AddPlayerToSquad godoc
// @Summary      Draft a player into a squad
// @Tags         Squads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                 true  "Match ID"
// @Param        team_id  path  string              true  "team_a or team_b"
// @Param        player   body  SquadPlayerRequest  true  "Player"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Failure      422  {object}  responses.ErrorResponse "Player already drafted"
// @Router       /matches/{id}/squads/{team_id}/players [post]
func (mc *MatchController) AddPlayerToSquad(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req SquadPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	m, err := mc.service.AddPlayerToSquad(c.Request.Context(), id, TeamID(c.Param("team_id")), req.PlayerID)
	respond(c, http.StatusOK, "Player added to squad", m, err)
}

// RemovePlayerFromSquad godoc
// @Summary      Remove a player from a squad
// @Tags         Squads
// @Produce      json
// @Security     BearerAuth
// @Param        id         path  int     true  "Match ID"
// @Param        team_id    path  string  true  "team_a or team_b"
// @Param        player_id  path  int     true  "Player ID"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Router       /matches/{id}/squads/{team_id}/players/{player_id} [delete]
func (mc *MatchController) RemovePlayerFromSquad(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	playerID, ok := parseUintParam(c, "player_id", "player ID")
	if !ok {
		return
	}
	m, err := mc.service.RemovePlayerFromSquad(c.Request.Context(), id, TeamID(c.Param("team_id")), playerID)
	respond(c, http.StatusOK, "Player removed from squad", m, err)
}

// StartMatch godoc
// @Summary      Start a match
// @Description  Selects the openers and the first bowler and puts the match live.
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int      true  "Match ID"
// @Param        openers  body  Openers  true  "Opening batters and bowler"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Failure      422  {object}  responses.ErrorResponse "Another match is live or squads are incomplete"
// @Router       /matches/{id}/start [post]
func (mc *MatchController) StartMatch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req Openers
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	m, err := mc.service.StartMatch(c.Request.Context(), id, req)
	respond(c, http.StatusOK, "Match started", m, err)
}

// RecordBall godoc
// @Summary      Record a delivery
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int        true  "Match ID"
// @Param        ball  body  BallInput  true  "Delivery"
// @Success      201  {object}  responses.SuccessResponse{data=MatchView}
// @Failure      409  {object}  responses.ErrorResponse "Match not live or concurrent update"
// @Failure      422  {object}  responses.ErrorResponse "Rule violation"
// @Router       /matches/{id}/balls [post]
func (mc *MatchController) RecordBall(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req BallInput
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	m, err := mc.service.RecordBall(c.Request.Context(), id, req)
	respond(c, http.StatusCreated, "Ball recorded", m, err)
}

// UndoLastBall godoc
// @Summary      Undo the last delivery
// @Tags         Scoring
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Match ID"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Failure      404  {object}  responses.ErrorResponse "Nothing to undo"
// @Router       /matches/{id}/balls/last [delete]
func (mc *MatchController) UndoLastBall(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	m, err := mc.service.UndoLastBall(c.Request.Context(), id)
	respond(c, http.StatusOK, "Last ball undone", m, err)
}

// ListBalls godoc
// @Summary      List deliveries
// @Tags         Scoring
// @Produce      json
// @Param        id       path   int  true   "Match ID"
// @Param        innings  query  int  false  "1 or 2; both when omitted"
// @Success      200  {object}  responses.SuccessResponse{data=[]BallEvent}
// @Router       /matches/{id}/balls [get]
func (mc *MatchController) ListBalls(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	innings, err := strconv.Atoi(c.DefaultQuery("innings", "0"))
	if err != nil || innings < 0 || innings > 2 {
		responses.BadRequest(c, "innings must be 1 or 2")
		return
	}
	balls, err := mc.service.ListBalls(c.Request.Context(), id, innings)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", balls)
}

// ChangeBowler godoc
// @Summary      Choose the next bowler
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int                  true  "Match ID"
// @Param        bowler  body  ChangeBowlerRequest  true  "Bowler"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Router       /matches/{id}/bowler [post]
func (mc *MatchController) ChangeBowler(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req ChangeBowlerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	m, err := mc.service.ChangeBowler(c.Request.Context(), id, req.BowlerID)
	respond(c, http.StatusOK, "Bowler changed", m, err)
}

// SelectBatter godoc
// @Summary      Send in a new batter
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int                  true  "Match ID"
// @Param        batter  body  SelectBatterRequest  true  "Slot and player"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Router       /matches/{id}/batters [post]
func (mc *MatchController) SelectBatter(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req SelectBatterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	m, err := mc.service.SelectBatter(c.Request.Context(), id, req.Slot, req.PlayerID)
	respond(c, http.StatusOK, "Batter selected", m, err)
}

// SwitchToSecondInnings godoc
// @Summary      Start the second innings
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int      true  "Match ID"
// @Param        openers  body  Openers  true  "Opening batters and bowler"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Router       /matches/{id}/second-innings [post]
func (mc *MatchController) SwitchToSecondInnings(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req Openers
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	m, err := mc.service.SwitchToSecondInnings(c.Request.Context(), id, req)
	respond(c, http.StatusOK, "Second innings started", m, err)
}

// EndMatch godoc
// @Summary      End a match early
// @Tags         Matches
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Match ID"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Router       /matches/{id}/end [post]
func (mc *MatchController) EndMatch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	m, err := mc.service.EndMatch(c.Request.Context(), id)
	respond(c, http.StatusOK, "Match ended", m, err)
}

// AbandonMatch godoc
// @Summary      Abandon a match
// @Tags         Matches
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Match ID"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Router       /matches/{id}/abandon [post]
func (mc *MatchController) AbandonMatch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	m, err := mc.service.AbandonMatch(c.Request.Context(), id)
	respond(c, http.StatusOK, "Match abandoned", m, err)
}

// CreateRematch godoc
// @Summary      Create a rematch
// @Description  Schedules a new match between the same squads.
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int             true   "Completed match ID"
// @Param        rematch  body  RematchRequest  false  "Format override"
// @Success      201  {object}  responses.SuccessResponse{data=MatchView}
// @Router       /matches/{id}/rematch [post]
func (mc *MatchController) CreateRematch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req RematchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.ValidationError(c, err)
			return
		}
	}
	m, err := mc.service.CreateRematch(c.Request.Context(), id, req.TotalOvers)
	respond(c, http.StatusCreated, "Rematch created", m, err)
}

// AuthorizeUser godoc
// @Summary      Authorize a scorer
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                   true  "Match ID"
// @Param        user  body  AuthorizeUserRequest  true  "User to authorize"
// @Success      200  {object}  responses.SuccessResponse{data=MatchView}
// @Failure      403  {object}  responses.ErrorResponse "Only the owner can authorize"
// @Router       /matches/{id}/authorized-users [post]
func (mc *MatchController) AuthorizeUser(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req AuthorizeUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	m, err := mc.service.AuthorizeUser(c.Request.Context(), id, req.UserID)
	respond(c, http.StatusOK, "User authorized", m, err)
}
