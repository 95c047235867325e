package handlers

import (
	"net/http"

	"github.com/liemhoanglong/voting-game-server/internal/game"
	"github.com/liemhoanglong/voting-game-server/internal/services"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

type CreateTeamRequest struct {
	Name    string              `json:"name" binding:"required,min=1,max=100"`
	Members []game.MemberInvite `json:"members"`
}

// CreateTeam godoc
// @Summary      Create a team with the caller as admin
// @Tags         teams
// @Security     BearerAuth
// @Router       /api/v1/teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), req.Name, c.GetUint("user_id"), req.Members)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, team)
}
