package handlers

import (
	"errors"
	"net/http"

	"github.com/liemhoanglong/voting-game-server/internal/game"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	game *game.Service
}

func NewGameHandler(svc *game.Service) *GameHandler {
	return &GameHandler{game: svc}
}

type PickRequest struct {
	Point int `json:"point"`
}

type TimerRequest struct {
	Seconds int `json:"seconds" binding:"min=0"`
}

type HostRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type RoleRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	Role   int  `json:"role" binding:"min=-1,max=2"`
}

type InviteRequest struct {
	Members []game.MemberInvite `json:"members" binding:"required,dive"`
}

// GetGameState godoc
// @Summary      Full room snapshot for reconnect reconciliation
// @Tags         game
// @Security     BearerAuth
// @Router       /api/v1/teams/{id}/game [get]
func (h *GameHandler) GetGameState(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}

	state, err := h.game.GameState(c.Request.Context(), teamID, c.GetUint("user_id"))
	if errors.Is(err, game.ErrTeamNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	if errors.Is(err, game.ErrNotInTeam) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) PickCard(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req PickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.game.PickCard(c.Request.Context(), teamID, c.GetUint("user_id"), req.Point); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "pick accepted"})
}

func (h *GameHandler) PickCardAndShow(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req PickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.game.PickCardAndShow(c.Request.Context(), teamID, c.GetUint("user_id"), req.Point); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "pick accepted"})
}

func (h *GameHandler) ShowCards(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}

	if err := h.game.ShowCards(c.Request.Context(), teamID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "cards shown"})
}

func (h *GameHandler) RestartGame(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}

	if err := h.game.RestartGame(c.Request.Context(), teamID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "game restarted"})
}

func (h *GameHandler) StartTimer(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req TimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.game.StartTimer(c.Request.Context(), teamID, req.Seconds); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "timer updated"})
}

func (h *GameHandler) TransferHost(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req HostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.game.TransferHost(c.Request.Context(), teamID, c.GetUint("user_id"), req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "host transfer requested"})
}

func (h *GameHandler) ClaimHost(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}

	if err := h.game.ClaimHost(c.Request.Context(), teamID, c.GetUint("user_id")); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "host claim requested"})
}

func (h *GameHandler) ReassignHost(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req HostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.game.ReassignHost(c.Request.Context(), teamID, req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "host reassigned"})
}

func (h *GameHandler) ChangeRole(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.game.ChangeRole(c.Request.Context(), c.GetUint("user_id"), teamID, req.UserID, req.Role); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "role change requested"})
}

func (h *GameHandler) Invite(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	added, err := h.game.Invite(c.Request.Context(), teamID, req.Members)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (h *GameHandler) PingUser(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req HostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.game.PingUser(c.Request.Context(), c.GetUint("user_id"), teamID, req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "ping sent"})
}
