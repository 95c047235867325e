package handlers

import (
	"errors"
	"net/http"

	"github.com/liemhoanglong/voting-game-server/internal/game"

	"github.com/gin-gonic/gin"
)

type ImportCardsRequest struct {
	Issues []game.ImportCardInput `json:"issues" binding:"required,dive"`
}

type SelectCardRequest struct {
	IsSelect bool `json:"is_select"`
}

// ListCards godoc
// @Summary      List the team's card issues in creation order
// @Tags         cards
// @Security     BearerAuth
// @Router       /api/v1/teams/{id}/cards [get]
func (h *GameHandler) ListCards(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}

	issues, err := h.game.ListCards(c.Request.Context(), teamID)
	if errors.Is(err, game.ErrTeamNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, issues)
}

func (h *GameHandler) CreateCard(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req game.CardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	issue, err := h.game.CreateCard(c.Request.Context(), teamID, c.GetUint("user_id"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *GameHandler) ImportCards(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req ImportCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	issues, err := h.game.ImportCards(c.Request.Context(), teamID, c.GetUint("user_id"), req.Issues)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, issues)
}

func (h *GameHandler) UpdateCard(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req game.CardPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	issue, err := h.game.UpdateCard(c.Request.Context(), teamID, c.GetUint("user_id"), c.Param("cardId"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *GameHandler) RemoveCard(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}

	if err := h.game.RemoveCard(c.Request.Context(), teamID, c.GetUint("user_id"), c.Param("cardId")); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "card removed"})
}

func (h *GameHandler) RemoveAllCards(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}

	if err := h.game.RemoveAllCards(c.Request.Context(), teamID, c.GetUint("user_id")); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "cards removed"})
}

func (h *GameHandler) SelectCard(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}
	var req SelectCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.game.SelectCard(c.Request.Context(), teamID, c.GetUint("user_id"), c.Param("cardId"), req.IsSelect); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "selection updated"})
}
