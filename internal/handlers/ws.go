package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/liemhoanglong/voting-game-server/internal/game"
	"github.com/liemhoanglong/voting-game-server/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	authService *services.AuthService
	game        *game.Service
}

func NewWSHandler(authService *services.AuthService, svc *game.Service) *WSHandler {
	return &WSHandler{authService: authService, game: svc}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleGameWebSocket godoc
// @Summary      Subscribe to a team's room events
// @Description  The token travels as a query parameter because browsers
// @Description  cannot set headers on websocket dials.
// @Tags         websocket
// @Param        id path int true "Team ID"
// @Param        token query string true "JWT"
// @Router       /ws/game/{id} [get]
func (h *WSHandler) HandleGameWebSocket(c *gin.Context) {
	teamID, ok := teamIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}

	userID, err := h.authService.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
		return
	}

	stream, err := h.game.Subscribe(c.Request.Context(), teamID, userID)
	if errors.Is(err, game.ErrNotInTeam) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		stream.Close()
		return
	}
	defer stream.Close()
	defer conn.Close()

	// The handler owns the connection; the reader only signals. Closing
	// the conn on the way out unblocks the reader's pending ReadMessage.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-stream.Events():
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-readerDone:
			return
		}
	}
}
