package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/liemhoanglong/voting-game-server/internal/game"
	"github.com/liemhoanglong/voting-game-server/internal/handlers"
	"github.com/liemhoanglong/voting-game-server/internal/models"
	"github.com/liemhoanglong/voting-game-server/internal/pubsub"
	"github.com/liemhoanglong/voting-game-server/internal/services"
	"github.com/liemhoanglong/voting-game-server/internal/storage"
)

// openDirectory admits every user as a member of every team.
type openDirectory struct{}

func (openDirectory) TeamByID(ctx context.Context, teamID uint) (*models.Team, error) {
	return &models.Team{ID: teamID, Name: "crew"}, nil
}

func (openDirectory) MembershipOf(ctx context.Context, teamID, userID uint) (*models.Membership, error) {
	return &models.Membership{TeamID: teamID, UserID: userID, Role: models.RoleMember}, nil
}

func (openDirectory) TeamMembers(ctx context.Context, teamID uint) ([]models.Membership, error) {
	return nil, nil
}

func (openDirectory) UpdateRole(ctx context.Context, teamID, userID uint, role int) error {
	return nil
}

func (openDirectory) RemoveMember(ctx context.Context, teamID, userID uint) error {
	return nil
}

func (openDirectory) AddMembersByEmail(ctx context.Context, teamID uint, invites []game.MemberInvite) ([]game.MemberInfo, error) {
	return nil, nil
}

func newWSServer(t *testing.T, store *storage.Memory) (*httptest.Server, *services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := game.NewService(store, pubsub.NewMemory(), openDirectory{})
	auth := services.NewAuthService(nil, "test-secret")
	ws := handlers.NewWSHandler(auth, svc)

	r := gin.New()
	r.GET("/ws/game/:id", ws.HandleGameWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, auth
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestGameWebSocketLifecycle(t *testing.T) {
	store := storage.NewMemory()
	srv, auth := newWSServer(t, store)

	token, err := auth.GenerateToken(7)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/game/1?token="+token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}

	// Joining announces presence, then hands the subscriber the vacant
	// host seat.
	conn.SetReadDeadline(time.Now().Add(time.Second))
	var ev game.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read join event: %v", err)
	}
	if ev.Code != game.CodeUserChangeState {
		t.Errorf("first event = %s, want %s", ev.Code, game.CodeUserChangeState)
	}
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read host event: %v", err)
	}
	if ev.Code != game.CodeIsHost {
		t.Errorf("second event = %s, want %s", ev.Code, game.CodeIsHost)
	}

	conn.Close()

	// The reader's exit shuts the handler down, which releases presence.
	deadline := time.Now().Add(time.Second)
	for {
		online, err := store.HGet(context.Background(), "gameroom:1", "7")
		if err != nil {
			t.Fatalf("hget: %v", err)
		}
		if online == "" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("presence never released after the client went away")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGameWebSocketRejectsBadToken(t *testing.T) {
	srv, _ := newWSServer(t, storage.NewMemory())

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/game/1?token=garbage"), nil)
	if err == nil {
		conn.Close()
		t.Fatal("dial with a bad token succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("handshake response = %v, want 401", resp)
	}
	if resp != nil {
		resp.Body.Close()
	}
}
