package game

import (
	"context"
	"errors"
	"time"

	"github.com/liemhoanglong/voting-game-server/internal/models"
)

var (
	ErrTeamNotFound = errors.New("team not found")
	ErrNotInTeam    = errors.New("you are not in this team")
)

// Store is the shared key-value backend holding all room state. Reads of
// missing keys return zero values, never errors; TTL is negative when the
// key is missing or has no expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key, field, value string) error
	HDel(ctx context.Context, key string, fields ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HKeys(ctx context.Context, key string) ([]string, error)
	HVals(ctx context.Context, key string) ([]string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Bus delivers room events to per-user channels. Delivery is best effort;
// clients reconcile through the game-state snapshot.
type Bus interface {
	Publish(ctx context.Context, channel string, ev Event) error
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Directory resolves teams and memberships. It is backed by the relational
// database, not the room store.
type Directory interface {
	TeamByID(ctx context.Context, teamID uint) (*models.Team, error)
	MembershipOf(ctx context.Context, teamID, userID uint) (*models.Membership, error)
	TeamMembers(ctx context.Context, teamID uint) ([]models.Membership, error)
	UpdateRole(ctx context.Context, teamID, userID uint, role int) error
	RemoveMember(ctx context.Context, teamID, userID uint) error
	AddMembersByEmail(ctx context.Context, teamID uint, invites []MemberInvite) ([]MemberInfo, error)
}

type MemberInvite struct {
	Email string `json:"email" binding:"required,email"`
	Role  int    `json:"role"`
}

type MemberInfo struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   int    `json:"role"`
}
