package game_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/liemhoanglong/voting-game-server/internal/game"
	"github.com/liemhoanglong/voting-game-server/internal/models"
	"github.com/liemhoanglong/voting-game-server/internal/pubsub"
	"github.com/liemhoanglong/voting-game-server/internal/storage"
)

// fakeDirectory is a map-backed game.Directory so the core can run
// against the in-memory store and bus.
type fakeDirectory struct {
	mu      sync.Mutex
	teams   map[uint]*models.Team
	members map[uint]map[uint]*models.Membership
	users   map[uint]models.User
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		teams:   make(map[uint]*models.Team),
		members: make(map[uint]map[uint]*models.Membership),
		users:   make(map[uint]models.User),
	}
}

func (d *fakeDirectory) addTeam(id uint, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.teams[id] = &models.Team{ID: id, Name: name, VotingSystem: models.VotingSystemFibonacci}
	d.members[id] = make(map[uint]*models.Membership)
}

func (d *fakeDirectory) addUser(id uint, name, email string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[id] = models.User{ID: id, Name: name, Email: email}
}

func (d *fakeDirectory) addMember(teamID, userID uint, role int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[teamID][userID] = &models.Membership{TeamID: teamID, UserID: userID, Role: role}
}

func (d *fakeDirectory) TeamByID(ctx context.Context, teamID uint) (*models.Team, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	team, ok := d.teams[teamID]
	if !ok {
		return nil, nil
	}
	copied := *team
	return &copied, nil
}

func (d *fakeDirectory) MembershipOf(ctx context.Context, teamID, userID uint) (*models.Membership, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.members[teamID][userID]
	if !ok {
		return nil, nil
	}
	copied := *m
	copied.User = d.users[userID]
	return &copied, nil
}

func (d *fakeDirectory) TeamMembers(ctx context.Context, teamID uint) ([]models.Membership, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []models.Membership
	for _, m := range d.members[teamID] {
		copied := *m
		copied.User = d.users[m.UserID]
		out = append(out, copied)
	}
	return out, nil
}

func (d *fakeDirectory) UpdateRole(ctx context.Context, teamID, userID uint, role int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if m, ok := d.members[teamID][userID]; ok {
		m.Role = role
	}
	return nil
}

func (d *fakeDirectory) RemoveMember(ctx context.Context, teamID, userID uint) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.members[teamID], userID)
	return nil
}

func (d *fakeDirectory) AddMembersByEmail(ctx context.Context, teamID uint, invites []game.MemberInvite) ([]game.MemberInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var added []game.MemberInfo
	for _, invite := range invites {
		for id, user := range d.users {
			if user.Email != invite.Email {
				continue
			}
			if _, exists := d.members[teamID][id]; exists {
				continue
			}
			d.members[teamID][id] = &models.Membership{TeamID: teamID, UserID: id, Role: invite.Role}
			added = append(added, game.MemberInfo{UserID: id, Email: user.Email, Name: user.Name, Role: invite.Role})
		}
	}
	return added, nil
}

type fixture struct {
	svc *game.Service
	dir *fakeDirectory
}

const testTeam = uint(1)

const (
	userA = uint(1)
	userB = uint(2)
	userC = uint(3)
	userD = uint(4)
)

// newFixture builds a room service over the memory store and bus, with
// team 1 holding admin A and members B (member) and C (spectator).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := newFakeDirectory()
	dir.addTeam(testTeam, "backend crew")
	dir.addUser(userA, "Alice", "alice@example.com")
	dir.addUser(userB, "Bob", "bob@example.com")
	dir.addUser(userC, "Cleo", "cleo@example.com")
	dir.addUser(userD, "Dana", "dana@example.com")
	dir.addMember(testTeam, userA, models.RoleAdmin)
	dir.addMember(testTeam, userB, models.RoleMember)
	dir.addMember(testTeam, userC, models.RoleSpectator)

	svc := game.NewService(storage.NewMemory(), pubsub.NewMemory(), dir)
	return &fixture{svc: svc, dir: dir}
}

// nextEvent waits for an event with the given code, discarding others.
func nextEvent(t *testing.T, stream *game.Stream, code string) game.Event {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case ev, ok := <-stream.Events():
			if !ok {
				t.Fatalf("stream closed while waiting for %s", code)
			}
			if ev.Code == code {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", code)
		}
	}
}

// noEvent drains everything already queued and fails if the code shows up.
func noEvent(t *testing.T, stream *game.Stream, code string) {
	t.Helper()
	for {
		select {
		case ev, ok := <-stream.Events():
			if !ok {
				return
			}
			if ev.Code == code {
				t.Fatalf("unexpected %s event", code)
			}
		default:
			return
		}
	}
}

func memberState(t *testing.T, state *game.State, userID uint) game.MemberState {
	t.Helper()
	for _, m := range state.Members {
		if m.ID == userID {
			return m
		}
	}
	t.Fatalf("user %d not in snapshot", userID)
	return game.MemberState{}
}
