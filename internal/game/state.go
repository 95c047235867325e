package game

import (
	"context"
	"strconv"

	"github.com/liemhoanglong/voting-game-server/internal/models"
)

type MemberState struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      int    `json:"role"`
	IsHost    bool   `json:"is_host"`
	CardState int    `json:"card_state"`
}

type State struct {
	TeamID       uint          `json:"team_id"`
	Name         string        `json:"name"`
	ImageURL     string        `json:"image_url,omitempty"`
	Members      []MemberState `json:"members"`
	VotingSystem int           `json:"voting_system"`
	Deck         []int         `json:"deck"`
	CurrentPoint int           `json:"current_point"`
	Role         int           `json:"role"`
	IsHost       bool          `json:"is_host"`
	CurrentCard  string        `json:"current_card,omitempty"`
}

// GameState is the pull-based snapshot clients reconcile with after a
// reconnect or a missed broadcast. Fetching it as an admin records admin
// presence, which host failover prefers.
func (s *Service) GameState(ctx context.Context, teamID, userID uint) (*State, error) {
	team, err := s.dir.TeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}

	membership, err := s.dir.MembershipOf(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotInTeam
	}
	if membership.Role == models.RoleAdmin {
		if err := s.store.Set(ctx, adminKey(teamID), strconv.FormatUint(uint64(userID), 10)); err != nil {
			return nil, err
		}
	}

	memberships, err := s.dir.TeamMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}

	picks, err := s.store.HGetAll(ctx, gameRoomKey(teamID))
	if err != nil {
		return nil, err
	}
	host, err := s.hostID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	currentCard, err := s.store.Get(ctx, currentCardKey(teamID))
	if err != nil {
		return nil, err
	}

	members := make([]MemberState, 0, len(memberships))
	for _, m := range memberships {
		isHost := host == m.UserID
		if host == 0 && m.UserID == userID {
			// Nobody holds the seat yet; the caller will claim it on
			// subscribe, so show them as host already.
			isHost = true
		}
		members = append(members, MemberState{
			ID:        m.UserID,
			Name:      m.User.Name,
			Email:     m.User.Email,
			Role:      m.Role,
			IsHost:    isHost,
			CardState: classifyCard(picks[strconv.FormatUint(uint64(m.UserID), 10)]),
		})
	}

	currentPoint := NotPickPoint
	if value, ok := picks[strconv.FormatUint(uint64(userID), 10)]; ok {
		if point, err := strconv.Atoi(value); err == nil {
			currentPoint = point
		}
	}

	return &State{
		TeamID:       team.ID,
		Name:         team.Name,
		ImageURL:     team.ImageURL,
		Members:      members,
		VotingSystem: team.VotingSystem,
		Deck:         Deck(team.VotingSystem),
		CurrentPoint: currentPoint,
		Role:         membership.Role,
		IsHost:       host == userID,
		CurrentCard:  currentCard,
	}, nil
}
