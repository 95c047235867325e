package game

import (
	"context"
	"strconv"

	"github.com/liemhoanglong/voting-game-server/internal/models"
)

// ChangeRole lets an admin change another member's role, or remove them
// with RoleRemoved. Non-admin callers are ignored. The first admin's own
// role can never be altered through this path.
func (s *Service) ChangeRole(ctx context.Context, adminID, teamID, userID uint, role int) error {
	caller, err := s.dir.MembershipOf(ctx, teamID, adminID)
	if err != nil {
		return err
	}
	if caller == nil || caller.Role != models.RoleAdmin {
		return nil
	}

	field := strconv.FormatUint(uint64(userID), 10)
	if role == models.RoleRemoved && adminID != userID {
		if err := s.dir.RemoveMember(ctx, teamID, userID); err != nil {
			return err
		}
		if err := s.store.HDel(ctx, gameRoomKey(teamID), field); err != nil {
			return err
		}
		if err := s.store.HDel(ctx, userConnKey(teamID), field); err != nil {
			return err
		}
		if err := s.electNextHost(ctx, teamID, userID); err != nil {
			return err
		}
	} else {
		target, err := s.dir.MembershipOf(ctx, teamID, userID)
		if err != nil {
			return err
		}
		if target != nil && target.Role != models.RoleAdmin {
			if err := s.dir.UpdateRole(ctx, teamID, userID, role); err != nil {
				return err
			}
			online, err := s.store.HGet(ctx, gameRoomKey(teamID), field)
			if err != nil {
				return err
			}
			if online != "" {
				value := NotPickValue
				if role == models.RoleSpectator {
					value = SpectatorValue
				}
				if err := s.store.HSet(ctx, gameRoomKey(teamID), field, value); err != nil {
					return err
				}
			}
		}
	}

	s.publishToTeam(ctx, teamID, Event{
		Code:       CodeChangeRole,
		UserAction: &UserAction{ID: userID, Role: intp(role)},
	})
	s.publishTo(ctx, teamID, userID, Event{
		Code:       CodeSelfChangeRole,
		UserAction: &UserAction{ID: userID, Role: intp(role)},
	})
	return nil
}

// Invite adds existing users to the team by email and announces them.
// Unknown addresses are skipped; mail delivery is someone else's job.
func (s *Service) Invite(ctx context.Context, teamID uint, invites []MemberInvite) ([]MemberInfo, error) {
	added, err := s.dir.AddMembersByEmail(ctx, teamID, invites)
	if err != nil {
		return nil, err
	}
	if len(added) > 0 {
		s.publishToTeam(ctx, teamID, Event{Code: CodeAddMember, NewMembers: added})
	}
	return added, nil
}

// PingUser pokes one member privately. Host only, and self-pings are
// pointless.
func (s *Service) PingUser(ctx context.Context, callerID, teamID, userID uint) error {
	host, err := s.hostID(ctx, teamID)
	if err != nil {
		return err
	}
	if callerID != host || callerID == userID || host == 0 {
		return nil
	}
	s.publishTo(ctx, teamID, userID, Event{Code: CodePing})
	return nil
}
