package game

import (
	"context"
	"sort"
	"strconv"
)

func (s *Service) hostID(ctx context.Context, teamID uint) (uint, error) {
	value, err := s.store.Get(ctx, hostKey(teamID))
	if err != nil || value == "" {
		return 0, err
	}
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, nil
	}
	return uint(id), nil
}

// ClaimHost seats the user as host only when the seat is vacant. First
// writer wins; a taken seat is left alone.
func (s *Service) ClaimHost(ctx context.Context, teamID, userID uint) error {
	current, err := s.store.Get(ctx, hostKey(teamID))
	if err != nil {
		return err
	}
	if current != "" {
		return nil
	}
	if err := s.store.Set(ctx, hostKey(teamID), strconv.FormatUint(uint64(userID), 10)); err != nil {
		return err
	}
	s.publishTo(ctx, teamID, userID, Event{
		Code:       CodeIsHost,
		UserAction: &UserAction{ID: userID},
	})
	return nil
}

// TransferHost hands the seat from the current host to another member.
// Callers who are not the host are ignored.
func (s *Service) TransferHost(ctx context.Context, teamID, fromUserID, toUserID uint) error {
	host, err := s.hostID(ctx, teamID)
	if err != nil {
		return err
	}
	if host != fromUserID || host == 0 {
		return nil
	}
	if err := s.store.Del(ctx, hostKey(teamID)); err != nil {
		return err
	}
	if err := s.ClaimHost(ctx, teamID, toUserID); err != nil {
		return err
	}
	s.publishTo(ctx, teamID, fromUserID, Event{
		Code:       CodeInactiveHost,
		UserAction: &UserAction{ID: fromUserID},
	})
	s.publishToTeam(ctx, teamID, Event{
		Code:       CodeChangeHostTeam,
		UserAction: &UserAction{ID: toUserID},
	})
	return nil
}

// ReassignHost seats the user unconditionally, notifying the displaced
// host. Used when an out-of-band flow (an issue-tracker callback) must
// continue under a specific member.
func (s *Service) ReassignHost(ctx context.Context, teamID, userID uint) error {
	host, err := s.hostID(ctx, teamID)
	if err != nil {
		return err
	}
	if host != 0 {
		s.publishTo(ctx, teamID, host, Event{
			Code:       CodeInactiveHost,
			UserAction: &UserAction{ID: host},
		})
	}
	if err := s.store.Set(ctx, hostKey(teamID), strconv.FormatUint(uint64(userID), 10)); err != nil {
		return err
	}
	s.publishTo(ctx, teamID, userID, Event{
		Code:       CodeIsHost,
		UserAction: &UserAction{ID: userID},
	})
	s.publishToTeam(ctx, teamID, Event{
		Code:       CodeChangeHostTeam,
		UserAction: &UserAction{ID: userID},
	})
	return nil
}

// electNextHost reassigns the seat after the departing user leaves it.
// The online admin is preferred, then any online member; an empty room
// leaves the seat vacant.
func (s *Service) electNextHost(ctx context.Context, teamID, departingUserID uint) error {
	previous, err := s.hostID(ctx, teamID)
	if err != nil {
		return err
	}
	if previous != departingUserID || previous == 0 {
		return nil
	}
	if err := s.store.Del(ctx, hostKey(teamID)); err != nil {
		return err
	}

	online, err := s.store.HGetAll(ctx, gameRoomKey(teamID))
	if err != nil {
		return err
	}

	admin, err := s.store.Get(ctx, adminKey(teamID))
	if err != nil {
		return err
	}
	departing := strconv.FormatUint(uint64(departingUserID), 10)
	if admin == departing {
		if err := s.store.Del(ctx, adminKey(teamID)); err != nil {
			return err
		}
		admin = ""
	}

	var next string
	if admin != "" {
		if _, ok := online[admin]; ok {
			next = admin
		}
	}
	if next == "" {
		fields := make([]string, 0, len(online))
		for field := range online {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		if len(fields) > 0 {
			next = fields[0]
		}
	}
	if next == "" {
		return nil
	}

	if err := s.store.Set(ctx, hostKey(teamID), next); err != nil {
		return err
	}
	id, _ := strconv.ParseUint(next, 10, 64)
	s.publishTo(ctx, teamID, uint(id), Event{
		Code:       CodeIsHost,
		UserAction: &UserAction{ID: uint(id)},
	})
	s.publishToTeam(ctx, teamID, Event{
		Code:       CodeChangeHostTeam,
		UserAction: &UserAction{ID: uint(id)},
	})
	return nil
}
