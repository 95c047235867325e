package game

import (
	"context"
	"log"
	"strconv"
	"sync"

	"github.com/liemhoanglong/voting-game-server/internal/models"
)

// Stream is a live feed of room events for one subscriber. Close releases
// the member's presence exactly once, no matter how the stream ends.
type Stream struct {
	sub     Subscription
	once    sync.Once
	release func()
}

func (s *Stream) Events() <-chan Event { return s.sub.Events() }

func (s *Stream) Close() {
	s.once.Do(func() {
		s.release()
		if err := s.sub.Close(); err != nil {
			log.Printf("game: close subscription: %v", err)
		}
	})
}

// Subscribe registers the caller in the room and returns their event
// stream. Joining claims the host seat if vacant and replays timer state
// when a countdown is running.
func (s *Service) Subscribe(ctx context.Context, teamID, userID uint) (*Stream, error) {
	sub, err := s.bus.Subscribe(ctx, userChannel(teamID, userID))
	if err != nil {
		return nil, err
	}
	if err := s.join(ctx, teamID, userID); err != nil {
		sub.Close()
		return nil, err
	}
	return &Stream{
		sub: sub,
		release: func() {
			if err := s.Disconnect(context.Background(), teamID, userID); err != nil {
				log.Printf("game: disconnect cleanup for %d:%d: %v", teamID, userID, err)
			}
		},
	}, nil
}

func (s *Service) join(ctx context.Context, teamID, userID uint) error {
	cardState, err := s.Connect(ctx, teamID, userID)
	if err != nil {
		return err
	}

	s.publishToTeam(ctx, teamID, Event{
		Code:       CodeUserChangeState,
		UserAction: &UserAction{ID: userID, CardState: intp(cardState)},
	})

	if err := s.ClaimHost(ctx, teamID, userID); err != nil {
		log.Printf("game: claim host for %d:%d: %v", teamID, userID, err)
	}

	s.replayTimer(ctx, teamID, userID)
	return nil
}

// Connect creates or refreshes the member's presence entry and bumps the
// connection counter, supporting several open tabs per user.
func (s *Service) Connect(ctx context.Context, teamID, userID uint) (int, error) {
	membership, err := s.dir.MembershipOf(ctx, teamID, userID)
	if err != nil {
		return CardStateOffline, err
	}
	if membership == nil {
		return CardStateOffline, ErrNotInTeam
	}

	field := strconv.FormatUint(uint64(userID), 10)
	existing, err := s.store.HGet(ctx, gameRoomKey(teamID), field)
	if err != nil {
		return CardStateOffline, err
	}

	if existing != "" {
		count, err := s.store.HGet(ctx, userConnKey(teamID), field)
		if err != nil {
			return CardStateOffline, err
		}
		n, _ := strconv.Atoi(count)
		if err := s.store.HSet(ctx, userConnKey(teamID), field, strconv.Itoa(n+1)); err != nil {
			return CardStateOffline, err
		}
		return classifyCard(existing), nil
	}

	value := NotPickValue
	if membership.Role == models.RoleSpectator {
		value = SpectatorValue
	}
	if err := s.store.HSet(ctx, gameRoomKey(teamID), field, value); err != nil {
		return CardStateOffline, err
	}
	if err := s.store.HSet(ctx, userConnKey(teamID), field, "1"); err != nil {
		return CardStateOffline, err
	}
	return CardStateNotPick, nil
}

// Disconnect drops one connection. Only the last one tears down presence,
// and an emptied room loses its card selection and countdown.
func (s *Service) Disconnect(ctx context.Context, teamID, userID uint) error {
	field := strconv.FormatUint(uint64(userID), 10)
	count, err := s.store.HGet(ctx, userConnKey(teamID), field)
	if err != nil {
		return err
	}

	if count == "1" {
		if err := s.store.HDel(ctx, gameRoomKey(teamID), field); err != nil {
			return err
		}
		if err := s.store.HDel(ctx, userConnKey(teamID), field); err != nil {
			return err
		}
		online, err := s.store.HGetAll(ctx, gameRoomKey(teamID))
		if err != nil {
			return err
		}
		if len(online) == 0 {
			if err := s.store.Del(ctx, currentCardKey(teamID), countdownKey(teamID)); err != nil {
				return err
			}
		}
		if err := s.electNextHost(ctx, teamID, userID); err != nil {
			return err
		}

		s.publishToTeam(ctx, teamID, Event{
			Code:       CodeUserChangeState,
			UserAction: &UserAction{ID: userID, CardState: intp(CardStateOffline)},
		})
		return nil
	}

	if count != "" {
		n, _ := strconv.Atoi(count)
		return s.store.HSet(ctx, userConnKey(teamID), field, strconv.Itoa(n-1))
	}
	return nil
}

func (s *Service) replayTimer(ctx context.Context, teamID, userID uint) {
	running, err := s.store.Get(ctx, countdownKey(teamID))
	if err != nil || running == "" {
		return
	}

	total, err := s.store.Get(ctx, timerKey(teamID))
	if err != nil {
		return
	}
	seconds, _ := strconv.Atoi(total)

	ttl, err := s.store.TTL(ctx, timerKey(teamID))
	if err != nil {
		return
	}
	left := int(ttl.Seconds())
	if left < 0 {
		left = 0
	}

	s.publishTo(ctx, teamID, userID, Event{
		Code:  CodeTimerLeft,
		Timer: &TimerInfo{Seconds: seconds, Left: left},
	})
}
