package game

import (
	"context"
	"strconv"
	"time"
)

// StartTimer starts a shared countdown of the given length, or cancels the
// running one when seconds is zero. The remaining time lives entirely in
// the key's TTL; there is no ticking task anywhere.
func (s *Service) StartTimer(ctx context.Context, teamID uint, seconds int) error {
	if seconds != 0 {
		ttl := time.Duration(seconds) * time.Second
		if err := s.store.SetEx(ctx, timerKey(teamID), strconv.Itoa(seconds), ttl); err != nil {
			return err
		}
		if err := s.store.Set(ctx, countdownKey(teamID), "ok"); err != nil {
			return err
		}
	} else {
		if err := s.store.Del(ctx, countdownKey(teamID)); err != nil {
			return err
		}
	}

	s.publishToTeam(ctx, teamID, Event{
		Code:  CodeStartTimer,
		Timer: &TimerInfo{Seconds: seconds},
	})
	return nil
}
