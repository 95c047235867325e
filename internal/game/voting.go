package game

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strconv"
)

// PickCard stores the member's raw pick. Picking NotPickPoint clears the
// card. The picker is told their accepted point privately; the team only
// sees the picked/not-picked classification until reveal.
func (s *Service) PickCard(ctx context.Context, teamID, userID uint, point int) error {
	field := strconv.FormatUint(uint64(userID), 10)
	if err := s.store.HSet(ctx, gameRoomKey(teamID), field, strconv.Itoa(point)); err != nil {
		return err
	}

	s.publishTo(ctx, teamID, userID, Event{
		Code:         CodeUserCurrentPoint,
		CurrentPoint: intp(point),
	})

	state := CardStatePicked
	if point == NotPickPoint {
		state = CardStateNotPick
	}
	s.publishToTeam(ctx, teamID, Event{
		Code:       CodeUserChangeState,
		UserAction: &UserAction{ID: userID, CardState: intp(state)},
	})
	return nil
}

// PickCardAndShow picks, then reveals automatically once every eligible
// member has picked.
func (s *Service) PickCardAndShow(ctx context.Context, teamID, userID uint, point int) error {
	if err := s.PickCard(ctx, teamID, userID, point); err != nil {
		return err
	}
	_, err := s.checkAllPickedAndReveal(ctx, teamID)
	return err
}

// ShowCards reveals unconditionally and stops any running countdown.
func (s *Service) ShowCards(ctx context.Context, teamID uint) error {
	picks, err := s.store.HGetAll(ctx, gameRoomKey(teamID))
	if err != nil {
		return err
	}

	s.publishToTeam(ctx, teamID, Event{
		Code:  CodeStartTimer,
		Timer: &TimerInfo{Seconds: 0},
	})

	return s.reveal(ctx, teamID, picks)
}

// RestartGame resets every pick to not-picked, leaving spectators and the
// selected card alone.
func (s *Service) RestartGame(ctx context.Context, teamID uint) error {
	picks, err := s.store.HGetAll(ctx, gameRoomKey(teamID))
	if err != nil {
		return err
	}
	for field, value := range picks {
		if value == SpectatorValue {
			continue
		}
		if err := s.store.HSet(ctx, gameRoomKey(teamID), field, NotPickValue); err != nil {
			return err
		}
	}
	s.publishToTeam(ctx, teamID, Event{Code: CodeRestartGame})
	return nil
}

// checkAllPickedAndReveal reveals when every online non-spectator has a
// pick. A room of only spectators never reveals.
func (s *Service) checkAllPickedAndReveal(ctx context.Context, teamID uint) (bool, error) {
	picks, err := s.store.HGetAll(ctx, gameRoomKey(teamID))
	if err != nil {
		return false, err
	}
	if !allPicked(picks) {
		return false, nil
	}
	return true, s.reveal(ctx, teamID, picks)
}

// allPicked holds when every online non-spectator has a pick and at least
// one real voter is online.
func allPicked(picks map[string]string) bool {
	if len(picks) == 0 {
		return false
	}
	spectators := 0
	for _, value := range picks {
		if value == NotPickValue {
			return false
		}
		if value == SpectatorValue {
			spectators++
		}
	}
	return spectators != len(picks)
}

func (s *Service) reveal(ctx context.Context, teamID uint, picks map[string]string) error {
	if err := s.store.Del(ctx, countdownKey(teamID)); err != nil {
		return err
	}

	cardValues := make([]CardValue, 0, len(picks))
	for field, value := range picks {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		cardValues = append(cardValues, CardValue{ID: uint(id), Point: value})
	}
	sort.Slice(cardValues, func(i, j int) bool { return cardValues[i].ID < cardValues[j].ID })

	currentCard, err := s.store.Get(ctx, currentCardKey(teamID))
	if err != nil {
		return err
	}
	if currentCard == "" {
		s.publishToTeam(ctx, teamID, Event{Code: CodeShowCards, CardValues: cardValues})
		return nil
	}

	consensus, score := consensusPoint(picks)
	if consensus {
		if err := s.scoreCurrentCard(ctx, teamID, currentCard, score); err != nil {
			log.Printf("game: score card %s of team %d: %v", currentCard, teamID, err)
		}
		s.publishToTeam(ctx, teamID, Event{
			Code:       CodeShowCardsEqual,
			CardValues: cardValues,
			CardIssue:  &CardIssue{ID: currentCard},
		})
		return nil
	}

	s.publishToTeam(ctx, teamID, Event{
		Code:       CodeShowCardsNotEqual,
		CardValues: cardValues,
		CardIssue:  &CardIssue{ID: currentCard},
	})
	return nil
}

// consensusPoint reports whether all non-spectator picks agree, and on
// what. Spectators never count; a room with no real voters has no
// consensus.
func consensusPoint(picks map[string]string) (bool, int) {
	first := ""
	for _, value := range picks {
		if value != SpectatorValue {
			first = value
			break
		}
	}
	if first == "" {
		return false, 0
	}
	for _, value := range picks {
		if value != SpectatorValue && value != first {
			return false, 0
		}
	}
	score, err := strconv.Atoi(first)
	if err != nil {
		return false, 0
	}
	return true, score
}

func (s *Service) scoreCurrentCard(ctx context.Context, teamID uint, cardID string, score int) error {
	stored, err := s.store.HGet(ctx, cardIssueKey(teamID), cardID)
	if err != nil || stored == "" {
		return err
	}
	var issue CardIssue
	if err := json.Unmarshal([]byte(stored), &issue); err != nil {
		return err
	}
	issue.VoteScore = score
	raw, err := json.Marshal(issue)
	if err != nil {
		return err
	}
	return s.store.HSet(ctx, cardIssueKey(teamID), cardID, string(raw))
}
