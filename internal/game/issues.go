package game

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Card issues live for twelve hours, refreshed on every mutation.
const cardIssueTTL = 12 * time.Hour

type CardInput struct {
	Issue       string `json:"issue" binding:"required"`
	VoteScore   int    `json:"vote_score"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

type ImportCardInput struct {
	Issue       string `json:"issue" binding:"required"`
	VoteScore   *int   `json:"vote_score"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

type CardPatch struct {
	Issue       *string `json:"issue"`
	VoteScore   *int    `json:"vote_score"`
	Link        *string `json:"link"`
	Description *string `json:"description"`
}

// hostGate reports whether the caller may manage the card ledger. A false
// result is not an error; host-only mutations silently no-op.
func (s *Service) hostGate(ctx context.Context, teamID, userID uint) (bool, error) {
	team, err := s.dir.TeamByID(ctx, teamID)
	if err != nil || team == nil {
		return false, err
	}
	host, err := s.hostID(ctx, teamID)
	if err != nil {
		return false, err
	}
	return host == userID && host != 0, nil
}

func (s *Service) CreateCard(ctx context.Context, teamID, userID uint, input CardInput) (*CardIssue, error) {
	ok, err := s.hostGate(ctx, teamID, userID)
	if err != nil || !ok {
		return nil, err
	}

	issue := CardIssue{
		ID:          uuid.NewString(),
		Issue:       input.Issue,
		VoteScore:   input.VoteScore,
		Link:        input.Link,
		Description: input.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.putCard(ctx, teamID, issue); err != nil {
		return nil, err
	}
	if err := s.store.Expire(ctx, cardIssueKey(teamID), cardIssueTTL); err != nil {
		return nil, err
	}

	s.publishToTeam(ctx, teamID, Event{Code: CodeAddCard, CardIssue: &issue})
	return &issue, nil
}

// ImportCards stores an already-fetched batch. Ids are the batch id plus
// the index; batches are assumed unique, there is no collision check.
func (s *Service) ImportCards(ctx context.Context, teamID, userID uint, inputs []ImportCardInput) ([]CardIssue, error) {
	ok, err := s.hostGate(ctx, teamID, userID)
	if err != nil || !ok {
		return nil, err
	}

	batchID := uuid.NewString()
	now := time.Now()
	issues := make([]CardIssue, 0, len(inputs))
	for i, input := range inputs {
		score := NotPickPoint
		if input.VoteScore != nil {
			score = *input.VoteScore
		}
		issue := CardIssue{
			ID:          batchID + strconv.Itoa(i),
			Issue:       input.Issue,
			VoteScore:   score,
			Link:        input.Link,
			Description: input.Description,
			CreatedAt:   now,
		}
		if err := s.putCard(ctx, teamID, issue); err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	if err := s.store.Expire(ctx, cardIssueKey(teamID), cardIssueTTL); err != nil {
		return nil, err
	}

	s.publishToTeam(ctx, teamID, Event{Code: CodeImportCard, CardIssues: issues})
	return issues, nil
}

// UpdateCard shallow-merges the patch over the stored issue.
func (s *Service) UpdateCard(ctx context.Context, teamID, userID uint, cardID string, patch CardPatch) (*CardIssue, error) {
	ok, err := s.hostGate(ctx, teamID, userID)
	if err != nil || !ok {
		return nil, err
	}

	stored, err := s.store.HGet(ctx, cardIssueKey(teamID), cardID)
	if err != nil || stored == "" {
		return nil, err
	}
	var issue CardIssue
	if err := json.Unmarshal([]byte(stored), &issue); err != nil {
		return nil, err
	}
	if patch.Issue != nil {
		issue.Issue = *patch.Issue
	}
	if patch.VoteScore != nil {
		issue.VoteScore = *patch.VoteScore
	}
	if patch.Link != nil {
		issue.Link = *patch.Link
	}
	if patch.Description != nil {
		issue.Description = *patch.Description
	}
	if err := s.putCard(ctx, teamID, issue); err != nil {
		return nil, err
	}
	if err := s.store.Expire(ctx, cardIssueKey(teamID), cardIssueTTL); err != nil {
		return nil, err
	}

	s.publishToTeam(ctx, teamID, Event{Code: CodeUpdateCard, CardIssue: &issue})
	return &issue, nil
}

func (s *Service) RemoveCard(ctx context.Context, teamID, userID uint, cardID string) error {
	ok, err := s.hostGate(ctx, teamID, userID)
	if err != nil || !ok {
		return err
	}

	current, err := s.store.Get(ctx, currentCardKey(teamID))
	if err != nil {
		return err
	}
	if current == cardID {
		if err := s.store.Del(ctx, currentCardKey(teamID)); err != nil {
			return err
		}
	}
	if err := s.store.HDel(ctx, cardIssueKey(teamID), cardID); err != nil {
		return err
	}

	s.publishToTeam(ctx, teamID, Event{Code: CodeRemoveCardByID, CardIssue: &CardIssue{ID: cardID}})
	return nil
}

func (s *Service) RemoveAllCards(ctx context.Context, teamID, userID uint) error {
	ok, err := s.hostGate(ctx, teamID, userID)
	if err != nil || !ok {
		return err
	}

	if err := s.store.Del(ctx, currentCardKey(teamID), cardIssueKey(teamID)); err != nil {
		return err
	}

	s.publishToTeam(ctx, teamID, Event{Code: CodeRemoveAllCard})
	return nil
}

// ListCards returns the team's backlog in creation order.
func (s *Service) ListCards(ctx context.Context, teamID uint) ([]CardIssue, error) {
	team, err := s.dir.TeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}

	values, err := s.store.HVals(ctx, cardIssueKey(teamID))
	if err != nil {
		return nil, err
	}
	issues := make([]CardIssue, 0, len(values))
	for _, value := range values {
		var issue CardIssue
		if err := json.Unmarshal([]byte(value), &issue); err != nil {
			continue
		}
		issues = append(issues, issue)
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].CreatedAt.Before(issues[j].CreatedAt) })
	return issues, nil
}

// SelectCard points the room at a card to vote on, or clears the pointer.
func (s *Service) SelectCard(ctx context.Context, teamID, userID uint, cardID string, isSelect bool) error {
	ok, err := s.hostGate(ctx, teamID, userID)
	if err != nil || !ok {
		return err
	}

	if isSelect {
		if err := s.store.Set(ctx, currentCardKey(teamID), cardID); err != nil {
			return err
		}
		s.publishToTeam(ctx, teamID, Event{Code: CodeSelectCard, CardIssue: &CardIssue{ID: cardID}})
		return nil
	}

	if err := s.store.Del(ctx, currentCardKey(teamID)); err != nil {
		return err
	}
	s.publishToTeam(ctx, teamID, Event{Code: CodeDeselectCard})
	return nil
}

func (s *Service) putCard(ctx context.Context, teamID uint, issue CardIssue) error {
	raw, err := json.Marshal(issue)
	if err != nil {
		return err
	}
	return s.store.HSet(ctx, cardIssueKey(teamID), issue.ID, string(raw))
}
