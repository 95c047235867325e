package game

import (
	"context"
	"log"
	"strconv"

	"github.com/liemhoanglong/voting-game-server/internal/models"
)

// Service is the room protocol façade. It holds no room state of its own;
// every call rehydrates from the store so any instance can serve any team.
type Service struct {
	store Store
	bus   Bus
	dir   Directory
}

func NewService(store Store, bus Bus, dir Directory) *Service {
	return &Service{store: store, bus: bus, dir: dir}
}

var fibonacciDeck = []int{0, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89}

// Deck returns the card values for a team's voting system.
func Deck(votingSystem int) []int {
	switch votingSystem {
	case models.VotingSystemFibonacci:
		return fibonacciDeck
	default:
		// Unknown systems render as Fibonacci rather than an empty hand.
		return fibonacciDeck
	}
}

// publishTo sends an event to one member's private channel. Delivery
// failures are logged and swallowed; clients reconcile via the snapshot.
func (s *Service) publishTo(ctx context.Context, teamID, userID uint, ev Event) {
	if err := s.bus.Publish(ctx, userChannel(teamID, userID), ev); err != nil {
		log.Printf("game: publish to %d:%d failed: %v", teamID, userID, err)
	}
}

// publishToTeam fans an event out to every online member's private channel.
func (s *Service) publishToTeam(ctx context.Context, teamID uint, ev Event) {
	fields, err := s.store.HKeys(ctx, gameRoomKey(teamID))
	if err != nil {
		log.Printf("game: list online members of team %d failed: %v", teamID, err)
		return
	}
	for _, field := range fields {
		userID, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		s.publishTo(ctx, teamID, uint(userID), ev)
	}
}
