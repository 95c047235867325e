package game_test

import (
	"context"
	"testing"

	"github.com/liemhoanglong/voting-game-server/internal/game"
)

func TestSubscribeRejectsNonMembers(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	if _, err := f.svc.Subscribe(context.Background(), testTeam, userD); err != game.ErrNotInTeam {
		t.Errorf("subscribe as non-member: err = %v, want ErrNotInTeam", err)
	}
}

func TestJoinAnnouncesToOthers(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	streamA, err := f.svc.Subscribe(ctx, testTeam, userA)
	if err != nil {
		t.Fatalf("subscribe A: %v", err)
	}
	defer streamA.Close()

	streamB, err := f.svc.Subscribe(ctx, testTeam, userB)
	if err != nil {
		t.Fatalf("subscribe B: %v", err)
	}
	defer streamB.Close()

	ev := nextEvent(t, streamA, game.CodeUserChangeState)
	for ev.UserAction == nil || ev.UserAction.ID != userB {
		ev = nextEvent(t, streamA, game.CodeUserChangeState)
	}
	if ev.UserAction.CardState == nil || *ev.UserAction.CardState != game.CardStateNotPick {
		t.Errorf("join card state = %v, want not picked", ev.UserAction.CardState)
	}
}

func TestStreamCloseIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	// Two tabs for the same member.
	first, err := f.svc.Subscribe(ctx, testTeam, userA)
	if err != nil {
		t.Fatalf("subscribe first tab: %v", err)
	}
	second, err := f.svc.Subscribe(ctx, testTeam, userA)
	if err != nil {
		t.Fatalf("subscribe second tab: %v", err)
	}
	defer second.Close()

	// Closing one tab twice must release exactly one connection.
	first.Close()
	first.Close()

	snap, err := f.svc.GameState(ctx, testTeam, userA)
	if err != nil {
		t.Fatalf("game state: %v", err)
	}
	if got := memberState(t, snap, userA).CardState; got != game.CardStateNotPick {
		t.Errorf("card state = %d, double close tore down the other tab", got)
	}

	second.Close()
	snap, err = f.svc.GameState(ctx, testTeam, userA)
	if err != nil {
		t.Fatalf("game state: %v", err)
	}
	if got := memberState(t, snap, userA).CardState; got != game.CardStateOffline {
		t.Errorf("card state = %d, want offline after both tabs closed", got)
	}
}

func TestFirstSubscriberBecomesHost(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	stream, err := f.svc.Subscribe(ctx, testTeam, userB)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer stream.Close()

	ev := nextEvent(t, stream, game.CodeIsHost)
	if ev.UserAction == nil || ev.UserAction.ID != userB {
		t.Errorf("IS_HOST user = %+v, want id %d", ev.UserAction, userB)
	}
}
