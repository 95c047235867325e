package game_test

import (
	"context"
	"testing"

	"github.com/liemhoanglong/voting-game-server/internal/game"
)

func TestStartTimerBroadcasts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	stream, err := f.svc.Subscribe(ctx, testTeam, userA)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer stream.Close()

	if err := f.svc.StartTimer(ctx, testTeam, 30); err != nil {
		t.Fatalf("start timer: %v", err)
	}
	ev := nextEvent(t, stream, game.CodeStartTimer)
	if ev.Timer == nil || ev.Timer.Seconds != 30 {
		t.Errorf("timer = %+v, want 30 seconds", ev.Timer)
	}
}

func TestLateJoinerGetsTimerReplay(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Connect(ctx, testTeam, userA); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := f.svc.StartTimer(ctx, testTeam, 60); err != nil {
		t.Fatalf("start timer: %v", err)
	}

	stream, err := f.svc.Subscribe(ctx, testTeam, userB)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer stream.Close()

	ev := nextEvent(t, stream, game.CodeTimerLeft)
	if ev.Timer == nil {
		t.Fatal("replay carried no timer info")
	}
	if ev.Timer.Seconds != 60 {
		t.Errorf("replay total = %d, want 60", ev.Timer.Seconds)
	}
	if ev.Timer.Left <= 0 || ev.Timer.Left > 60 {
		t.Errorf("replay left = %d, want within (0, 60]", ev.Timer.Left)
	}
}

func TestCancelTimerStopsReplay(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	streamA, err := f.svc.Subscribe(ctx, testTeam, userA)
	if err != nil {
		t.Fatalf("subscribe A: %v", err)
	}
	defer streamA.Close()

	if err := f.svc.StartTimer(ctx, testTeam, 60); err != nil {
		t.Fatalf("start timer: %v", err)
	}
	if err := f.svc.StartTimer(ctx, testTeam, 0); err != nil {
		t.Fatalf("cancel timer: %v", err)
	}

	nextEvent(t, streamA, game.CodeStartTimer)
	ev := nextEvent(t, streamA, game.CodeStartTimer)
	if ev.Timer == nil || ev.Timer.Seconds != 0 {
		t.Errorf("cancel broadcast = %+v, want zero seconds", ev.Timer)
	}

	streamB, err := f.svc.Subscribe(ctx, testTeam, userB)
	if err != nil {
		t.Fatalf("subscribe B: %v", err)
	}
	defer streamB.Close()
	noEvent(t, streamB, game.CodeTimerLeft)
}
