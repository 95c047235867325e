package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/liemhoanglong/voting-game-server/internal/game"
)

func TestMemoryPublishReachesSubscribers(t *testing.T) {
	t.Parallel()
	bus := NewMemory()
	ctx := context.Background()

	first, err := bus.Subscribe(ctx, "1:1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer first.Close()
	second, err := bus.Subscribe(ctx, "1:1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer second.Close()
	other, err := bus.Subscribe(ctx, "1:2")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer other.Close()

	if err := bus.Publish(ctx, "1:1", game.Event{Code: game.CodePing}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for _, sub := range []game.Subscription{first, second} {
		select {
		case ev := <-sub.Events():
			if ev.Code != game.CodePing {
				t.Errorf("event = %s, want %s", ev.Code, game.CodePing)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber never got the event")
		}
	}

	select {
	case ev := <-other.Events():
		t.Errorf("other channel got %s", ev.Code)
	default:
	}
}

func TestMemoryCloseStopsDelivery(t *testing.T) {
	t.Parallel()
	bus := NewMemory()
	ctx := context.Background()

	sub, err := bus.Subscribe(ctx, "1:1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := sub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Closing again is fine.
	if err := sub.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	if err := bus.Publish(ctx, "1:1", game.Event{Code: game.CodePing}); err != nil {
		t.Fatalf("publish after close: %v", err)
	}

	if _, ok := <-sub.Events(); ok {
		t.Error("closed subscription delivered an event")
	}
}
