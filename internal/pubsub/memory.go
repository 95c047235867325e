package pubsub

import (
	"context"
	"log"
	"sync"

	"github.com/liemhoanglong/voting-game-server/internal/game"
)

// Memory is an in-process event bus for tests and single-instance runs.
type Memory struct {
	mu   sync.RWMutex
	subs map[string]map[*memorySub]bool
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[*memorySub]bool)}
}

func (b *Memory) Publish(ctx context.Context, channel string, ev game.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[channel] {
		select {
		case sub.events <- ev:
		default:
			// Slow subscriber; drop rather than block the publisher.
			log.Printf("pubsub: dropping %s event on %s", ev.Code, channel)
		}
	}
	return nil
}

func (b *Memory) Subscribe(ctx context.Context, channel string) (game.Subscription, error) {
	sub := &memorySub{bus: b, channel: channel, events: make(chan game.Event, 64)}
	b.mu.Lock()
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[*memorySub]bool)
	}
	b.subs[channel][sub] = true
	b.mu.Unlock()
	return sub, nil
}

type memorySub struct {
	bus     *Memory
	channel string
	events  chan game.Event
	once    sync.Once
}

func (s *memorySub) Events() <-chan game.Event { return s.events }

func (s *memorySub) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		if subs, ok := s.bus.subs[s.channel]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.bus.subs, s.channel)
			}
		}
		s.bus.mu.Unlock()
		close(s.events)
	})
	return nil
}
