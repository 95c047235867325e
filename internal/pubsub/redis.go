package pubsub

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/liemhoanglong/voting-game-server/internal/game"
)

// Redis is the production event bus over Redis Pub/Sub.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Publish(ctx context.Context, channel string, ev game.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channel, data).Err()
}

func (r *Redis) Subscribe(ctx context.Context, channel string) (game.Subscription, error) {
	ps := r.client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, err
	}

	sub := &redisSub{
		ps:     ps,
		events: make(chan game.Event, 16),
		done:   make(chan struct{}),
	}
	go pump(channel, ps.Channel(), sub.events, sub.done)
	return sub, nil
}

// pump decodes messages into events until the feed ends. The send is
// cancellable: a closed subscription whose reader is gone and whose
// buffer is full must not strand the goroutine on a blocked send.
func pump(channel string, msgs <-chan *redis.Message, events chan<- game.Event, done <-chan struct{}) {
	defer close(events)
	for msg := range msgs {
		var ev game.Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("pubsub: bad event on %s: %v", channel, err)
			continue
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

type redisSub struct {
	ps     *redis.PubSub
	events chan game.Event
	done   chan struct{}
	once   sync.Once
}

func (s *redisSub) Events() <-chan game.Event { return s.events }

func (s *redisSub) Close() error {
	s.once.Do(func() { close(s.done) })
	return s.ps.Close()
}
