package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const defaultChannel = "psi:realtime"

type envelope struct {
	UserID  uint            `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// RedisBridge fans events out through a redis channel so every instance
// delivers to its own local connections.
type RedisBridge struct {
	rdb     *redis.Client
	hub     *Hub
	channel string
	log     zerolog.Logger
}

func NewRedisBridge(redisURL string, hub *Hub, log zerolog.Logger) (*RedisBridge, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &RedisBridge{
		rdb:     redis.NewClient(opt),
		hub:     hub,
		channel: defaultChannel,
		log:     log.With().Str("component", "realtime-redis").Logger(),
	}, nil
}

func (b *RedisBridge) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

func (b *RedisBridge) Publish(ctx context.Context, userID uint, ev Event) error {
	payload, err := encode(ev)
	if err != nil {
		return err
	}

	data, err := json.Marshal(envelope{UserID: userID, Payload: payload})
	if err != nil {
		return err
	}

	return b.rdb.Publish(ctx, b.channel, data).Err()
}

// Run delivers events received from redis to local connections until ctx is
// done.
func (b *RedisBridge) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.deliver(msg.Payload)
		}
	}
}

func (b *RedisBridge) deliver(raw string) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		b.log.Warn().Err(err).Msg("malformed realtime envelope")
		return
	}
	b.hub.SendToUser(env.UserID, env.Payload)
}

func (b *RedisBridge) Close() error {
	return b.rdb.Close()
}

var _ Publisher = (*RedisBridge)(nil)
