package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const redisTopic = "joblocal:realtime"

type envelope struct {
	Origin  string          `json:"origin"`
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

// RedisRelay shares published events between API instances over Redis
// pub/sub. Each instance delivers what the others publish to its own clients.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub
}

// NewRedisRelay connects to Redis at the given URL.
// URL format: redis://localhost:6379
func NewRedisRelay(redisURL string, hub *Hub) (*RedisRelay, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("realtime: invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("realtime: redis ping failed: %w", err)
	}
	return &RedisRelay{client: client, hub: hub}, nil
}

func (r *RedisRelay) Forward(channel string, payload []byte) error {
	msg, err := json.Marshal(envelope{Origin: r.hub.InstanceID(), Channel: channel, Payload: payload})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.client.Publish(ctx, redisTopic, msg).Err()
}

// Run delivers remote events to the local hub until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) {
	sub := r.client.Subscribe(ctx, redisTopic)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			r.handle(m.Payload)
		}
	}
}

func (r *RedisRelay) handle(raw string) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.WithError(err).Warn("realtime: dropping malformed relay message")
		return
	}
	if env.Origin == r.hub.InstanceID() {
		return
	}
	r.hub.Deliver(env.Channel, env.Payload)
}

func (r *RedisRelay) Close() error {
	return r.client.Close()
}
