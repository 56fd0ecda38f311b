package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisclient "github.com/angelmondragon/kasir-pos/pkg/redis"
)

type kv interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type keyer interface {
	SessionKey(id string) string
}

// RedisStore keeps sessions as JSON values with a TTL.
type RedisStore struct {
	store kv
	keyer keyer
	ttl   time.Duration
}

// NewRedisStore stores sessions in redis for ttl.
func NewRedisStore(client *redisclient.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newRedisStore(client, client, ttl)
}

func newRedisStore(store kv, k keyer, ttl time.Duration) (*RedisStore, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &RedisStore{store: store, keyer: k, ttl: ttl}, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	if !validID(id) {
		return nil, nil
	}
	raw, err := r.store.Get(ctx, r.keyer.SessionKey(id))
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Set(ctx context.Context, s Session) error {
	if !validID(s.ID) {
		return fmt.Errorf("session id is required")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return r.store.Set(ctx, r.keyer.SessionKey(s.ID), string(payload), r.ttl)
}

func (r *RedisStore) Clear(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	return r.store.Del(ctx, r.keyer.SessionKey(id))
}
