package kvstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("key not found")

// KV is a durable key-value medium holding raw payloads.
// Values are written and read whole, a partially written slice is never observable.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
}

var _ KV = (*Redis)(nil)
var _ KV = (*TestStore)(nil)

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	// session state keys are permanent, no expiration
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// Load returns the value stored under key, decoded from JSON, or defaultValue
// when the key is absent or the stored payload cannot be decoded. A corrupted
// stored value must never propagate as an error to the caller.
func Load[T any](ctx context.Context, kv KV, key string, defaultValue T) T {
	data, err := kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Errorf("kvstore: load [%s]: %s", key, err)
		}
		return defaultValue
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		log.Errorf("kvstore: decode [%s]: %s", key, err)
		return defaultValue
	}
	return value
}

// Save encodes value as JSON and writes it under key. Write failures are
// logged and swallowed, losing the latest write is an accepted degradation
// when the medium itself fails.
func Save[T any](ctx context.Context, kv KV, key string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Errorf("kvstore: encode [%s]: %s", key, err)
		return
	}
	if err := kv.Set(ctx, key, data); err != nil {
		log.Errorf("kvstore: save [%s]: %s", key, err)
	}
}

func Remove(ctx context.Context, kv KV, keys ...string) {
	if err := kv.Del(ctx, keys...); err != nil {
		log.Errorf("kvstore: remove %v: %s", keys, err)
	}
}
