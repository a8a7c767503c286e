package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// DefaultRedisURL is used when no URL is configured.
const DefaultRedisURL = "redis://localhost:6379/0"

// RedisStore keeps the family as one JSON value in Redis.
type RedisStore struct {
	client *redis.Client
	key    string
}

// OpenRedis connects to the server at url and verifies it with PING.
func OpenRedis(ctx context.Context, url, name string) (*RedisStore, error) {
	if url == "" {
		url = DefaultRedisURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "connect to redis at %s", opts.Addr)
	}
	return NewRedisStore(client, name), nil
}

// NewRedisStore wraps an existing client. The family lives under
// "familytree:<name>:data".
func NewRedisStore(client *redis.Client, name string) *RedisStore {
	return &RedisStore{client: client, key: redisKey(name)}
}

func redisKey(name string) string {
	if name == "" {
		name = DefaultName
	}
	return "familytree:" + name + ":data"
}

func (s *RedisStore) Load(ctx context.Context) (*family.FamilyData, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "redis get %s", s.key)
	}
	return UnmarshalJSON(data)
}

func (s *RedisStore) Save(ctx context.Context, d *family.FamilyData) error {
	data, err := MarshalJSON(d)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "redis set %s", s.key)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

// Key returns the Redis key holding the family.
func (s *RedisStore) Key() string { return s.key }

var _ Store = (*RedisStore)(nil)
