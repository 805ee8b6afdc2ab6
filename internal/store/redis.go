package store

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mesh-intelligence/tierboard/internal/document"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// RedisStore keeps the board document under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
	owned  bool
}

// NewRedisStore connects using a redis:// URL or a "host:port[,password=...][,ssl=true]"
// connection string.
func NewRedisStore(conn, key string) (*RedisStore, error) {
	opts, err := ParseRedisConn(conn)
	if err != nil {
		return nil, err
	}
	s := NewRedisStoreWithClient(redis.NewClient(opts), key)
	s.owned = true
	return s, nil
}

// NewRedisStoreWithClient wraps an existing client. Close leaves the client
// open.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = types.DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// ParseRedisConn accepts a redis:// URL or a comma separated connection
// string.
func ParseRedisConn(conn string) (*redis.Options, error) {
	if conn == "" {
		return nil, types.ErrRedisURLEmpty
	}
	if opts, err := redis.ParseURL(conn); err == nil {
		return opts, nil
	}
	parts := strings.Split(conn, ",")
	opts := &redis.Options{Addr: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.EqualFold(kv[1], "true") {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts, nil
}

// Key returns the key holding the document.
func (s *RedisStore) Key() string { return s.key }

// Load fetches and decodes the document.
func (s *RedisStore) Load(ctx context.Context) (*types.Board, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrNoBoard
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	b, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", types.ErrMalformed, s.key, err)
	}
	return b, nil
}

// Save overwrites the key with the encoded board.
func (s *RedisStore) Save(ctx context.Context, b *types.Board) error {
	data, err := document.Encode(b)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Clear deletes the key.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}

// Close closes the client if the store created it.
func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
