package types

import "errors"

// Config holds backend selection and parameters for opening a Store.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	RedisURL string `json:"redis_url" yaml:"redis_url"`
	RedisKey string `json:"redis_key" yaml:"redis_key"`
}

// Supported backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// DefaultRedisKey is the key the Redis backend stores the board document
// under when none is configured.
const DefaultRedisKey = "tierListState"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrRedisURLEmpty  = errors.New("redis backend needs a redis URL")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendFile:   true,
	BackendSQLite: true,
	BackendRedis:  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendRedis && c.RedisURL == "" {
		return ErrRedisURLEmpty
	}
	return nil
}

// GetRedisKey returns the configured key or DefaultRedisKey.
func (c Config) GetRedisKey() string {
	if c.RedisKey == "" {
		return DefaultRedisKey
	}
	return c.RedisKey
}
