package store

import (
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// Open validates cfg and returns the configured backend.
func Open(cfg types.Config) (types.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.BackendSQLite:
		s, err := NewSQLiteStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.BackendRedis:
		s, err := NewRedisStore(cfg.RedisURL, cfg.GetRedisKey())
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
