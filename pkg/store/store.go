// Package store provides the public factory for tierboard persistence
// backends while keeping the implementations internal.
package store

import (
	"github.com/mesh-intelligence/tierboard/internal/store"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// Open returns the backend named by cfg.Backend.
//
// Example:
//
//	s, err := store.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".tierboard",
//	})
//	defer s.Close()
func Open(cfg types.Config) (types.Store, error) {
	return store.Open(cfg)
}
