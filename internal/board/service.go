// Package board owns the single live Board and every operation that mutates
// it: the drag reconciler (MoveItem, MoveTier), the bulk-append used by image
// import, and the explicit edits (tiers, items, pool, reset, replace).
//
// Every mutating method runs start to finish under one lock and concludes by
// saving the board and invoking the Projector exactly once. Methods that turn
// out to be no-ops (stale ids, self tier drop) neither save nor project.
package board

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// Service is the board-mutation API. It is safe for concurrent use; callers
// never see a partially applied mutation.
type Service struct {
	mu        sync.Mutex
	board     *types.Board
	store     types.Store
	projector Projector
	log       *log.Logger
	newID     func(prefix string) string
}

// Option configures a Service.
type Option func(*Service)

// WithProjector sets the view projection invoked after every mutation.
func WithProjector(p Projector) Option {
	return func(s *Service) { s.projector = p }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithIDGenerator replaces the id generator. Used by tests that need stable ids.
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a Service holding the default board. Call Load to
// restore the stored board. store may be nil, in which case nothing persists.
func NewService(store types.Store, opts ...Option) *Service {
	s := &Service{
		board: types.DefaultBoard(),
		store: store,
		log:   log.StandardLogger(),
		newID: NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory board with the stored one. An absent board
// keeps the defaults; unreadable or invalid data is logged and the defaults
// are kept too. Load projects once and never returns a persistence error.
func (s *Service) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.board = s.loadLocked(ctx)
	s.projectLocked()
}

func (s *Service) loadLocked(ctx context.Context) *types.Board {
	if s.store == nil {
		return types.DefaultBoard()
	}
	b, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, types.ErrNoBoard):
		return types.DefaultBoard()
	case err != nil:
		s.log.WithError(err).Error("failed to load board, using defaults")
		return types.DefaultBoard()
	}
	if err := b.Validate(); err != nil {
		s.log.WithError(err).Error("stored board is invalid, using defaults")
		return types.DefaultBoard()
	}
	b.Normalize()
	return b
}

// Snapshot returns a deep copy of the current board.
func (s *Service) Snapshot() *types.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// commitLocked persists and re-projects the board. The caller must hold s.mu.
// Save failures are logged; the in-memory board stays authoritative.
func (s *Service) commitLocked(ctx context.Context) {
	if s.store != nil {
		if err := s.store.Save(ctx, s.board.Clone()); err != nil {
			s.log.WithError(err).Error("failed to save board")
		}
	}
	s.projectLocked()
}

func (s *Service) projectLocked() {
	if s.projector != nil {
		s.projector.Project(s.board.Clone())
	}
}
