package server

import (
	"strconv"
	"sync/atomic"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// Revisions counts board projections and forwards each one to next. Installed
// as the service's projector, it gives every committed change a new revision
// that clients see as the board's ETag.
type Revisions struct {
	n    atomic.Uint64
	next board.Projector
}

// NewRevisions returns a counter at revision 0. next may be nil.
func NewRevisions(next board.Projector) *Revisions {
	return &Revisions{next: next}
}

// Project implements board.Projector.
func (r *Revisions) Project(snapshot *types.Board) {
	r.n.Add(1)
	if r.next != nil {
		r.next.Project(snapshot)
	}
}

// Current returns the latest revision.
func (r *Revisions) Current() uint64 { return r.n.Load() }

// ETag returns the quoted entity tag for the latest revision.
func (r *Revisions) ETag() string {
	return `"` + strconv.FormatUint(r.Current(), 10) + `"`
}
