package board

import "github.com/mesh-intelligence/tierboard/pkg/types"

// Projector recomputes a view from a board snapshot. The snapshot is owned by
// the projector; the service never touches it again.
type Projector interface {
	Project(snapshot *types.Board)
}

// ProjectorFunc adapts a function to the Projector interface.
type ProjectorFunc func(snapshot *types.Board)

// Project calls f(snapshot).
func (f ProjectorFunc) Project(snapshot *types.Board) { f(snapshot) }
