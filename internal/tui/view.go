// Package tui is the terminal board: a bubbletea program that projects the
// board, keeps the hit map the drag session resolves mouse coordinates
// against, and turns mouse and key input into board operations.
package tui

import (
	"sync"
	"sync/atomic"

	"github.com/mesh-intelligence/tierboard/internal/drag"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// View is the projection target of the board service. It implements
// board.Projector, drag.Locator and drag.Highlighter. Project may be called
// from any goroutine; the model reads the latest snapshot on each render.
type View struct {
	board  atomic.Pointer[types.Board]
	layout atomic.Pointer[Layout]
	width  atomic.Int64

	mu        sync.Mutex
	highlight *drag.Target
}

// NewView returns a View with an empty board.
func NewView() *View {
	v := &View{}
	v.width.Store(defaultWidth)
	v.Project(&types.Board{})
	return v
}

// Project stores snapshot and recomputes the layout.
func (v *View) Project(snapshot *types.Board) {
	v.board.Store(snapshot)
	v.relayout()
}

// Board returns the last projected snapshot. Callers must not modify it.
func (v *View) Board() *types.Board { return v.board.Load() }

// SetWidth re-flows the board for a terminal width cells wide.
func (v *View) SetWidth(width int) {
	v.width.Store(int64(width))
	v.relayout()
}

func (v *View) relayout() {
	v.layout.Store(buildLayout(v.board.Load(), int(v.width.Load())))
}

// Layout returns the current layout.
func (v *View) Layout() *Layout { return v.layout.Load() }

// HitAt implements drag.Locator against the current layout.
func (v *View) HitAt(x, y int) drag.Hit { return v.layout.Load().HitAt(x, y) }

// Highlight implements drag.Highlighter.
func (v *View) Highlight(target drag.Target) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.highlight = &target
}

// Clear implements drag.Highlighter.
func (v *View) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.highlight = nil
}

// Highlighted returns the marked drop candidate, if any.
func (v *View) Highlighted() (drag.Target, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.highlight == nil {
		return drag.Target{}, false
	}
	return *v.highlight, true
}
