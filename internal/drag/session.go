// Package drag tracks one in-progress drag gesture at a time, for items and
// for whole tiers, independent of the input device. Device front-ends
// (PointerInput, TouchInput) translate native events into Start, Move and End
// calls; a Locator maps coordinates to what lies under them; a committed drop
// is handed to a Reconciler.
package drag

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// Kind is what a session drags.
type Kind int

// Draggable kinds.
const (
	KindItem Kind = iota + 1
	KindTier
)

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindTier:
		return "tier"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps "item" and "tier" to their Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "item":
		return KindItem, nil
	case "tier":
		return KindTier, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Input identifies the device family driving a session.
type Input int

// Input devices.
const (
	InputPointer Input = iota
	InputTouch
)

func (in Input) String() string {
	if in == InputTouch {
		return "touch"
	}
	return "pointer"
}

// Session errors.
var (
	ErrSessionActive = errors.New("a drag is already in progress")
	ErrNoSession     = errors.New("no drag in progress")
	ErrUnknownKind   = errors.New("unknown drag kind")
)

// Reconciler applies a committed drop to the board.
type Reconciler interface {
	MoveItem(ctx context.Context, itemID, targetID string) error
	MoveTier(ctx context.Context, tierID string, targetIndex int) error
}

// Ghost is the floating clone that follows a finger during touch drags. It is
// shown when a touch session becomes active and hidden exactly once when the
// session ends, however it ends.
type Ghost interface {
	Show(kind Kind, payloadID string)
	Follow(x, y int)
	Hide()
}

// Highlighter marks the current drop candidate. Highlight replaces any earlier
// mark; only one candidate is ever marked.
type Highlighter interface {
	Highlight(target Target)
	Clear()
}

// Target is a drop candidate: a container id for item drags (types.PoolID or
// a tier id), a tier id and its row index for tier drags.
type Target struct {
	ID    string
	Index int
}

// State describes the active session.
type State struct {
	Kind      Kind
	PayloadID string
	SourceID  string
	Input     Input
	Candidate *Target
}

// Outcome reports how a session ended. A zero Outcome with Committed false is
// an abort.
type Outcome struct {
	Committed bool
	Kind      Kind
	PayloadID string
	SourceID  string
	Target    Target
}

// Session is the drag state machine. It is safe for concurrent use.
type Session struct {
	mu          sync.Mutex
	locator     Locator
	reconciler  Reconciler
	ghost       Ghost
	highlighter Highlighter
	log         *log.Logger

	active *State
}

// Option configures a Session.
type Option func(*Session)

// WithGhost sets the floating clone used by touch sessions.
func WithGhost(g Ghost) Option {
	return func(s *Session) { s.ghost = g }
}

// WithHighlighter sets the candidate highlighter.
func WithHighlighter(h Highlighter) Option {
	return func(s *Session) { s.highlighter = h }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.log = l }
}

// NewSession returns an idle session.
func NewSession(locator Locator, reconciler Reconciler, opts ...Option) *Session {
	s := &Session{
		locator:    locator,
		reconciler: reconciler,
		log:        log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Active reports whether a drag is in progress.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

// State returns a copy of the active session state.
func (s *Session) State() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return State{}, false
	}
	st := *s.active
	if st.Candidate != nil {
		c := *st.Candidate
		st.Candidate = &c
	}
	return st, true
}

// Start begins a drag of payloadID out of sourceID. It fails with
// ErrSessionActive while another drag is running; the running drag is left
// untouched.
func (s *Session) Start(kind Kind, payloadID, sourceID string, input Input) error {
	if kind != KindItem && kind != KindTier {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	if payloadID == "" {
		return fmt.Errorf("drag payload: %w", types.ErrInvalidID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return ErrSessionActive
	}
	s.active = &State{Kind: kind, PayloadID: payloadID, SourceID: sourceID, Input: input}
	if input == InputTouch && s.ghost != nil {
		s.ghost.Show(kind, payloadID)
	}
	s.log.WithFields(log.Fields{"kind": kind, "payload": payloadID, "source": sourceID, "input": input}).Debug("drag started")
	return nil
}

// Press starts a drag from whatever lies under (x, y). An item starts an item
// drag even when it sits inside a tier row; a tier drag handle starts a tier
// drag; every other surface starts nothing and Press returns false.
func (s *Session) Press(x, y int, input Input) (bool, error) {
	h := s.locator.HitAt(x, y)

	var err error
	switch h.Kind {
	case HitItem:
		err = s.Start(KindItem, h.ItemID, h.Zone, input)
	case HitTierHandle:
		err = s.Start(KindTier, h.TierID, h.TierID, input)
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.Move(x, y)
	return true, nil
}

// Move re-resolves the drop candidate under (x, y). Without an active session
// Move does nothing.
func (s *Session) Move(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveLocked(x, y)
}

func (s *Session) moveLocked(x, y int) {
	if s.active == nil {
		return
	}
	if s.active.Input == InputTouch && s.ghost != nil {
		s.ghost.Follow(x, y)
	}

	next := candidate(s.active, s.locator.HitAt(x, y))
	prev := s.active.Candidate
	s.active.Candidate = next

	if s.highlighter == nil {
		return
	}
	switch {
	case next == nil && prev != nil:
		s.highlighter.Clear()
	case next != nil && (prev == nil || *prev != *next):
		s.highlighter.Highlight(*next)
	}
}

// candidate returns the valid drop target for st at h, or nil. Item drags
// accept any drop zone, their own source included. Tier drags accept any tier
// row except the dragged tier itself.
func candidate(st *State, h Hit) *Target {
	switch st.Kind {
	case KindItem:
		if h.Zone != "" {
			idx := -1
			if h.Zone != types.PoolID {
				idx = h.TierIndex
			}
			return &Target{ID: h.Zone, Index: idx}
		}
	case KindTier:
		if h.TierID != "" && h.TierID != st.PayloadID {
			return &Target{ID: h.TierID, Index: h.TierIndex}
		}
	}
	return nil
}

// End finishes the session at (x, y). Over a valid candidate the drop is
// committed to the reconciler; otherwise the drag is aborted. Either way the
// session is idle, the highlight cleared and the ghost hidden before End
// returns. Returns ErrNoSession when no drag is active.
func (s *Session) End(ctx context.Context, x, y int) (Outcome, error) {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return Outcome{}, ErrNoSession
	}
	s.moveLocked(x, y)
	st := *s.active
	s.resetLocked()
	s.mu.Unlock()

	if st.Candidate == nil {
		s.log.WithFields(log.Fields{"kind": st.Kind, "payload": st.PayloadID}).Debug("drag aborted")
		return Outcome{}, nil
	}

	out := Outcome{
		Committed: true,
		Kind:      st.Kind,
		PayloadID: st.PayloadID,
		SourceID:  st.SourceID,
		Target:    *st.Candidate,
	}
	var err error
	switch st.Kind {
	case KindItem:
		err = s.reconciler.MoveItem(ctx, st.PayloadID, out.Target.ID)
	case KindTier:
		err = s.reconciler.MoveTier(ctx, st.PayloadID, out.Target.Index)
	}
	if err != nil {
		return out, fmt.Errorf("commit %s drop: %w", st.Kind, err)
	}
	s.log.WithFields(log.Fields{"kind": st.Kind, "payload": st.PayloadID, "target": out.Target.ID}).Debug("drag committed")
	return out, nil
}

// Cancel aborts the active session without touching the board.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.resetLocked()
	}
}

// resetLocked returns the session to idle and tears down the presentation
// markers. The caller must hold s.mu and s.active must be non-nil.
func (s *Session) resetLocked() {
	if s.active.Candidate != nil && s.highlighter != nil {
		s.highlighter.Clear()
	}
	if s.active.Input == InputTouch && s.ghost != nil {
		s.ghost.Hide()
	}
	s.active = nil
}
