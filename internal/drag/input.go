package drag

import (
	"context"
	"errors"
)

// PointerInput translates mouse-style press, motion and release of the
// primary button into session calls.
type PointerInput struct {
	s *Session
}

// NewPointerInput binds a pointer front-end to s.
func NewPointerInput(s *Session) *PointerInput {
	return &PointerInput{s: s}
}

// Down handles a primary-button press. Returns true when a drag started.
func (p *PointerInput) Down(x, y int) (bool, error) {
	return p.s.Press(x, y, InputPointer)
}

// Motion handles pointer movement with the button held.
func (p *PointerInput) Motion(x, y int) {
	p.s.Move(x, y)
}

// Up handles the button release. A release with no drag in progress is
// ignored.
func (p *PointerInput) Up(ctx context.Context, x, y int) (Outcome, error) {
	out, err := p.s.End(ctx, x, y)
	if errors.Is(err, ErrNoSession) {
		return Outcome{}, nil
	}
	return out, err
}

// Touch is one contact point of a touch event.
type Touch struct {
	ID   int
	X, Y int
}

// TouchInput translates touchstart, touchmove, touchend and touchcancel into
// session calls. It follows the touch that started the drag and ignores other
// fingers.
type TouchInput struct {
	s       *Session
	touchID int
	payload string
	// tracking is set while a drag started by this front-end is live.
	tracking bool
}

// NewTouchInput binds a touch front-end to s.
func NewTouchInput(s *Session) *TouchInput {
	return &TouchInput{s: s}
}

// Start handles touchstart using the first touch in the list. While a drag
// it started is live, further fingers are ignored.
func (t *TouchInput) Start(touches []Touch) (bool, error) {
	if len(touches) == 0 || t.live() {
		return false, nil
	}
	first := touches[0]
	ok, err := t.s.Press(first.X, first.Y, InputTouch)
	if err != nil || !ok {
		return false, err
	}
	st, _ := t.s.State()
	t.touchID, t.payload = first.ID, st.PayloadID
	t.tracking = true
	return true, nil
}

// Move handles touchmove.
func (t *TouchInput) Move(touches []Touch) {
	if touch, ok := t.find(touches); ok {
		t.s.Move(touch.X, touch.Y)
	}
}

// End handles touchend. changed holds the touches that were lifted.
func (t *TouchInput) End(ctx context.Context, changed []Touch) (Outcome, error) {
	touch, ok := t.find(changed)
	if !ok {
		return Outcome{}, nil
	}
	t.tracking = false
	out, err := t.s.End(ctx, touch.X, touch.Y)
	if errors.Is(err, ErrNoSession) {
		return Outcome{}, nil
	}
	return out, err
}

// Cancel handles touchcancel.
func (t *TouchInput) Cancel() {
	if !t.live() {
		return
	}
	t.tracking = false
	t.s.Cancel()
}

// live reports whether the drag this front-end started is still running.
// When the session ended some other way, or now runs a different drag, the
// tracking is dropped.
func (t *TouchInput) live() bool {
	if !t.tracking {
		return false
	}
	st, ok := t.s.State()
	if !ok || st.Input != InputTouch || st.PayloadID != t.payload {
		t.tracking = false
	}
	return t.tracking
}

func (t *TouchInput) find(touches []Touch) (Touch, bool) {
	if !t.live() {
		return Touch{}, false
	}
	for _, touch := range touches {
		if touch.ID == t.touchID {
			return touch, true
		}
	}
	return Touch{}, false
}
