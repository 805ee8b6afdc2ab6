package drag

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// Layout used throughout: row y is tier index y for y in 0..2, row 5 is the
// pool. Column 0 is the tier handle, column 1 the label, columns 2.. items or
// empty content.
//
//	y=0  S  [handle][label] item s1
//	y=1  A  [handle][label] (empty)
//	y=2  B  [handle][label] item b1
//	y=5  pool  item p1 at x=2, empty beyond
var tierRows = []string{"S", "A", "B"}

func gridLocator() Locator {
	return LocatorFunc(func(x, y int) Hit {
		switch {
		case y >= 0 && y < len(tierRows):
			id := tierRows[y]
			h := Hit{TierID: id, TierIndex: y}
			switch x {
			case 0:
				h.Kind = HitTierHandle
			case 1:
				h.Kind = HitTierLabel
			default:
				h.Kind = HitTierContent
				h.Zone = id
				if x == 2 && id == "S" {
					h.Kind, h.ItemID = HitItem, "s1"
				}
				if x == 2 && id == "B" {
					h.Kind, h.ItemID = HitItem, "b1"
				}
			}
			return h
		case y == 5:
			if x == 2 {
				return Hit{Kind: HitItem, ItemID: "p1", Zone: types.PoolID}
			}
			return Hit{Kind: HitPool, Zone: types.PoolID}
		}
		return Hit{}
	})
}

type call struct {
	op     string
	id     string
	target string
	index  int
}

type fakeReconciler struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (f *fakeReconciler) MoveItem(_ context.Context, itemID, targetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: "item", id: itemID, target: targetID})
	return f.err
}

func (f *fakeReconciler) MoveTier(_ context.Context, tierID string, idx int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: "tier", id: tierID, index: idx})
	return f.err
}

type fakeGhost struct {
	shown, hidden int
	follows       [][2]int
}

func (g *fakeGhost) Show(Kind, string) { g.shown++ }
func (g *fakeGhost) Follow(x, y int)   { g.follows = append(g.follows, [2]int{x, y}) }
func (g *fakeGhost) Hide()             { g.hidden++ }

type fakeHighlighter struct {
	current *Target
	marks   int
	clears  int
}

func (h *fakeHighlighter) Highlight(t Target) {
	h.current = &t
	h.marks++
}

func (h *fakeHighlighter) Clear() {
	h.current = nil
	h.clears++
}

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

type harness struct {
	s   *Session
	rec *fakeReconciler
	gh  *fakeGhost
	hl  *fakeHighlighter
}

func newHarness() *harness {
	h := &harness{rec: &fakeReconciler{}, gh: &fakeGhost{}, hl: &fakeHighlighter{}}
	h.s = NewSession(gridLocator(), h.rec,
		WithGhost(h.gh), WithHighlighter(h.hl), WithLogger(quietLogger()))
	return h
}

func TestPressItemInsideTierStartsItemDrag(t *testing.T) {
	h := newHarness()

	ok, err := h.s.Press(2, 0, InputPointer)
	require.NoError(t, err)
	require.True(t, ok)

	st, active := h.s.State()
	require.True(t, active)
	assert.Equal(t, KindItem, st.Kind)
	assert.Equal(t, "s1", st.PayloadID)
	assert.Equal(t, "S", st.SourceID)
}

func TestPressDisambiguation(t *testing.T) {
	tests := []struct {
		name     string
		x, y     int
		started  bool
		wantKind Kind
		wantID   string
	}{
		{name: "tier handle", x: 0, y: 1, started: true, wantKind: KindTier, wantID: "A"},
		{name: "pool item", x: 2, y: 5, started: true, wantKind: KindItem, wantID: "p1"},
		{name: "tier label", x: 1, y: 1},
		{name: "empty tier content", x: 4, y: 1},
		{name: "empty pool", x: 7, y: 5},
		{name: "outside", x: 3, y: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			ok, err := h.s.Press(tt.x, tt.y, InputPointer)
			require.NoError(t, err)
			assert.Equal(t, tt.started, ok)
			assert.Equal(t, tt.started, h.s.Active())
			if tt.started {
				st, _ := h.s.State()
				assert.Equal(t, tt.wantKind, st.Kind)
				assert.Equal(t, tt.wantID, st.PayloadID)
			}
		})
	}
}

func TestItemDropCommitsMove(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.s.Press(2, 5, InputPointer)
	require.NoError(t, err)
	h.s.Move(4, 1)
	require.NotNil(t, h.hl.current)
	assert.Equal(t, Target{ID: "A", Index: 1}, *h.hl.current)

	out, err := h.s.End(ctx, 4, 1)
	require.NoError(t, err)
	assert.True(t, out.Committed)
	assert.Equal(t, "A", out.Target.ID)
	assert.Equal(t, []call{{op: "item", id: "p1", target: "A"}}, h.rec.calls)
	assert.False(t, h.s.Active())
	assert.Nil(t, h.hl.current)
}

func TestItemDropOnItemUsesEnclosingZone(t *testing.T) {
	h := newHarness()

	_, err := h.s.Press(2, 5, InputPointer)
	require.NoError(t, err)
	out, err := h.s.End(context.Background(), 2, 2)
	require.NoError(t, err)

	assert.True(t, out.Committed)
	assert.Equal(t, []call{{op: "item", id: "p1", target: "B"}}, h.rec.calls)
}

func TestItemDropOnOwnSourceCommits(t *testing.T) {
	h := newHarness()

	_, err := h.s.Press(2, 0, InputPointer)
	require.NoError(t, err)
	out, err := h.s.End(context.Background(), 5, 0)
	require.NoError(t, err)

	assert.True(t, out.Committed)
	assert.Equal(t, []call{{op: "item", id: "s1", target: "S"}}, h.rec.calls)
}

func TestItemDropOutsideZoneAborts(t *testing.T) {
	tests := []struct {
		name string
		x, y int
	}{
		{name: "label cell", x: 1, y: 2},
		{name: "handle", x: 0, y: 2},
		{name: "outside board", x: 3, y: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			_, err := h.s.Press(2, 5, InputPointer)
			require.NoError(t, err)

			out, err := h.s.End(context.Background(), tt.x, tt.y)
			require.NoError(t, err)
			assert.False(t, out.Committed)
			assert.Empty(t, h.rec.calls)
			assert.False(t, h.s.Active())
		})
	}
}

func TestTierDrop(t *testing.T) {
	h := newHarness()

	_, err := h.s.Press(0, 2, InputPointer)
	require.NoError(t, err)

	h.s.Move(3, 2)
	assert.Nil(t, h.hl.current, "a tier is not its own candidate")

	out, err := h.s.End(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.True(t, out.Committed)
	assert.Equal(t, []call{{op: "tier", id: "B", index: 0}}, h.rec.calls)
}

func TestTierDropOnPoolAborts(t *testing.T) {
	h := newHarness()

	_, err := h.s.Press(0, 0, InputPointer)
	require.NoError(t, err)
	out, err := h.s.End(context.Background(), 4, 5)
	require.NoError(t, err)

	assert.False(t, out.Committed)
	assert.Empty(t, h.rec.calls)
}

func TestTierDropOnSelfAborts(t *testing.T) {
	h := newHarness()

	_, err := h.s.Press(0, 1, InputPointer)
	require.NoError(t, err)
	out, err := h.s.End(context.Background(), 5, 1)
	require.NoError(t, err)

	assert.False(t, out.Committed)
	assert.Empty(t, h.rec.calls)
}

func TestSecondStartIsRejected(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.s.Start(KindItem, "p1", types.PoolID, InputPointer))
	err := h.s.Start(KindTier, "A", "A", InputTouch)
	assert.ErrorIs(t, err, ErrSessionActive)

	st, _ := h.s.State()
	assert.Equal(t, "p1", st.PayloadID, "running session is untouched")
	assert.Zero(t, h.gh.shown)
}

func TestStartValidation(t *testing.T) {
	h := newHarness()
	assert.ErrorIs(t, h.s.Start(Kind(9), "x", "", InputPointer), ErrUnknownKind)
	assert.ErrorIs(t, h.s.Start(KindItem, "", "", InputPointer), types.ErrInvalidID)
	assert.False(t, h.s.Active())
}

func TestEndWithoutSession(t *testing.T) {
	h := newHarness()
	_, err := h.s.End(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMoveWithoutSessionIsIgnored(t *testing.T) {
	h := newHarness()
	h.s.Move(4, 1)
	assert.Zero(t, h.hl.marks)
	assert.False(t, h.s.Active())
}

func TestCancel(t *testing.T) {
	h := newHarness()

	_, err := h.s.Press(2, 5, InputTouch)
	require.NoError(t, err)
	h.s.Move(4, 1)
	h.s.Cancel()

	assert.False(t, h.s.Active())
	assert.Nil(t, h.hl.current)
	assert.Equal(t, 1, h.gh.hidden)
	assert.Empty(t, h.rec.calls)

	h.s.Cancel()
	assert.Equal(t, 1, h.gh.hidden, "cancel on idle session is a no-op")
}

func TestHighlightTracksSingleCandidate(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.s.Start(KindItem, "p1", types.PoolID, InputPointer))
	h.s.Move(4, 0)
	h.s.Move(5, 0)
	assert.Equal(t, 1, h.hl.marks, "same candidate is not re-marked")

	h.s.Move(4, 1)
	assert.Equal(t, 2, h.hl.marks)
	assert.Equal(t, "A", h.hl.current.ID)

	h.s.Move(1, 1)
	assert.Nil(t, h.hl.current)
	assert.Equal(t, 1, h.hl.clears)
}

func TestGhostOnlyForTouch(t *testing.T) {
	t.Run("pointer", func(t *testing.T) {
		h := newHarness()
		_, err := h.s.Press(2, 5, InputPointer)
		require.NoError(t, err)
		h.s.Move(4, 1)
		_, err = h.s.End(context.Background(), 4, 1)
		require.NoError(t, err)
		assert.Zero(t, h.gh.shown)
		assert.Zero(t, h.gh.hidden)
		assert.Empty(t, h.gh.follows)
	})

	t.Run("touch commit", func(t *testing.T) {
		h := newHarness()
		_, err := h.s.Press(2, 5, InputTouch)
		require.NoError(t, err)
		h.s.Move(4, 1)
		_, err = h.s.End(context.Background(), 4, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, h.gh.shown)
		assert.Equal(t, 1, h.gh.hidden)
		assert.Contains(t, h.gh.follows, [2]int{4, 1})
	})

	t.Run("touch abort", func(t *testing.T) {
		h := newHarness()
		_, err := h.s.Press(2, 5, InputTouch)
		require.NoError(t, err)
		_, err = h.s.End(context.Background(), 0, 9)
		require.NoError(t, err)
		assert.Equal(t, 1, h.gh.hidden)
	})
}

func TestReconcilerErrorStillEndsSession(t *testing.T) {
	h := newHarness()
	h.rec.err = errors.New("disk full")

	_, err := h.s.Press(2, 5, InputPointer)
	require.NoError(t, err)
	out, err := h.s.End(context.Background(), 4, 1)

	require.Error(t, err)
	assert.True(t, out.Committed)
	assert.False(t, h.s.Active())
}

func TestSessionWithoutPresentationPorts(t *testing.T) {
	rec := &fakeReconciler{}
	s := NewSession(gridLocator(), rec, WithLogger(quietLogger()))

	_, err := s.Press(2, 5, InputTouch)
	require.NoError(t, err)
	s.Move(4, 1)
	_, err = s.End(context.Background(), 4, 1)
	require.NoError(t, err)
	assert.Len(t, rec.calls, 1)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("tier")
	require.NoError(t, err)
	assert.Equal(t, KindTier, k)
	assert.Equal(t, "item", KindItem.String())

	_, err = ParseKind("row")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
