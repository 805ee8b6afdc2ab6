package tui

import (
	"context"
	"fmt"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/internal/drag"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestModel(t *testing.T) (Model, *board.Service, *View) {
	t.Helper()
	ctx := context.Background()
	view := NewView()
	n := 0
	svc := board.NewService(nil,
		board.WithProjector(view),
		board.WithLogger(quietLogger()),
		board.WithIDGenerator(func(prefix string) string {
			n++
			return fmt.Sprintf("%s%d", prefix, n)
		}),
	)
	require.NoError(t, svc.Replace(ctx, fixtureBoard()))

	m := New(ctx, svc, view, quietLogger())
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, svc, view
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func hover(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func ids(items []types.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestDragPoolItemIntoTier(t *testing.T) {
	m, svc, view := newTestModel(t)

	m = update(t, m, press(1, 5))
	st, ok := m.session.State()
	require.True(t, ok)
	assert.Equal(t, drag.KindItem, st.Kind)
	assert.Equal(t, "p1", st.PayloadID)

	m = update(t, m, motion(50, 1))
	target, ok := view.Highlighted()
	require.True(t, ok)
	assert.Equal(t, drag.Target{ID: "t1", Index: 0}, target)

	m = update(t, m, release(50, 1))
	assert.False(t, m.session.Active())
	_, ok = view.Highlighted()
	assert.False(t, ok)

	b := svc.Snapshot()
	assert.Equal(t, []string{"a", "b", "p1"}, ids(b.Tiers[0].Items))
	assert.Equal(t, []string{"p2"}, ids(b.Pool))
	assert.Equal(t, "moved Pizza to S", m.status)
}

func TestItemPressInsideTierStartsItemDrag(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = update(t, m, press(contentStart, 1))
	st, ok := m.session.State()
	require.True(t, ok)
	assert.Equal(t, drag.KindItem, st.Kind)
	assert.Equal(t, "a", st.PayloadID)
	assert.Equal(t, "t1", st.SourceID)
}

func TestDragTierHandle(t *testing.T) {
	m, svc, _ := newTestModel(t)

	m = update(t, m, press(0, 2))
	m = update(t, m, motion(40, 1))
	m = update(t, m, release(40, 1))

	b := svc.Snapshot()
	assert.Equal(t, "t2", b.Tiers[0].ID)
	assert.Equal(t, "t1", b.Tiers[1].ID)
	assert.Equal(t, "moved tier A to row 1", m.status)
}

func TestDropOutsideZonesCancels(t *testing.T) {
	m, svc, _ := newTestModel(t)
	before := svc.Snapshot()

	m = update(t, m, press(1, 5))
	m = update(t, m, release(5, 3))

	assert.Equal(t, before, svc.Snapshot())
	assert.Equal(t, "drop cancelled", m.status)
}

func TestPressOnLabelStartsNothing(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, press(4, 1))
	assert.False(t, m.session.Active())
}

func TestEscCancelsDrag(t *testing.T) {
	m, svc, view := newTestModel(t)
	before := svc.Snapshot()

	m = update(t, m, press(1, 5))
	m = update(t, m, motion(50, 2))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.session.Active())
	_, ok := view.Highlighted()
	assert.False(t, ok)

	m = update(t, m, release(50, 2))
	assert.Equal(t, before, svc.Snapshot())
}

func TestAddTierKey(t *testing.T) {
	m, svc, _ := newTestModel(t)
	m = update(t, m, keys("a"))

	b := svc.Snapshot()
	require.Len(t, b.Tiers, 3)
	assert.Equal(t, types.DefaultTierLabel, b.Tiers[2].Label)
	assert.Equal(t, "added tier NEW", m.status)
}

func TestNewItemInput(t *testing.T) {
	m, svc, _ := newTestModel(t)

	m = update(t, m, keys("n"))
	assert.Equal(t, modeNewItem, m.mode)

	// Board keys are plain text while typing.
	m = update(t, m, keys("Burrito a"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeBoard, m.mode)

	b := svc.Snapshot()
	require.Len(t, b.Pool, 3)
	assert.Equal(t, "Burrito a", b.Pool[2].Text)
	assert.Len(t, b.Tiers, 2)
}

func TestNewItemEscape(t *testing.T) {
	m, svc, _ := newTestModel(t)
	m = update(t, m, keys("n"))
	m = update(t, m, keys("x"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeBoard, m.mode)
	assert.Len(t, svc.Snapshot().Pool, 2)
}

func TestDeleteHoveredItem(t *testing.T) {
	m, svc, _ := newTestModel(t)

	m = update(t, m, keys("d"))
	assert.Len(t, svc.Snapshot().Pool, 2)

	m = update(t, m, hover(1, 5))
	m = update(t, m, keys("d"))
	assert.Equal(t, []string{"p2"}, ids(svc.Snapshot().Pool))
	assert.Equal(t, "deleted Pizza", m.status)
}

func TestClearPoolKey(t *testing.T) {
	m, svc, _ := newTestModel(t)
	update(t, m, keys("c"))
	assert.Empty(t, svc.Snapshot().Pool)
}

func TestResetNeedsSecondPress(t *testing.T) {
	m, svc, _ := newTestModel(t)

	m = update(t, m, keys("R"))
	assert.Len(t, svc.Snapshot().Tiers, 2)

	// Any other key disarms.
	m = update(t, m, keys("?"))
	m = update(t, m, keys("R"))
	assert.Len(t, svc.Snapshot().Tiers, 2)

	m = update(t, m, keys("R"))
	b := svc.Snapshot()
	assert.Len(t, b.Tiers, len(types.DefaultBoard().Tiers))
	assert.Empty(t, b.Pool)
	assert.Equal(t, "board reset", m.status)
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(keys("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewFollowsProjection(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "Pool (2)")

	m = update(t, m, keys("c"))
	out := m.View()
	assert.Contains(t, out, "Pool (0)")
	assert.Contains(t, out, "pool cleared")
}
