package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// memStore is an in-memory Store that counts calls.
type memStore struct {
	mu      sync.Mutex
	board   *types.Board
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func (m *memStore) Load(ctx context.Context) (*types.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.board == nil {
		return nil, types.ErrNoBoard
	}
	return m.board.Clone(), nil
}

func (m *memStore) Save(ctx context.Context, b *types.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.board = b.Clone()
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.board = nil
	return nil
}

func (m *memStore) Close() error { return nil }

// recorder is a Projector that keeps every snapshot it receives.
type recorder struct {
	snapshots []*types.Board
}

func (r *recorder) Project(b *types.Board) { r.snapshots = append(r.snapshots, b) }

func (r *recorder) last() *types.Board { return r.snapshots[len(r.snapshots)-1] }

// seqIDs returns a generator producing prefix1, prefix2, ...
func seqIDs() func(string) string {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func quietLogger() *log.Logger {
	l := log.New()
	l.SetLevel(log.PanicLevel)
	return l
}

func newTestService(t *testing.T, initial *types.Board) (*Service, *memStore, *recorder) {
	t.Helper()
	st := &memStore{board: initial}
	rec := &recorder{}
	svc := NewService(st, WithProjector(rec), WithLogger(quietLogger()), WithIDGenerator(seqIDs()))
	svc.Load(context.Background())
	st.saves = 0
	rec.snapshots = nil
	return svc, st, rec
}

func fixtureBoard() *types.Board {
	return &types.Board{
		Tiers: []types.Tier{
			{ID: "A", Label: "A", Color: "#ff7f7f", Items: []types.Item{{ID: "a1", Text: "a1"}, {ID: "a2", Text: "a2"}, {ID: "a3", Text: "a3"}}},
			{ID: "B", Label: "B", Color: "#ffbf7f", Items: []types.Item{{ID: "b1", Text: "b1"}}},
			{ID: "C", Label: "C", Color: "#ffdf7f", Items: []types.Item{}},
			{ID: "D", Label: "D", Color: "#ffff7f", Items: []types.Item{}},
		},
		Pool: []types.Item{{ID: "p1", Text: "p1"}, {ID: "p2", Text: "p2"}},
	}
}

func itemIDs(items []types.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func tierIDs(b *types.Board) []string {
	out := make([]string, len(b.Tiers))
	for i, t := range b.Tiers {
		out[i] = t.ID
	}
	return out
}

func TestLoad(t *testing.T) {
	t.Run("absent board uses defaults", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)
		assert.Equal(t, types.DefaultBoard(), svc.Snapshot())
	})

	t.Run("stored board restored", func(t *testing.T) {
		svc, _, _ := newTestService(t, fixtureBoard())
		assert.Equal(t, fixtureBoard(), svc.Snapshot())
	})

	t.Run("malformed store falls back to defaults", func(t *testing.T) {
		st := &memStore{loadErr: fmt.Errorf("decode: %w", types.ErrMalformed)}
		svc := NewService(st, WithLogger(quietLogger()))
		svc.Load(context.Background())
		assert.Equal(t, types.DefaultBoard(), svc.Snapshot())
	})

	t.Run("invalid stored board falls back to defaults", func(t *testing.T) {
		bad := &types.Board{Tiers: []types.Tier{{ID: "x"}, {ID: "x"}}}
		svc, _, _ := newTestService(t, bad)
		assert.Equal(t, types.DefaultBoard(), svc.Snapshot())
	})

	t.Run("load projects once", func(t *testing.T) {
		rec := &recorder{}
		svc := NewService(&memStore{board: fixtureBoard()}, WithProjector(rec))
		svc.Load(context.Background())
		require.Len(t, rec.snapshots, 1)
		assert.Equal(t, fixtureBoard(), rec.last())
	})
}

func TestSnapshotIsIsolated(t *testing.T) {
	svc, _, _ := newTestService(t, fixtureBoard())
	snap := svc.Snapshot()
	snap.Pool = nil
	snap.Tiers[0].Items[0].Text = "changed"

	again := svc.Snapshot()
	assert.Len(t, again.Pool, 2)
	assert.Equal(t, "a1", again.Tiers[0].Items[0].Text)
}

func TestSaveFailureKeepsMemory(t *testing.T) {
	svc, st, rec := newTestService(t, fixtureBoard())
	st.saveErr = errors.New("disk full")

	require.NoError(t, svc.MoveItem(context.Background(), "p1", "C"))

	assert.Equal(t, []string{"p1"}, itemIDs(svc.Snapshot().Tier("C").Items))
	assert.Equal(t, 1, st.saves)
	assert.Len(t, rec.snapshots, 1, "projection still happens after a failed save")
}

func TestNilStore(t *testing.T) {
	svc := NewService(nil, WithLogger(quietLogger()))
	svc.Load(context.Background())
	_, err := svc.CreateItem(context.Background(), "x", "")
	require.NoError(t, err)
	require.NoError(t, svc.Reset(context.Background()))
	assert.Empty(t, svc.Snapshot().Pool)
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID(ItemPrefix)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		assert.Regexp(t, `^i_[0-9a-f-]{36}$`, id)
	}
}
