package tui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tierboard/internal/drag"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// fixtureBoard lays out as:
//
//	y=0  header
//	y=1  t1 "S" with a, b
//	y=2  t2 "A" empty
//	y=3  blank
//	y=4  Pool (2)
//	y=5  p1 p2
func fixtureBoard() *types.Board {
	return &types.Board{
		Tiers: []types.Tier{
			{ID: "t1", Label: "S", Color: "#ff7f7f", Items: []types.Item{{ID: "a", Text: "a"}, {ID: "b", Text: "b"}}},
			{ID: "t2", Label: "A", Color: "#ffbf7f", Items: []types.Item{}},
		},
		Pool: []types.Item{{ID: "p1", Text: "Pizza"}, {ID: "p2", Text: "Tacos"}},
	}
}

func TestHitAt(t *testing.T) {
	l := buildLayout(fixtureBoard(), 80)

	tests := []struct {
		name string
		x, y int
		want drag.Hit
	}{
		{"header", 0, 0, drag.Hit{}},
		{"tier handle", 0, 1, drag.Hit{Kind: drag.HitTierHandle, TierID: "t1", TierIndex: 0}},
		{"tier label", 4, 1, drag.Hit{Kind: drag.HitTierLabel, TierID: "t1", TierIndex: 0}},
		{"item in tier", contentStart, 1, drag.Hit{Kind: drag.HitItem, ItemID: "a", TierID: "t1", TierIndex: 0, Zone: "t1"}},
		{"second item", contentStart + 4, 1, drag.Hit{Kind: drag.HitItem, ItemID: "b", TierID: "t1", TierIndex: 0, Zone: "t1"}},
		{"tier content", 50, 1, drag.Hit{Kind: drag.HitTierContent, TierID: "t1", TierIndex: 0, Zone: "t1"}},
		{"empty tier", 50, 2, drag.Hit{Kind: drag.HitTierContent, TierID: "t2", TierIndex: 1, Zone: "t2"}},
		{"gap row", 5, 3, drag.Hit{}},
		{"pool title", 2, 4, drag.Hit{Kind: drag.HitPool, Zone: types.PoolID, TierIndex: -1}},
		{"pool item", 1, 5, drag.Hit{Kind: drag.HitItem, ItemID: "p1", Zone: types.PoolID, TierIndex: -1}},
		{"pool space", 60, 5, drag.Hit{Kind: drag.HitPool, Zone: types.PoolID, TierIndex: -1}},
		{"below board", 0, 9, drag.Hit{}},
		{"past width", 80, 1, drag.Hit{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.HitAt(tt.x, tt.y))
		})
	}
	assert.Equal(t, 6, l.Height())
}

func TestChipsWrap(t *testing.T) {
	items := make([]types.Item, 10)
	for i := range items {
		items[i] = types.Item{ID: fmt.Sprintf("i%d", i), Text: fmt.Sprintf("item-%d", i)}
	}
	rows := flowChips(items, contentStart, 40)
	require.Len(t, rows, 4)

	n := 0
	for _, row := range rows {
		require.NotEmpty(t, row)
		assert.Equal(t, contentStart, row[0].x)
		for _, c := range row {
			assert.LessOrEqual(t, c.x+c.width(), 40)
			n++
		}
	}
	assert.Equal(t, 10, n)
}

func TestWrappedTierRowsShareHits(t *testing.T) {
	b := fixtureBoard()
	for i := 0; i < 12; i++ {
		b.Tiers[0].Items = append(b.Tiers[0].Items, types.Item{ID: fmt.Sprintf("x%d", i), Text: "longer item text"})
	}
	l := buildLayout(b, 60)

	// The S tier now spans several rows; its handle and content cover all of them.
	assert.Equal(t, drag.HitTierHandle, l.HitAt(0, 2).Kind)
	assert.Equal(t, "t1", l.HitAt(0, 2).TierID)
	assert.Equal(t, "t1", l.HitAt(59, 2).Zone)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\n  b", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, labelWidth, len(fitLabel("S")))
}

func TestRenderMarksHighlightedZone(t *testing.T) {
	l := buildLayout(fixtureBoard(), 80)
	plain := l.render(renderState{})
	assert.Contains(t, plain, "Pool (2)")
	assert.Contains(t, plain, "Pizza")

	lit := l.render(renderState{highlight: &drag.Target{ID: "t2", Index: 1}})
	assert.Contains(t, lit, "Tacos")
}
