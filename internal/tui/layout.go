package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/tierboard/internal/drag"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// Row geometry, in terminal cells.
const (
	handleWidth  = 2
	labelWidth   = 8
	contentStart = handleWidth + labelWidth + 1
	maxChipText  = 18
	defaultWidth = 80
	minWidth     = contentStart + maxChipText + 2
)

type segKind int

const (
	segTitle segKind = iota
	segHandle
	segLabel
	segChip
)

// segment is one drawn run of cells on a line.
type segment struct {
	x     int
	text  string
	kind  segKind
	ref   string // item id for chips, tier id for handles and labels
	color string // label background
}

func (s segment) width() int { return lipgloss.Width(s.text) }

// line is one terminal row of the board. zone is the drop container the row
// belongs to, empty for chrome.
type line struct {
	segments []segment
	zone     string
}

type region struct {
	x0, y0, x1, y1 int
	hit            drag.Hit
}

func (r region) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

// Layout is the geometry of one rendered board: the lines to draw and the hit
// map coordinates resolve against. Later regions sit on top of earlier ones,
// so an item chip wins over the tier row around it.
type Layout struct {
	width   int
	lines   []line
	regions []region
}

// buildLayout lays b out for a terminal width cells wide. The header is row
// 0, each tier takes one row per wrapped line of chips, and the pool follows
// a blank row.
func buildLayout(b *types.Board, width int) *Layout {
	if width <= 0 {
		width = defaultWidth
	}
	if width < minWidth {
		width = minWidth
	}
	l := &Layout{width: width}
	l.lines = append(l.lines, line{segments: []segment{{text: "tierboard", kind: segTitle}}})

	for i, t := range b.Tiers {
		y0 := len(l.lines)
		rows := flowChips(t.Items, contentStart, width)
		for r, chips := range rows {
			ln := line{zone: t.ID}
			if r == 0 {
				ln.segments = append(ln.segments,
					segment{x: 0, text: "≡ ", kind: segHandle, ref: t.ID},
					segment{x: handleWidth, text: fitLabel(t.Label), kind: segLabel, ref: t.ID, color: t.Color},
				)
			}
			ln.segments = append(ln.segments, chips...)
			l.lines = append(l.lines, ln)
		}
		y1 := len(l.lines)

		row := drag.Hit{TierID: t.ID, TierIndex: i}
		content, handle, label := row, row, row
		content.Kind, content.Zone = drag.HitTierContent, t.ID
		handle.Kind = drag.HitTierHandle
		label.Kind = drag.HitTierLabel
		l.regions = append(l.regions,
			region{x0: contentStart - 1, y0: y0, x1: width, y1: y1, hit: content},
			region{x0: 0, y0: y0, x1: handleWidth, y1: y1, hit: handle},
			region{x0: handleWidth, y0: y0, x1: contentStart - 1, y1: y1, hit: label},
		)
		tierID, idx := t.ID, i
		l.addChips(y0, rows, func(id string) drag.Hit {
			return drag.Hit{Kind: drag.HitItem, ItemID: id, TierID: tierID, TierIndex: idx, Zone: tierID}
		})
	}

	l.lines = append(l.lines, line{})
	py0 := len(l.lines)
	title := segment{text: fmt.Sprintf("Pool (%d)", len(b.Pool)), kind: segTitle}
	l.lines = append(l.lines, line{zone: types.PoolID, segments: []segment{title}})
	rows := flowChips(b.Pool, 0, width)
	for _, chips := range rows {
		l.lines = append(l.lines, line{zone: types.PoolID, segments: chips})
	}
	l.regions = append(l.regions, region{
		x0: 0, y0: py0, x1: width, y1: len(l.lines),
		hit: drag.Hit{Kind: drag.HitPool, Zone: types.PoolID, TierIndex: -1},
	})
	l.addChips(py0+1, rows, func(id string) drag.Hit {
		return drag.Hit{Kind: drag.HitItem, ItemID: id, Zone: types.PoolID, TierIndex: -1}
	})
	return l
}

func (l *Layout) addChips(y0 int, rows [][]segment, hit func(id string) drag.Hit) {
	for r, chips := range rows {
		for _, c := range chips {
			l.regions = append(l.regions, region{
				x0: c.x, y0: y0 + r, x1: c.x + c.width(), y1: y0 + r + 1,
				hit: hit(c.ref),
			})
		}
	}
}

// HitAt implements drag.Locator.
func (l *Layout) HitAt(x, y int) drag.Hit {
	for i := len(l.regions) - 1; i >= 0; i-- {
		if l.regions[i].contains(x, y) {
			return l.regions[i].hit
		}
	}
	return drag.Hit{}
}

// Height is the number of rows the board occupies.
func (l *Layout) Height() int { return len(l.lines) }

// flowChips places one chip per item left to right from column start,
// wrapping before a chip would cross width. An empty container still gets
// one (empty) row.
func flowChips(items []types.Item, start, width int) [][]segment {
	var rows [][]segment
	var row []segment
	x := start
	for _, it := range items {
		c := segment{x: x, text: " " + truncate(it.Label(), maxChipText) + " ", kind: segChip, ref: it.ID}
		if len(row) > 0 && x+c.width() > width {
			rows = append(rows, row)
			row = nil
			x = start
			c.x = x
		}
		row = append(row, c)
		x += c.width() + 1
	}
	if len(row) > 0 || len(rows) == 0 {
		rows = append(rows, row)
	}
	return rows
}

// truncate collapses whitespace and shortens s to at most n cells.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > n-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func fitLabel(label string) string {
	return lipgloss.PlaceHorizontal(labelWidth, lipgloss.Center, truncate(label, labelWidth-2))
}
