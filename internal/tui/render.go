package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/tierboard/internal/drag"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	handleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	chipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#eeeeee")).Background(lipgloss.Color("#3a3a3a"))
	chipHover     = chipStyle.Underline(true)
	draggingStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	zoneStyle     = lipgloss.NewStyle().Background(lipgloss.Color("#2d3b55"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#aaaaaa"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
)

// renderState is the transient decoration applied on top of a layout.
type renderState struct {
	highlight *drag.Target
	dragging  string
	hover     string
}

func (l *Layout) render(st renderState) string {
	var sb strings.Builder
	for i, ln := range l.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		lit := st.highlight != nil && ln.zone != "" && ln.zone == st.highlight.ID
		sb.WriteString(l.renderLine(ln, lit, st))
	}
	return sb.String()
}

func (l *Layout) renderLine(ln line, lit bool, st renderState) string {
	gap := func(n int) string {
		pad := strings.Repeat(" ", n)
		if lit {
			return zoneStyle.Render(pad)
		}
		return pad
	}

	var sb strings.Builder
	x := 0
	for _, seg := range ln.segments {
		if seg.x > x {
			sb.WriteString(gap(seg.x - x))
		}
		sb.WriteString(segmentStyle(seg, st).Render(seg.text))
		x = seg.x + seg.width()
	}
	if lit && x < l.width {
		sb.WriteString(gap(l.width - x))
	}
	return sb.String()
}

func segmentStyle(seg segment, st renderState) lipgloss.Style {
	if seg.ref != "" && seg.ref == st.dragging && seg.kind != segLabel {
		return draggingStyle
	}
	switch seg.kind {
	case segTitle:
		return titleStyle
	case segHandle:
		return handleStyle
	case segLabel:
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color(seg.color))
	case segChip:
		if seg.ref == st.hover {
			return chipHover
		}
		return chipStyle
	}
	return lipgloss.NewStyle()
}
