package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/glamour"

	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// Board output formats for show.
const (
	formatText     = "text"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

func marshalIndent(v any) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(v, "", "  ")
}

// renderText writes one line per tier followed by the pool:
//
//	S  [t1]  Pizza (i_01..), Tacos (i_02..)
func renderText(w io.Writer, b *types.Board) {
	width := 4
	for _, t := range b.Tiers {
		if n := len(t.Label); n > width {
			width = n
		}
	}
	for _, t := range b.Tiers {
		fmt.Fprintf(w, "%-*s  [%s]  %s\n", width, t.Label, t.ID, itemList(t.Items))
	}
	fmt.Fprintf(w, "%-*s  %s\n", width, "Pool", itemList(b.Pool))
}

func itemList(items []types.Item) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s (%s)", it.Label(), it.ID)
	}
	return strings.Join(parts, ", ")
}

// boardMarkdown renders the board as a markdown document.
func boardMarkdown(b *types.Board) string {
	var sb strings.Builder
	sb.WriteString("# Tier list\n\n")
	sb.WriteString("| Tier | Items |\n|---|---|\n")
	for _, t := range b.Tiers {
		fmt.Fprintf(&sb, "| **%s** | %s |\n", escapeCell(t.Label), escapeCell(markdownItems(t.Items)))
	}
	fmt.Fprintf(&sb, "\n## Pool\n\n")
	if len(b.Pool) == 0 {
		sb.WriteString("_empty_\n")
	}
	for _, it := range b.Pool {
		fmt.Fprintf(&sb, "- %s\n", it.Label())
	}
	return sb.String()
}

func markdownItems(items []types.Item) string {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label()
	}
	return strings.Join(labels, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// renderMarkdown renders md for the terminal. A fixed style avoids terminal
// background queries; on failure the raw markdown is returned.
func renderMarkdown(md string, width int) string {
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
