package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/internal/drag"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

type mode int

const (
	modeBoard mode = iota
	modeNewItem
)

// Model is the bubbletea model of the terminal board. Board mutations run
// synchronously inside Update; the service projects the result into the
// View before the next render.
type Model struct {
	ctx     context.Context
	svc     *board.Service
	view    *View
	session *drag.Session
	pointer *drag.PointerInput
	log     *log.Logger

	keys  keyMap
	help  help.Model
	input textinput.Model
	mode  mode

	hover        drag.Hit
	status       string
	failed       bool
	confirmReset bool
}

// New returns a model driving svc. view must be the service's projector.
func New(ctx context.Context, svc *board.Service, view *View, l *log.Logger) Model {
	if l == nil {
		l = log.StandardLogger()
	}
	session := drag.NewSession(view, svc, drag.WithHighlighter(view), drag.WithLogger(l))

	in := textinput.New()
	in.Placeholder = "item text"
	in.Prompt = "New item: "
	in.CharLimit = 200

	return Model{
		ctx:     ctx,
		svc:     svc,
		view:    view,
		session: session,
		pointer: drag.NewPointerInput(session),
		log:     l,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   in,
		status:  "drag items and tier handles with the mouse",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.view.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	case tea.KeyMsg:
		if m.mode == modeNewItem {
			return m.handleInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		started, err := m.pointer.Down(msg.X, msg.Y)
		if err != nil {
			return m.setError(err)
		}
		if started {
			if st, ok := m.session.State(); ok {
				m = m.setStatus("dragging " + m.describe(st.Kind, st.PayloadID))
			}
		}
	case tea.MouseActionMotion:
		m.hover = m.view.HitAt(msg.X, msg.Y)
		if m.session.Active() {
			m.pointer.Motion(msg.X, msg.Y)
		}
	case tea.MouseActionRelease:
		if !m.session.Active() {
			return m
		}
		out, err := m.pointer.Up(m.ctx, msg.X, msg.Y)
		m.hover = m.view.HitAt(msg.X, msg.Y)
		if err != nil {
			return m.setError(err)
		}
		if !out.Committed {
			return m.setStatus("drop cancelled")
		}
		return m.setStatus(fmt.Sprintf("moved %s to %s", m.describe(out.Kind, out.PayloadID), m.describeTarget(out)))
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	resetArmed := m.confirmReset
	m.confirmReset = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.session.Active() {
			m.session.Cancel()
			return m.setStatus("drag cancelled"), nil
		}
	case key.Matches(msg, m.keys.AddTier):
		t, err := m.svc.AddTier(m.ctx, "", "")
		if err != nil {
			return m.setError(err), nil
		}
		return m.setStatus("added tier " + t.Label), nil
	case key.Matches(msg, m.keys.NewItem):
		m.mode = modeNewItem
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.DeleteItem):
		if m.hover.Kind != drag.HitItem {
			return m.setStatus("point at an item to delete it"), nil
		}
		name := m.describe(drag.KindItem, m.hover.ItemID)
		if err := m.svc.DeleteItem(m.ctx, m.hover.ItemID); err != nil {
			return m.setError(err), nil
		}
		m.hover = drag.Hit{}
		return m.setStatus("deleted " + name), nil
	case key.Matches(msg, m.keys.ClearPool):
		if err := m.svc.ClearPool(m.ctx); err != nil {
			return m.setError(err), nil
		}
		return m.setStatus("pool cleared"), nil
	case key.Matches(msg, m.keys.Reset):
		if !resetArmed {
			m.confirmReset = true
			return m.setStatus("press R again to reset the board"), nil
		}
		m.session.Cancel()
		if err := m.svc.Reset(m.ctx); err != nil {
			return m.setError(err), nil
		}
		return m.setStatus("board reset"), nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBoard
		m.input.Blur()
		return m.setStatus("new item cancelled"), nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		m.mode = modeBoard
		m.input.Blur()
		if text == "" {
			return m.setStatus("new item cancelled"), nil
		}
		it, err := m.svc.CreateItem(m.ctx, text, "")
		if err != nil {
			return m.setError(err), nil
		}
		return m.setStatus("added " + it.Label() + " to the pool"), nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) setStatus(s string) Model {
	m.status, m.failed = s, false
	return m
}

func (m Model) setError(err error) Model {
	m.log.WithError(err).Warn("board action failed")
	m.status, m.failed = err.Error(), true
	return m
}

// describe names the dragged payload for the status line.
func (m Model) describe(kind drag.Kind, id string) string {
	b := m.view.Board()
	if kind == drag.KindTier {
		if t := b.Tier(id); t != nil {
			return "tier " + t.Label
		}
		return "tier " + id
	}
	if it, err := b.Item(id); err == nil {
		return it.Label()
	}
	return id
}

func (m Model) describeTarget(out drag.Outcome) string {
	if out.Kind == drag.KindTier {
		return fmt.Sprintf("row %d", out.Target.Index+1)
	}
	if out.Target.ID == types.PoolID {
		return "the pool"
	}
	if t := m.view.Board().Tier(out.Target.ID); t != nil {
		return t.Label
	}
	return out.Target.ID
}

// View implements tea.Model. The board occupies the first rows so that mouse
// coordinates match the layout's hit map.
func (m Model) View() string {
	st := renderState{}
	if t, ok := m.view.Highlighted(); ok {
		st.highlight = &t
	}
	if ds, ok := m.session.State(); ok {
		st.dragging = ds.PayloadID
	}
	if m.hover.Kind == drag.HitItem {
		st.hover = m.hover.ItemID
	}

	var sb strings.Builder
	sb.WriteString(m.view.Layout().render(st))
	sb.WriteString("\n\n")
	if m.mode == modeNewItem {
		sb.WriteString(m.input.View())
	} else if m.failed {
		sb.WriteString(errorStyle.Render(m.status))
	} else {
		sb.WriteString(statusStyle.Render(m.status))
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// Run starts the full-screen board and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, svc *board.Service, view *View, l *log.Logger) error {
	m := New(ctx, svc, view, l)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}
