// Package weave is the interactive weaving view: it steps through a pattern
// row by row, showing what each tablet does and which thread shows.
package weave

import (
	"time"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/watch"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// MinWidth is the minimum terminal width for proper display
const MinWidth = 40

// MinHeight is the minimum terminal height for proper display
const MinHeight = 12

// Model is the Bubble Tea model for the weaving view
type Model struct {
	Pattern *pattern.Pattern
	Picks   [][]weaving.Turn // [tablet][row]

	// Window dimensions
	Width  int
	Height int

	// UI state
	Row        int // 0-based current row
	Tablet     int // 0-based highlighted tablet
	ShowHelp   bool
	ReloadedAt time.Time
	Err        error // last reload error, if any

	keys keyMap
	help help.Model

	// Set when the pattern comes from a watched file.
	events <-chan watch.Event
	reload func() (*pattern.Pattern, error)
}

// PatternMsg carries a reloaded pattern, or the error reloading it.
type PatternMsg struct {
	Pattern *pattern.Pattern
	Err     error
}

// NewModel creates a weaving view positioned on the first row
func NewModel(p *pattern.Pattern) Model {
	return Model{
		Pattern: p,
		Picks:   p.ComputePicks(),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// WithWatch makes the view reload the pattern whenever events fires.
func (m Model) WithWatch(events <-chan watch.Event, reload func() (*pattern.Pattern, error)) Model {
	m.events = events
	m.reload = reload
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks until the watched file changes, then reloads it.
func (m Model) waitForChange() tea.Cmd {
	if m.events == nil || m.reload == nil {
		return nil
	}
	events, reload := m.events, m.reload
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		p, err := reload()
		return PatternMsg{Pattern: p, Err: err}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case PatternMsg:
		if msg.Err != nil {
			m.Err = msg.Err
		} else {
			m = m.setPattern(msg.Pattern)
		}
		return m, m.waitForChange()
	}

	return m, nil
}

// setPattern swaps in a new pattern, keeping the cursor where it still fits.
func (m Model) setPattern(p *pattern.Pattern) Model {
	m.Pattern = p
	m.Picks = p.ComputePicks()
	m.Err = nil
	m.ReloadedAt = time.Now()
	m.Row = clamp(m.Row, 0, p.Rows-1)
	m.Tablet = clamp(m.Tablet, 0, p.Tablets-1)
	return m
}

// handleKey processes key input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.ShowHelp = !m.ShowHelp
		m.help.ShowAll = m.ShowHelp

	case key.Matches(msg, m.keys.Next):
		m.Row = clamp(m.Row+1, 0, m.Pattern.Rows-1)

	case key.Matches(msg, m.keys.Prev):
		m.Row = clamp(m.Row-1, 0, m.Pattern.Rows-1)

	case key.Matches(msg, m.keys.First):
		m.Row = 0

	case key.Matches(msg, m.keys.Last):
		m.Row = max(m.Pattern.Rows-1, 0)

	case key.Matches(msg, m.keys.Right):
		m.Tablet = clamp(m.Tablet+1, 0, m.Pattern.Tablets-1)

	case key.Matches(msg, m.keys.Left):
		m.Tablet = clamp(m.Tablet-1, 0, m.Pattern.Tablets-1)
	}

	return m, nil
}

// Current returns the highlighted tablet's pick on the current row.
func (m Model) Current() weaving.Turn {
	if m.Tablet >= len(m.Picks) || m.Row >= len(m.Picks[m.Tablet]) {
		return weaving.Turn{}
	}
	return m.Picks[m.Tablet][m.Row]
}

// View implements tea.Model
func (m Model) View() string {
	return m.renderView()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
