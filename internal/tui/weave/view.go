package weave

import (
	"fmt"
	"strings"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/output"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
	"github.com/charmbracelet/lipgloss"
)

// renderView renders the complete TUI view
func (m Model) renderView() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}

	// Handle small terminal sizes gracefully
	if m.Width < MinWidth || m.Height < MinHeight {
		return m.renderCompact()
	}

	footer := m.renderFooter()
	available := m.Height - lipgloss.Height(footer) - 1

	// Chart gets the top half, tablet detail the rest.
	chartHeight := max(available/2, 3)
	detailHeight := max(available-chartHeight, 3)

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.renderChartPanel(chartHeight),
		m.renderDetailPanel(detailHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

// renderCompact renders a minimal view for small terminals
func (m Model) renderCompact() string {
	var s strings.Builder
	s.WriteString("tt weave (resize for full view)\n\n")
	s.WriteString(fmt.Sprintf("%s\n", m.Pattern.Name))
	s.WriteString(fmt.Sprintf("Row %d/%d\n", m.Row+1, m.Pattern.Rows))
	pick := m.Current()
	s.WriteString(fmt.Sprintf("Tablet %d: %s\n", m.Tablet+1, describePick(pick)))
	s.WriteString("\nj/k:row q:quit")
	return s.String()
}

func (m Model) panelTitle() string {
	title := fmt.Sprintf("%s · row %d/%d", m.Pattern.Name, m.Row+1, m.Pattern.Rows)
	return panelTitleStyle.Render(title)
}

// visibleWindow returns the [start, end) range of size n around cursor.
func visibleWindow(cursor, total, n int) (int, int) {
	if n >= total {
		return 0, total
	}
	start := max(cursor-n/2, 0)
	end := start + n
	if end > total {
		end = total
		start = end - n
	}
	return start, end
}

// renderChartPanel draws the rows around the current one.
func (m Model) renderChartPanel(height int) string {
	var s strings.Builder
	s.WriteString(m.panelTitle())
	s.WriteString("\n")

	lines := max(height-3, 1)
	start, end := visibleWindow(m.Row, m.Pattern.Rows, lines)
	for r := start; r < end; r++ {
		marker := "  "
		label := subtleStyle.Render(fmt.Sprintf("%4d ", r+1))
		if r == m.Row {
			marker = currentStyle.Render("▶ ")
			label = currentStyle.Render(fmt.Sprintf("%4d ", r+1))
		}
		s.WriteString(marker + label)
		for t := 0; t < len(m.Picks); t++ {
			if r >= len(m.Picks[t]) {
				continue
			}
			pick := m.Picks[t][r]
			glyph := output.PickGlyph(m.Pattern.Orientation(t), pick)
			color := m.Pattern.ThreadColor(t, m.Picks[t], r)
			style := lipgloss.NewStyle()
			if color != "" {
				style = style.Foreground(lipgloss.Color(color))
			}
			if r == m.Row && t == m.Tablet {
				style = style.Underline(true)
			}
			s.WriteString(style.Render(glyph))
		}
		if r < end-1 {
			s.WriteString("\n")
		}
	}

	return panelStyle.Width(max(m.Width-2, 10)).Render(s.String())
}

// renderDetailPanel lists what every tablet does on the current row.
func (m Model) renderDetailPanel(height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("Row %d", m.Row+1)))
	if m.Err != nil {
		s.WriteString("  " + errorStyle.Render("reload failed: "+m.Err.Error()))
	} else if !m.ReloadedAt.IsZero() {
		s.WriteString("  " + subtleStyle.Render("reloaded "+m.ReloadedAt.Format("15:04:05")))
	}
	s.WriteString("\n")

	lines := max(height-3, 1)
	start, end := visibleWindow(m.Tablet, len(m.Picks), lines)
	for t := start; t < end; t++ {
		if m.Row >= len(m.Picks[t]) {
			continue
		}
		pick := m.Picks[t][m.Row]
		hole := weaving.VisibleHoleAt(m.Picks[t], m.Row, m.Pattern.Holes)
		line := fmt.Sprintf("T%-3d %s  %-12s total %+3d  hole %s %s",
			t+1,
			m.Pattern.Orientation(t).Glyph(),
			describePick(pick),
			pick.TotalTurns,
			output.HoleLabel(hole),
			swatch(m.Pattern.ThreadColor(t, m.Picks[t], m.Row)),
		)
		if t == m.Tablet {
			line = currentStyle.Render("▶ ") + line
		} else {
			line = "  " + line
		}
		s.WriteString(line)
		if t < end-1 {
			s.WriteString("\n")
		}
	}

	return panelStyle.Width(max(m.Width-2, 10)).Render(s.String())
}

// describePick renders direction and turn count, e.g. "forward ×2".
func describePick(pick weaving.Turn) string {
	switch {
	case pick.NumberOfTurns == 0:
		return idleBadge.Render("idle")
	case pick.Direction == weaving.Backward:
		return backwardBadge.Render(fmt.Sprintf("back ×%d", pick.NumberOfTurns))
	default:
		return forwardBadge.Render(fmt.Sprintf("fwd ×%d", pick.NumberOfTurns))
	}
}

// renderFooter renders the key help line
func (m Model) renderFooter() string {
	return m.help.View(m.keys)
}
