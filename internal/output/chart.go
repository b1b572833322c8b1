package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/analysis"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
)

const (
	emptyCell = "··"
	idleCell  = "--"
	fillCell  = "██"
	// maxTotalsWidth caps the running-total column of the pick table.
	maxTotalsWidth = 60
)

// HoleLabel names a hole the way weavers do: A, B, C...
func HoleLabel(hole int) string {
	return string(rune('A' + hole))
}

func cellStyle(color string) lipgloss.Style {
	if color == "" {
		return subtleStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// tabletRuler numbers the tablet columns, one two-cell column per tablet.
func tabletRuler(tablets, labelWidth int) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", labelWidth))
	for t := 1; t <= tablets; t++ {
		sb.WriteString(fmt.Sprintf("%2d", t%100))
	}
	return subtleStyle.Render(sb.String())
}

// ThreadingChart draws the colour in each hole of each tablet, hole A at the
// top, followed by the tablet orientations.
func ThreadingChart(p *pattern.Pattern) string {
	const labelWidth = 4
	var sb strings.Builder
	sb.WriteString(tabletRuler(p.Tablets, labelWidth))
	sb.WriteString("\n")

	for h := 0; h < len(p.Threading); h++ {
		sb.WriteString(fmt.Sprintf("%-*s", labelWidth, HoleLabel(h)))
		for t := 0; t < p.Tablets && t < len(p.Threading[h]); t++ {
			idx := p.Threading[h][t]
			if idx < 0 || idx >= len(p.Palette) {
				sb.WriteString(subtleStyle.Render(emptyCell))
				continue
			}
			sb.WriteString(cellStyle(p.Palette[idx]).Render(fillCell))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("%-*s", labelWidth, ""))
	for t := 0; t < p.Tablets; t++ {
		sb.WriteString(" " + p.Orientation(t).Glyph())
	}
	return sb.String()
}

// PickGlyph is the chart symbol for a tablet after a pick: the tablet's
// orientation, reversed when it turned backward, or "--" when it stayed still.
func PickGlyph(o weaving.Orientation, pick weaving.Turn) string {
	if pick.NumberOfTurns == 0 {
		return idleCell
	}
	if pick.Direction == weaving.Backward {
		o = o.Flip()
	}
	g := o.Glyph()
	return g + g
}

// WeavingChart draws each row of picks in the colour of the thread that
// shows, row 1 at the top. picks is indexed [tablet][row].
func WeavingChart(p *pattern.Pattern, picks [][]weaving.Turn) string {
	const labelWidth = 5
	var sb strings.Builder
	sb.WriteString(tabletRuler(p.Tablets, labelWidth))

	for r := 0; r < p.Rows; r++ {
		sb.WriteString("\n")
		sb.WriteString(subtleStyle.Render(fmt.Sprintf("%*d ", labelWidth-1, r+1)))
		for t := 0; t < p.Tablets && t < len(picks); t++ {
			if r >= len(picks[t]) {
				sb.WriteString(emptyCell)
				continue
			}
			pick := picks[t][r]
			sb.WriteString(cellStyle(p.ThreadColor(t, picks[t], r)).Render(PickGlyph(p.Orientation(t), pick)))
		}
	}
	return sb.String()
}

// PickTable lists each tablet's running totals and final position.
func PickTable(p *pattern.Pattern, picks [][]weaving.Turn) string {
	rows := make([][]string, 0, len(picks))
	for t, tablet := range picks {
		totals := make([]string, len(tablet))
		for r, pick := range tablet {
			totals[r] = strconv.Itoa(pick.TotalTurns)
		}
		rows = append(rows, []string{
			strconv.Itoa(t + 1),
			string(p.Orientation(t)),
			ansi.Truncate(strings.Join(totals, " "), maxTotalsWidth, "…"),
			strconv.Itoa(weaving.FinalTotal(tablet, 0)),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(subtleStyle).
		Headers("Tablet", "Orient", "Running total", "Final").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

// TwistReport renders an analysis report, flagging tablets over the threshold.
func TwistReport(r analysis.Report) string {
	var sb strings.Builder
	title := r.PatternName
	if r.PatternID != "" {
		title = fmt.Sprintf("%s (%s)", r.PatternName, r.PatternID[:min(8, len(r.PatternID))])
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")

	rows := make([][]string, 0, len(r.Tablets))
	for _, t := range r.Tablets {
		flag := ""
		if t.Warning {
			flag = "!"
		}
		rows = append(rows, []string{
			strconv.Itoa(t.Tablet),
			strconv.Itoa(t.FinalTurns),
			strconv.Itoa(t.MaxTwist),
			strconv.Itoa(t.Reversals),
			strconv.Itoa(t.IdlePicks),
			flag,
		})
	}
	warn := make(map[int]bool, len(r.Warnings))
	for _, t := range r.Warnings {
		warn[t] = true
	}
	sb.WriteString(table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(subtleStyle).
		Headers("Tablet", "Final", "Max twist", "Reversals", "Idle", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return titleStyle.Padding(0, 1)
			case row >= 0 && row < len(r.Tablets) && warn[r.Tablets[row].Tablet]:
				return warningStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render())
	sb.WriteString("\n")

	switch {
	case len(r.Warnings) > 0:
		sb.WriteString(warningStyle.Render(fmt.Sprintf("%d tablet(s) twist past the warning threshold: %s",
			len(r.Warnings), joinInts(r.Warnings))))
	case r.Balanced:
		sb.WriteString(successStyle.Render("Balanced: every tablet ends where it started"))
	default:
		sb.WriteString(subtleStyle.Render(fmt.Sprintf("Max twist %d", r.MaxTwist)))
	}
	return sb.String()
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
