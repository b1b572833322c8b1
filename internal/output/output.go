// Package output provides styled terminal output helpers (success, error,
// warning, pattern formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/store"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	typeStyles   = map[pattern.Type]lipgloss.Style{
		pattern.TypeIndividual:  lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		pattern.TypeAllTogether: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		pattern.TypeDoubleFaced: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
	}
)

// SetColorMode applies the ui.color setting: "never" strips colour,
// "always" forces it, "auto" leaves lipgloss to detect the terminal.
func SetColorMode(mode string) {
	switch mode {
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeAmbiguous     = "ambiguous"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeDatabaseError = "database_error"
	ErrCodeIOError       = "io_error"
	ErrCodeInternal      = "internal_error"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	JSONErrorWithDetails(code, message, nil)
}

// JSONErrorWithDetails outputs an error as JSON with additional context
func JSONErrorWithDetails(code, message string, details map[string]interface{}) {
	fmt.Println(FormatJSONError(code, message, details))
}

// FormatJSONError builds the {"error": {...}} document printed by JSONError.
func FormatJSONError(code, message string, details map[string]interface{}) string {
	errObj := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 {
		errObj["details"] = details
	}
	data, _ := json.Marshal(map[string]interface{}{"error": errObj})
	return string(data)
}

// FormatType formats a pattern type with color
func FormatType(t pattern.Type) string {
	style, ok := typeStyles[t]
	if !ok {
		return string(t)
	}
	return style.Render(string(t))
}

// FormatTags renders tags as #tag, space separated
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + t
	}
	return tagStyle.Render(strings.Join(parts, " "))
}

// FormatSize returns "12×40 (4 holes)"
func FormatSize(tablets, rows, holes int) string {
	return fmt.Sprintf("%d×%d (%d holes)", tablets, rows, holes)
}

// FormatEntryShort formats a library entry on one line, the name cut to
// nameWidth cells.
func FormatEntryShort(e store.Entry, nameWidth int) string {
	name := e.Name
	if nameWidth > 0 {
		name = ansi.Truncate(name, nameWidth, "…")
	}
	parts := []string{
		titleStyle.Render(store.ShortID(e.ID)),
		name,
		FormatType(e.Type),
		subtleStyle.Render(FormatSize(e.Tablets, e.Rows, e.Holes)),
		subtleStyle.Render(FormatTimeAgo(e.UpdatedAt)),
	}
	if tags := FormatTags(e.Tags); tags != "" {
		parts = append(parts, tags)
	}
	return strings.Join(parts, "  ")
}

// FormatPatternLong formats a pattern header with its rendered description.
func FormatPatternLong(p *pattern.Pattern, description string) string {
	var sb strings.Builder

	title := p.Name
	if p.ID != "" {
		title = fmt.Sprintf("%s: %s", store.ShortID(p.ID), p.Name)
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Type: %s | Size: %s\n", FormatType(p.Type), FormatSize(p.Tablets, p.Rows, p.Holes)))
	if len(p.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags: %s\n", FormatTags(p.Tags)))
	}
	if !p.UpdatedAt.IsZero() {
		sb.WriteString(subtleStyle.Render(fmt.Sprintf("Created %s, updated %s",
			FormatTimeAgo(p.CreatedAt), FormatTimeAgo(p.UpdatedAt))))
		sb.WriteString("\n")
	}

	if description != "" {
		sb.WriteString("\n")
		sb.WriteString(subtleStyle.Render("Description:"))
		sb.WriteString("\n")
		sb.WriteString(description)
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	if time.Since(t) < time.Minute {
		return "just now"
	}
	return humanize.Time(t)
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nTHREADING:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}
