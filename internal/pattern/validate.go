package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalid is matched by every *ValidationError.
var ErrInvalid = errors.New("invalid pattern")

// ValidationError collects every problem found in a pattern.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid pattern: " + e.Issues[0]
	}
	return fmt.Sprintf("invalid pattern (%d issues):\n  - %s", len(e.Issues), strings.Join(e.Issues, "\n  - "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e *ValidationError) add(format string, args ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, args...))
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks the pattern's dimensions and contents. Turn counts must be
// within 0..maxTurns; the turn arithmetic itself accepts anything, so this is
// where out-of-range counts are rejected.
func (p *Pattern) Validate(maxTurns int) error {
	v := &ValidationError{}

	if strings.TrimSpace(p.Name) == "" {
		v.add("name is required")
	}
	if !IsValidType(p.Type) {
		v.add("unknown type %q (valid: individual, allTogether, doubleFaced)", p.Type)
	}
	if !validHoles(p.Holes) {
		v.add("holes must be 2, 4 or 6, got %d", p.Holes)
	}
	if p.Type == TypeDoubleFaced && p.Holes != 4 {
		v.add("double-faced patterns need 4 holes, got %d", p.Holes)
	}
	if p.Tablets < 1 || p.Tablets > MaxTablets {
		v.add("tablets must be between 1 and %d, got %d", MaxTablets, p.Tablets)
	}
	if p.Rows < 1 || p.Rows > MaxRows {
		v.add("rows must be between 1 and %d, got %d", MaxRows, p.Rows)
	}
	if len(v.Issues) > 0 {
		// Dimension problems make the grid checks below meaningless.
		return v
	}

	for i, c := range p.Palette {
		if !hexColor.MatchString(c) {
			v.add("palette[%d]: %q is not a #rrggbb colour", i, c)
		}
	}

	if len(p.Threading) != p.Holes {
		v.add("threading has %d holes, want %d", len(p.Threading), p.Holes)
	}
	for h, row := range p.Threading {
		if len(row) != p.Tablets {
			v.add("threading hole %d has %d tablets, want %d", h, len(row), p.Tablets)
			continue
		}
		for t, idx := range row {
			if idx != EmptyHole && (idx < 0 || idx >= len(p.Palette)) {
				v.add("threading hole %d tablet %d: colour %d not in palette", h, t+1, idx)
			}
		}
	}

	if p.Type != TypeDoubleFaced {
		if len(p.Orientations) != p.Tablets {
			v.add("orientations has %d entries, want %d", len(p.Orientations), p.Tablets)
		}
		for t, o := range p.Orientations {
			if !o.IsValid() {
				v.add("tablet %d: invalid orientation %q", t+1, o)
			}
		}
	}

	switch p.Type {
	case TypeAllTogether:
		if len(p.AllTogether) != p.Rows {
			v.add("allTogether has %d rows, want %d", len(p.AllTogether), p.Rows)
		}
		for r, d := range p.AllTogether {
			if !d.IsValid() {
				v.add("row %d: invalid direction %q", r+1, d)
			}
		}
	default:
		if len(p.Picks) != p.Rows {
			v.add("picks has %d rows, want %d", len(p.Picks), p.Rows)
		}
		for r, row := range p.Picks {
			if len(row) != p.Tablets {
				v.add("row %d has %d tablets, want %d", r+1, len(row), p.Tablets)
				continue
			}
			for t, s := range row {
				if !s.Direction.IsValid() {
					v.add("row %d tablet %d: invalid direction %q", r+1, t+1, s.Direction)
				}
				if s.NumberOfTurns < 0 || s.NumberOfTurns > maxTurns {
					v.add("row %d tablet %d: %d turns (must be 0-%d)", r+1, t+1, s.NumberOfTurns, maxTurns)
				}
			}
		}
	}

	if len(v.Issues) > 0 {
		return v
	}
	return nil
}

func validHoles(n int) bool {
	for _, h := range ValidHoles {
		if h == n {
			return true
		}
	}
	return false
}
