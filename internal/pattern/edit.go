package pattern

import (
	"fmt"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
)

// All row, tablet and hole arguments are 0-based.

func (p *Pattern) checkRow(row int) error {
	if row < 0 || row >= p.Rows {
		return fmt.Errorf("row %d: %w (pattern has %d rows)", row+1, ErrOutOfRange, p.Rows)
	}
	return nil
}

func (p *Pattern) checkTablet(tablet int) error {
	if tablet < 0 || tablet >= p.Tablets {
		return fmt.Errorf("tablet %d: %w (pattern has %d tablets)", tablet+1, ErrOutOfRange, p.Tablets)
	}
	return nil
}

// SetStep replaces one instruction. For all-together patterns only the
// direction is used and it applies to the whole row.
func (p *Pattern) SetStep(row, tablet int, s Step) error {
	if err := p.checkRow(row); err != nil {
		return err
	}
	if p.Type == TypeAllTogether {
		p.AllTogether[row] = s.Direction
		return nil
	}
	if err := p.checkTablet(tablet); err != nil {
		return err
	}
	p.Picks[row][tablet] = s
	return nil
}

// ToggleDirection flips the direction of one instruction.
func (p *Pattern) ToggleDirection(row, tablet int) error {
	if err := p.checkRow(row); err != nil {
		return err
	}
	if p.Type == TypeAllTogether {
		p.AllTogether[row] = p.AllTogether[row].Opposite()
		return nil
	}
	if err := p.checkTablet(tablet); err != nil {
		return err
	}
	s := &p.Picks[row][tablet]
	s.Direction = s.Direction.Opposite()
	return nil
}

// AddRow inserts a row before index at (at == Rows appends). The new row
// copies the row before it, or is all forward single turns when there is none.
func (p *Pattern) AddRow(at int) error {
	if at < 0 || at > p.Rows {
		return fmt.Errorf("row %d: %w", at+1, ErrOutOfRange)
	}
	if p.Rows >= MaxRows {
		return fmt.Errorf("pattern already has the maximum of %d rows", MaxRows)
	}

	if p.Type == TypeAllTogether {
		d := weaving.Forward
		if at > 0 {
			d = p.AllTogether[at-1]
		}
		p.AllTogether = insertAt(p.AllTogether, at, d)
	} else {
		row := defaultRow(p.Tablets)
		if at > 0 {
			copy(row, p.Picks[at-1])
		}
		p.Picks = insertAt(p.Picks, at, row)
	}
	p.Rows++
	return nil
}

// RemoveRow deletes one row. The last row cannot be removed.
func (p *Pattern) RemoveRow(row int) error {
	if err := p.checkRow(row); err != nil {
		return err
	}
	if p.Rows == 1 {
		return fmt.Errorf("cannot remove the only row")
	}
	if p.Type == TypeAllTogether {
		p.AllTogether = removeAt(p.AllTogether, row)
	} else {
		p.Picks = removeAt(p.Picks, row)
	}
	p.Rows--
	return nil
}

// AddTablet inserts a tablet before index at (at == Tablets appends). It is
// threaded and turned like its left neighbour. Double-faced patterns keep
// their S/Z alternation.
func (p *Pattern) AddTablet(at int) error {
	if at < 0 || at > p.Tablets {
		return fmt.Errorf("tablet %d: %w", at+1, ErrOutOfRange)
	}
	if p.Tablets >= MaxTablets {
		return fmt.Errorf("pattern already has the maximum of %d tablets", MaxTablets)
	}

	src := at - 1
	for h := range p.Threading {
		c := defaultThread(h, p.Holes)
		if src >= 0 {
			c = p.Threading[h][src]
		}
		p.Threading[h] = insertAt(p.Threading[h], at, c)
	}

	o := weaving.OrientationS
	if src >= 0 && src < len(p.Orientations) {
		o = p.Orientations[src]
	}
	for len(p.Orientations) < at {
		p.Orientations = append(p.Orientations, weaving.OrientationS)
	}
	p.Orientations = insertAt(p.Orientations, at, o)

	for r := range p.Picks {
		s := Step{Direction: weaving.Forward, NumberOfTurns: 1}
		if src >= 0 {
			s = p.Picks[r][src]
		}
		p.Picks[r] = insertAt(p.Picks[r], at, s)
	}
	p.Tablets++
	p.FillOrientations()
	return nil
}

// RemoveTablet deletes one tablet. The last tablet cannot be removed.
func (p *Pattern) RemoveTablet(tablet int) error {
	if err := p.checkTablet(tablet); err != nil {
		return err
	}
	if p.Tablets == 1 {
		return fmt.Errorf("cannot remove the only tablet")
	}
	for h := range p.Threading {
		p.Threading[h] = removeAt(p.Threading[h], tablet)
	}
	if tablet < len(p.Orientations) {
		p.Orientations = removeAt(p.Orientations, tablet)
	}
	for r := range p.Picks {
		p.Picks[r] = removeAt(p.Picks[r], tablet)
	}
	p.Tablets--
	p.FillOrientations()
	return nil
}

// SetOrientation sets one tablet's orientation. Double-faced patterns have
// fixed orientations and refuse the change.
func (p *Pattern) SetOrientation(tablet int, o weaving.Orientation) error {
	if err := p.checkTablet(tablet); err != nil {
		return err
	}
	if p.Type == TypeDoubleFaced {
		return fmt.Errorf("double-faced patterns use fixed orientations")
	}
	if !o.IsValid() {
		return fmt.Errorf("invalid orientation %q", o)
	}
	p.Orientations[tablet] = o
	return nil
}

// SetThread sets the palette colour threaded through one hole of one tablet.
// Use EmptyHole to leave it unthreaded.
func (p *Pattern) SetThread(hole, tablet, color int) error {
	if hole < 0 || hole >= p.Holes {
		return fmt.Errorf("hole %d: %w", hole+1, ErrOutOfRange)
	}
	if err := p.checkTablet(tablet); err != nil {
		return err
	}
	if color != EmptyHole && (color < 0 || color >= len(p.Palette)) {
		return fmt.Errorf("colour %d: %w (palette has %d colours)", color, ErrOutOfRange, len(p.Palette))
	}
	p.Threading[hole][tablet] = color
	return nil
}

func insertAt[T any](s []T, at int, v T) []T {
	s = append(s, v)
	copy(s[at+1:], s[at:])
	s[at] = v
	return s
}

func removeAt[T any](s []T, at int) []T {
	return append(s[:at], s[at+1:]...)
}
