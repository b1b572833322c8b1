// Package pattern models a tablet-weaving pattern: its threading, tablet
// orientations and weaving instructions, and turns those instructions into
// per-tablet picks.
package pattern

import (
	"errors"
	"strings"
	"time"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
)

// Type is the kind of weaving instructions a pattern carries.
type Type string

const (
	// TypeIndividual patterns give a direction and turn count per tablet per row.
	TypeIndividual Type = "individual"
	// TypeAllTogether patterns turn every tablet one step in the row's direction.
	TypeAllTogether Type = "allTogether"
	// TypeDoubleFaced patterns use individual picks with fixed alternating orientations.
	TypeDoubleFaced Type = "doubleFaced"
)

// ValidTypes lists the supported pattern types.
var ValidTypes = []Type{TypeIndividual, TypeAllTogether, TypeDoubleFaced}

// IsValidType reports whether t is a supported pattern type.
func IsValidType(t Type) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}

// NormalizeType maps loose spellings onto a Type.
func NormalizeType(s string) Type {
	switch strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, "-", ""), "_", "")) {
	case "individual", "ind":
		return TypeIndividual
	case "alltogether", "all":
		return TypeAllTogether
	case "doublefaced", "df", "double":
		return TypeDoubleFaced
	}
	return Type(s)
}

// Limits on pattern dimensions.
const (
	MaxTablets = 200
	MaxRows    = 1000
	// EmptyHole marks a hole with no thread in Threading.
	EmptyHole = -1
)

// ValidHoles lists the supported hole counts per tablet.
var ValidHoles = []int{2, 4, 6}

// DefaultPalette is the colour set given to new patterns.
var DefaultPalette = []string{
	"#1d1d1d", "#f5f0e1", "#b22222", "#1f4e8c",
	"#e0a526", "#2e7d32", "#6a1b9a", "#d2691e",
}

// ErrOutOfRange is returned by edits addressing a row, tablet or hole that does not exist.
var ErrOutOfRange = errors.New("out of range")

// Step is one weaving instruction for one tablet in one row.
type Step struct {
	Direction     weaving.Direction `json:"direction" yaml:"direction"`
	NumberOfTurns int               `json:"numberOfTurns" yaml:"numberOfTurns"`
}

// Pattern is a complete tablet-weaving pattern.
type Pattern struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Type        Type   `json:"type" yaml:"type"`
	Holes       int    `json:"holes" yaml:"holes"`
	Tablets     int    `json:"tablets" yaml:"tablets"`
	Rows        int    `json:"rows" yaml:"rows"`

	Palette      []string              `json:"palette,omitempty" yaml:"palette,omitempty"`
	Threading    [][]int               `json:"threading,omitempty" yaml:"threading,omitempty"` // [hole][tablet] palette index
	Orientations []weaving.Orientation `json:"orientations,omitempty" yaml:"orientations,omitempty"`

	Picks       [][]Step            `json:"picks,omitempty" yaml:"picks,omitempty"` // [row][tablet]
	AllTogether []weaving.Direction `json:"allTogether,omitempty" yaml:"allTogether,omitempty"`

	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	CreatedAt time.Time `json:"-" yaml:"-"`
	UpdatedAt time.Time `json:"-" yaml:"-"`
}

// New builds a pattern with default threading and every tablet turning
// forward one step per row.
func New(name string, typ Type, tablets, rows, holes int) *Pattern {
	p := &Pattern{
		Name:    name,
		Type:    typ,
		Holes:   holes,
		Tablets: tablets,
		Rows:    rows,
		Palette: append([]string(nil), DefaultPalette...),
	}

	p.Threading = make([][]int, holes)
	for h := range p.Threading {
		p.Threading[h] = make([]int, tablets)
		for t := range p.Threading[h] {
			p.Threading[h][t] = defaultThread(h, holes)
		}
	}

	p.Orientations = make([]weaving.Orientation, tablets)
	for t := range p.Orientations {
		if typ == TypeDoubleFaced {
			p.Orientations[t] = weaving.DoubleFacedOrientation(t)
		} else {
			p.Orientations[t] = weaving.OrientationS
		}
	}

	if typ == TypeAllTogether {
		p.AllTogether = make([]weaving.Direction, rows)
		for r := range p.AllTogether {
			p.AllTogether[r] = weaving.Forward
		}
		return p
	}

	p.Picks = make([][]Step, rows)
	for r := range p.Picks {
		p.Picks[r] = defaultRow(tablets)
	}
	return p
}

// defaultThread colours the first half of the holes dark and the rest light.
func defaultThread(hole, holes int) int {
	if hole*2 < holes {
		return 0
	}
	return 1
}

func defaultRow(tablets int) []Step {
	row := make([]Step, tablets)
	for t := range row {
		row[t] = Step{Direction: weaving.Forward, NumberOfTurns: 1}
	}
	return row
}

// Orientation returns the orientation a tablet is woven with. Double-faced
// patterns ignore the stored orientations.
func (p *Pattern) Orientation(tablet int) weaving.Orientation {
	if p.Type == TypeDoubleFaced {
		return weaving.DoubleFacedOrientation(tablet)
	}
	if tablet < 0 || tablet >= len(p.Orientations) {
		return weaving.OrientationS
	}
	return p.Orientations[tablet]
}

// FillOrientations gives double-faced patterns their fixed S/Z alternation,
// one entry per tablet. Other types are left as stored.
func (p *Pattern) FillOrientations() {
	if p.Type != TypeDoubleFaced || p.Tablets < 0 {
		return
	}
	p.Orientations = make([]weaving.Orientation, p.Tablets)
	for t := range p.Orientations {
		p.Orientations[t] = weaving.DoubleFacedOrientation(t)
	}
}

// Instructions returns each tablet's steps in row order, indexed [tablet][row].
// TotalTurns is left at zero; see ComputePicks.
func (p *Pattern) Instructions() [][]weaving.Turn {
	out := make([][]weaving.Turn, p.Tablets)
	for t := 0; t < p.Tablets; t++ {
		steps := make([]weaving.Turn, p.Rows)
		for r := 0; r < p.Rows; r++ {
			steps[r] = p.stepAt(r, t)
		}
		out[t] = steps
	}
	return out
}

func (p *Pattern) stepAt(row, tablet int) weaving.Turn {
	if p.Type == TypeAllTogether {
		if row < len(p.AllTogether) {
			return weaving.Turn{Direction: p.AllTogether[row], NumberOfTurns: 1}
		}
		return weaving.Turn{Direction: weaving.Forward}
	}
	if row < len(p.Picks) && tablet < len(p.Picks[row]) {
		s := p.Picks[row][tablet]
		return weaving.Turn{Direction: s.Direction, NumberOfTurns: s.NumberOfTurns}
	}
	return weaving.Turn{Direction: weaving.Forward}
}

// ComputePicks folds every tablet's instructions from a zero total and
// returns the accumulated picks indexed [tablet][row].
func (p *Pattern) ComputePicks() [][]weaving.Turn {
	instructions := p.Instructions()
	picks := make([][]weaving.Turn, len(instructions))
	for t, steps := range instructions {
		picks[t] = weaving.AccumulateTurns(steps, 0)
	}
	return picks
}

// ThreadColor returns the palette colour showing for a tablet after picks[row],
// or "" when that hole is empty. picks is the tablet's row of ComputePicks.
func (p *Pattern) ThreadColor(tablet int, picks []weaving.Turn, row int) string {
	hole := weaving.VisibleHoleAt(picks, row, p.Holes)
	if hole >= len(p.Threading) || tablet >= len(p.Threading[hole]) {
		return ""
	}
	idx := p.Threading[hole][tablet]
	if idx < 0 || idx >= len(p.Palette) {
		return ""
	}
	return p.Palette[idx]
}

// Clone returns a deep copy.
func (p *Pattern) Clone() *Pattern {
	c := *p
	c.Palette = append([]string(nil), p.Palette...)
	c.Orientations = append([]weaving.Orientation(nil), p.Orientations...)
	c.AllTogether = append([]weaving.Direction(nil), p.AllTogether...)
	c.Tags = append([]string(nil), p.Tags...)
	c.Threading = make([][]int, len(p.Threading))
	for i, row := range p.Threading {
		c.Threading[i] = append([]int(nil), row...)
	}
	if p.Picks != nil {
		c.Picks = make([][]Step, len(p.Picks))
		for i, row := range p.Picks {
			c.Picks[i] = append([]Step(nil), row...)
		}
	}
	return &c
}
