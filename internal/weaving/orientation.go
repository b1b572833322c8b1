package weaving

import (
	"fmt"
	"strings"
)

// Orientation is the way a tablet's threads enter it, drawn as / or \.
type Orientation string

const (
	OrientationS Orientation = "S"
	OrientationZ Orientation = "Z"
)

// ParseOrientation accepts S, Z, "/" or "\".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "S", "/":
		return OrientationS, nil
	case "Z", `\`:
		return OrientationZ, nil
	}
	return "", fmt.Errorf("invalid orientation %q (valid: S, Z)", s)
}

// IsValid reports whether o is S or Z.
func (o Orientation) IsValid() bool {
	return o == OrientationS || o == OrientationZ
}

// Flip returns the other orientation.
func (o Orientation) Flip() Orientation {
	if o == OrientationS {
		return OrientationZ
	}
	return OrientationS
}

// Glyph is the chart symbol for the orientation.
func (o Orientation) Glyph() string {
	if o == OrientationZ {
		return `\`
	}
	return "/"
}

// DoubleFacedOrientation is the fixed orientation of a tablet in a
// double-faced pattern: even tablets S, odd tablets Z.
func DoubleFacedOrientation(tablet int) Orientation {
	if tablet%2 == 0 {
		return OrientationS
	}
	return OrientationZ
}

// VisibleHole returns the index of the hole whose thread lies on the top face
// after the pick described by t. For an idle pick (zero turns) t.Direction is
// the last direction the tablet moved in.
func VisibleHole(t Turn, holes int) int {
	if holes <= 0 {
		return 0
	}
	if t.Direction == Backward {
		return mod(-t.TotalTurns-1, holes)
	}
	return mod(-t.TotalTurns, holes)
}

// VisibleHoleAt is VisibleHole for picks[row] of one tablet. An idle pick
// takes the direction of the last pick before it that turned, since the
// tablet has not moved.
func VisibleHoleAt(picks []Turn, row, holes int) int {
	t := picks[row]
	if t.NumberOfTurns == 0 {
		for i := row - 1; i >= 0; i-- {
			if picks[i].NumberOfTurns != 0 {
				t.Direction = picks[i].Direction
				break
			}
		}
	}
	return VisibleHole(t, holes)
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
