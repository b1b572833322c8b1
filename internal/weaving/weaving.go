// Package weaving holds the tablet-weaving turn arithmetic: accumulating a
// tablet's net rotation pick by pick and deriving what shows on the cloth.
package weaving

import (
	"fmt"
	"strings"
)

// Direction is the way a tablet is turned for one pick.
type Direction string

const (
	Forward  Direction = "F"
	Backward Direction = "B"
)

// ParseDirection accepts F/B or forward/backward, case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "forward":
		return Forward, nil
	case "b", "backward", "back":
		return Backward, nil
	}
	return "", fmt.Errorf("invalid direction %q (valid: F, B)", s)
}

// IsValid reports whether d is Forward or Backward.
func (d Direction) IsValid() bool {
	return d == Forward || d == Backward
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

// Sign is +1 for Forward and -1 for Backward.
func (d Direction) Sign() int {
	if d == Forward {
		return 1
	}
	return -1
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return string(d)
}

// Turn is one tablet's state for one pick. TotalTurns is the running net
// rotation after the pick; it is zero before the first pick.
type Turn struct {
	Direction     Direction `json:"direction" yaml:"direction"`
	NumberOfTurns int       `json:"numberOfTurns" yaml:"numberOfTurns"`
	TotalTurns    int       `json:"totalTurns" yaml:"totalTurns"`
}

// TurnTablet applies one pick to a tablet. Direction and NumberOfTurns are
// returned as given; TotalTurns moves up for Forward and down for Backward.
// Any integers are accepted.
func TurnTablet(t Turn) Turn {
	total := t.TotalTurns
	if t.Direction == Forward {
		total += t.NumberOfTurns
	} else {
		total -= t.NumberOfTurns
	}
	return Turn{
		Direction:     t.Direction,
		NumberOfTurns: t.NumberOfTurns,
		TotalTurns:    total,
	}
}

// AccumulateTurns folds TurnTablet over one tablet's picks in order, starting
// from the given total. Each step's TotalTurns input is ignored and replaced by
// the previous step's output. steps is not modified.
func AccumulateTurns(steps []Turn, start int) []Turn {
	out := make([]Turn, len(steps))
	total := start
	for i, s := range steps {
		s.TotalTurns = total
		out[i] = TurnTablet(s)
		total = out[i].TotalTurns
	}
	return out
}

// FinalTotal returns the net rotation after all picks, or start when there are none.
func FinalTotal(picks []Turn, start int) int {
	if len(picks) == 0 {
		return start
	}
	return picks[len(picks)-1].TotalTurns
}
