package weaving

// TabletSummary describes one tablet's accumulated picks.
type TabletSummary struct {
	FinalTurns  int `json:"finalTurns"`
	MaxTwist    int `json:"maxTwist"`
	Reversals   int `json:"reversals"`
	IdlePicks   int `json:"idlePicks"`
	TotalPicks  int `json:"totalPicks"`
	ForwardRuns int `json:"forwardRuns"`
}

// Summarize reads a tablet's accumulated picks. MaxTwist is the largest
// absolute running total seen. A reversal is a moving pick whose direction
// differs from the previous moving pick; idle picks do not break a run.
func Summarize(picks []Turn) TabletSummary {
	s := TabletSummary{TotalPicks: len(picks)}
	var last Direction
	for _, p := range picks {
		if abs(p.TotalTurns) > s.MaxTwist {
			s.MaxTwist = abs(p.TotalTurns)
		}
		if p.NumberOfTurns == 0 {
			s.IdlePicks++
			continue
		}
		if p.Direction != last {
			if last != "" {
				s.Reversals++
			}
			if p.Direction == Forward {
				s.ForwardRuns++
			}
			last = p.Direction
		}
	}
	s.FinalTurns = FinalTotal(picks, 0)
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
