// Package analysis summarises the twist each tablet accumulates over a
// pattern, for one pattern or many in parallel.
package analysis

import (
	"context"
	"runtime"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
	"golang.org/x/sync/errgroup"
)

// DefaultTwistWarning is the absolute running twist above which a tablet is flagged.
const DefaultTwistWarning = 8

// TabletReport is one tablet's summary.
type TabletReport struct {
	Tablet int `json:"tablet"` // 1-based
	weaving.TabletSummary
	Warning bool `json:"warning"`
}

// Report summarises a whole pattern.
type Report struct {
	PatternID   string         `json:"patternId,omitempty"`
	PatternName string         `json:"patternName"`
	Tablets     []TabletReport `json:"tablets"`
	MaxTwist    int            `json:"maxTwist"`
	Warnings    []int          `json:"warnings,omitempty"` // 1-based tablets over the threshold
	Balanced    bool           `json:"balanced"`           // every tablet ends where it started
}

// Analyze folds every tablet of p and summarises the result. threshold <= 0
// uses DefaultTwistWarning.
func Analyze(p *pattern.Pattern, threshold int) Report {
	if threshold <= 0 {
		threshold = DefaultTwistWarning
	}
	r := Report{
		PatternID:   p.ID,
		PatternName: p.Name,
		Balanced:    true,
	}
	for i, picks := range p.ComputePicks() {
		s := weaving.Summarize(picks)
		tr := TabletReport{Tablet: i + 1, TabletSummary: s, Warning: s.MaxTwist > threshold}
		r.Tablets = append(r.Tablets, tr)
		if s.MaxTwist > r.MaxTwist {
			r.MaxTwist = s.MaxTwist
		}
		if tr.Warning {
			r.Warnings = append(r.Warnings, tr.Tablet)
		}
		if s.FinalTurns != 0 {
			r.Balanced = false
		}
	}
	return r
}

// Source yields one pattern to analyse. It is called from worker goroutines.
type Source func(ctx context.Context) (*pattern.Pattern, error)

// AnalyzeAll runs Analyze over every source with at most workers in flight
// (workers <= 0 uses GOMAXPROCS). Reports keep the order of sources. The
// first error cancels the remaining work and is returned.
func AnalyzeAll(ctx context.Context, sources []Source, threshold, workers int) ([]Report, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	reports := make([]Report, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := src(ctx)
			if err != nil {
				return err
			}
			reports[i] = Analyze(p, threshold)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Static wraps an already-loaded pattern as a Source.
func Static(p *pattern.Pattern) Source {
	return func(context.Context) (*pattern.Pattern, error) { return p, nil }
}
