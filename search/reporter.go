package search

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/domino14/pangrammer/stats"
)

// Telemetry is a snapshot of a running search.
type Telemetry struct {
	Iterations int
	Explored   int
	Frontier   int
	Nodes      int
	Solutions  int
	Elapsed    time.Duration
	// Utility summarizes the heuristic values of every expanded node.
	Utility stats.Statistic
}

type Reporter interface {
	Report(ctx context.Context, t Telemetry)
}

// LogReporter writes telemetry to the context logger.
type LogReporter struct{}

func (LogReporter) Report(ctx context.Context, t Telemetry) {
	zerolog.Ctx(ctx).Info().
		Str("iterations", humanize.Comma(int64(t.Iterations))).
		Str("explored", humanize.Comma(int64(t.Explored))).
		Str("frontier", humanize.Comma(int64(t.Frontier))).
		Str("nodes", humanize.Comma(int64(t.Nodes))).
		Int("solutions", t.Solutions).
		Float64("mean-utility", t.Utility.Mean()).
		Float64("min-utility", t.Utility.Min()).
		Float64("max-utility", t.Utility.Max()).
		Float64("last-utility", t.Utility.Last()).
		Dur("elapsed", t.Elapsed).
		Msg("search-progress")
}

// Telemetry returns the current counters.
func (s *Searcher) Telemetry() Telemetry {
	return Telemetry{
		Iterations: s.iterations,
		Explored:   s.explored,
		Frontier:   s.frontier.Len(),
		Nodes:      len(s.graph.nodes),
		Solutions:  len(s.solutions),
		Elapsed:    s.elapsed,
		Utility:    s.utility,
	}
}

func (s *Searcher) NumNodes() int {
	return len(s.graph.nodes)
}

func (s *Searcher) report(ctx context.Context) {
	if s.cfg.Reporter == nil {
		return
	}
	s.cfg.Reporter.Report(ctx, s.Telemetry())
}

// Reporters sends each report to all of its members, in order.
type Reporters []Reporter

func (rs Reporters) Report(ctx context.Context, t Telemetry) {
	for _, r := range rs {
		r.Report(ctx, t)
	}
}
