// Package metrics exports search telemetry to Prometheus.
package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/domino14/pangrammer/search"
)

// Reporter is a search.Reporter that updates Prometheus collectors. Counters
// only ever go up; a new search run keeps adding to them.
type Reporter struct {
	mu   sync.Mutex
	last search.Telemetry

	iterations prometheus.Counter
	solutions  prometheus.Counter
	frontier   prometheus.Gauge
	nodes      prometheus.Gauge
	utility    prometheus.Gauge
	rate       prometheus.Histogram
}

// NewReporter registers the search collectors with reg. Pass
// prometheus.DefaultRegisterer to expose them on the default handler.
func NewReporter(reg prometheus.Registerer) *Reporter {
	f := promauto.With(reg)
	return &Reporter{
		iterations: f.NewCounter(prometheus.CounterOpts{
			Name: "pangrams_search_iterations_total",
			Help: "Total nodes expanded by the search",
		}),
		solutions: f.NewCounter(prometheus.CounterOpts{
			Name: "pangrams_search_solutions_total",
			Help: "Total distinct solutions found",
		}),
		frontier: f.NewGauge(prometheus.GaugeOpts{
			Name: "pangrams_search_frontier_size",
			Help: "Nodes waiting to be expanded",
		}),
		nodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "pangrams_search_nodes",
			Help: "Nodes in the search graph",
		}),
		utility: f.NewGauge(prometheus.GaugeOpts{
			Name: "pangrams_search_mean_utility",
			Help: "Mean heuristic value of expanded nodes",
		}),
		rate: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pangrams_search_iterations_per_second",
			Help:    "Expansion rate between reports",
			Buckets: prometheus.ExponentialBuckets(100, 4, 8), // 100 to ~1.6M
		}),
	}
}

func (r *Reporter) Report(_ context.Context, t search.Telemetry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// A fresh searcher starts its counts over.
	if t.Iterations < r.last.Iterations || t.Solutions < r.last.Solutions {
		r.last = search.Telemetry{}
	}
	di := t.Iterations - r.last.Iterations
	r.iterations.Add(float64(di))
	r.solutions.Add(float64(t.Solutions - r.last.Solutions))
	r.frontier.Set(float64(t.Frontier))
	r.nodes.Set(float64(t.Nodes))
	r.utility.Set(t.Utility.Mean())
	if dt := (t.Elapsed - r.last.Elapsed).Seconds(); di > 0 && dt > 0 {
		r.rate.Observe(float64(di) / dt)
	}
	r.last = t
}
