package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/domino14/pangrammer/search"
)

func TestReporterCountsDeltas(t *testing.T) {
	is := is.New(t)
	r := NewReporter(prometheus.NewRegistry())
	ctx := context.Background()

	r.Report(ctx, search.Telemetry{Iterations: 10, Solutions: 2, Frontier: 40, Nodes: 50, Elapsed: time.Second})
	r.Report(ctx, search.Telemetry{Iterations: 25, Solutions: 3, Frontier: 30, Nodes: 55, Elapsed: 2 * time.Second})
	is.Equal(testutil.ToFloat64(r.iterations), 25.0)
	is.Equal(testutil.ToFloat64(r.solutions), 3.0)
	is.Equal(testutil.ToFloat64(r.frontier), 30.0)
	is.Equal(testutil.ToFloat64(r.nodes), 55.0)

	// a new run starts from zero again
	r.Report(ctx, search.Telemetry{Iterations: 5, Solutions: 1, Frontier: 3, Nodes: 8})
	is.Equal(testutil.ToFloat64(r.iterations), 30.0)
	is.Equal(testutil.ToFloat64(r.solutions), 4.0)
}

func TestReporterWithSearch(t *testing.T) {
	is := is.New(t)
	r := NewReporter(prometheus.NewRegistry())
	cfg := search.DefaultConfig()
	cfg.Reporter = r
	sols, err := search.Search(context.Background(), "ABDGIR",
		[]string{"A", "I", "BIG", "BAD", "AD", "RIG"}, cfg)
	is.NoErr(err)
	is.Equal(len(sols), 1)
	is.Equal(testutil.ToFloat64(r.solutions), 1.0)
	is.Equal(testutil.ToFloat64(r.frontier), 0.0)
	is.True(testutil.ToFloat64(r.iterations) > 0)
}
