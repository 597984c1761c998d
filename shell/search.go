package shell

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/pangrammer/config"
	"github.com/domino14/pangrammer/search"
	"github.com/domino14/pangrammer/sink"
)

// shellReporter keeps the latest telemetry so that `search show` can read
// it while the search goroutine owns the searcher.
type shellReporter struct {
	sc *ShellController
}

func (r shellReporter) Report(_ context.Context, t search.Telemetry) {
	r.sc.mu.Lock()
	defer r.sc.mu.Unlock()
	r.sc.telemetry = t
}

func (sc *ShellController) search(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		return sc.searchControlArguments(cmd.args)
	}
	if sc.lex == nil {
		return nil, errNoLexicon
	}
	if sc.isSearching() {
		return nil, errSearching
	}
	cfg, err := sc.searchConfig(cmd.options)
	if err != nil {
		return nil, err
	}
	timeout, err := cmd.options.DurationDefault("timeout", 0)
	if err != nil {
		return nil, err
	}

	cfg.OnSolution = sc.solutionHandler()
	s := search.New(sc.lex.Dictionary, sc.lex.Corpus, cfg)

	sc.mu.Lock()
	sc.searcher = s
	sc.solutions = nil
	sc.telemetry = search.Telemetry{}
	sc.mu.Unlock()

	log.Debug().Float64("exploration-rate", cfg.ExplorationRate).Int("match-threshold", cfg.MatchThreshold).
		Int("max-iterations", cfg.MaxIterations).Int("max-nodes", cfg.MaxNodes).Msg("will-start-search")
	sc.startSearch(s, timeout)
	return msg("Search started. Do `search show` to see progress and `solutions` to list what was found."), nil
}

func (sc *ShellController) searchConfig(options CmdOptions) (search.Config, error) {
	cfg := sc.config.SearchConfig()
	var err error
	if cfg.ExplorationRate, err = options.FloatDefault("explore", cfg.ExplorationRate); err != nil {
		return cfg, err
	}
	if cfg.ExplorationRate < 0 || cfg.ExplorationRate > 1 {
		return cfg, errors.New("exploration rate must be between 0 and 1")
	}
	if cfg.MatchThreshold, err = options.IntDefault("threshold", cfg.MatchThreshold); err != nil {
		return cfg, err
	}
	if cfg.MaxIterations, err = options.IntDefault("maxiter", cfg.MaxIterations); err != nil {
		return cfg, err
	}
	if cfg.Heuristic.Jitter, err = options.FloatDefault("jitter", cfg.Heuristic.Jitter); err != nil {
		return cfg, err
	}
	if v, ok := options["seed"]; ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, err
		}
		cfg.Rand = rand.New(rand.NewPCG(seed, seed))
	}

	reporters := search.Reporters{shellReporter{sc}}
	if cfg.Reporter != nil {
		reporters = append(reporters, cfg.Reporter)
	}
	if sc.metrics != nil {
		reporters = append(reporters, sc.metrics)
	}
	cfg.Reporter = reporters
	return cfg, nil
}

// solutionHandler is called from the search goroutine, which closes the
// found channel only after the searcher returns.
func (sc *ShellController) solutionHandler() func(search.Solution) {
	quiet := sc.config.GetBool(config.ConfigBenchmark)
	return func(sol search.Solution) {
		sc.mu.Lock()
		sc.solutions = append(sc.solutions, sol)
		n := len(sc.solutions)
		found := sc.found
		sc.mu.Unlock()
		if !quiet {
			sc.showMessage(sc.formatSolution(n-1, sol, false))
		}
		if len(sc.sinks) > 0 {
			found <- sol
		}
	}
}

// startSearch runs the searcher in the background. Found solutions are
// handed to the sinks by a second goroutine so that slow sinks do not hold
// up the search.
func (sc *ShellController) startSearch(s *search.Searcher, timeout time.Duration) {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	ctx = log.Logger.WithContext(ctx)
	done := make(chan struct{})
	found := make(chan search.Solution, 64)

	sc.mu.Lock()
	sc.searching = true
	sc.searchCancel = cancel
	sc.searchDone = done
	sc.found = found
	sc.mu.Unlock()

	dict := s.Dictionary()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(found)
		return s.Run(gctx)
	})
	g.Go(func() error {
		var errs []error
		for sol := range found {
			// Keep draining after a failure so the search never blocks.
			if err := sc.sinks.Write(context.Background(), sink.NewRecord(sol, dict)); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	go func() {
		err := g.Wait()
		cancel()
		t := s.Telemetry()
		sc.mu.Lock()
		sc.searching = false
		sc.telemetry = t
		sc.mu.Unlock()
		if err != nil {
			sc.showError(err)
		}
		if s.Finished() {
			sc.showMessage(fmt.Sprintf("Search finished: %d solutions after %s expansions.",
				t.Solutions, humanize.Comma(int64(t.Iterations))))
		} else {
			sc.showMessage(fmt.Sprintf("Search paused: %d solutions after %s expansions. Do `search resume` to continue.",
				t.Solutions, humanize.Comma(int64(t.Iterations))))
		}
		log.Debug().Msg("search thread exiting...")
		close(done)
	}()
}

func (sc *ShellController) searchControlArguments(args []string) (*Response, error) {
	switch args[0] {
	case "stop":
		if !sc.isSearching() {
			return nil, errors.New("no running search to stop")
		}
		sc.stopSearch()
		return sc.searchStatus(), nil
	case "show":
		return sc.searchStatus(), nil
	case "resume":
		if sc.isSearching() {
			return nil, errSearching
		}
		sc.mu.Lock()
		s := sc.searcher
		sc.mu.Unlock()
		if s == nil {
			return nil, errors.New("no search to resume; start one with `search`")
		}
		if s.Finished() {
			return nil, errors.New("the search has already finished")
		}
		sc.startSearch(s, 0)
		return msg("Search resumed."), nil
	}
	return nil, fmt.Errorf("do not understand search argument %v", args[0])
}

func (sc *ShellController) searchStatus() *Response {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.searcher == nil {
		return msg("No search has been started.")
	}
	t := sc.telemetry
	state := "paused"
	switch {
	case sc.searching:
		state = "running"
	case sc.searcher.Finished():
		state = "finished"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search is %s\n", state)
	fmt.Fprintf(&sb, "  iterations: %s\n", humanize.Comma(int64(t.Iterations)))
	fmt.Fprintf(&sb, "  nodes:      %s (%s on frontier)\n", humanize.Comma(int64(t.Nodes)), humanize.Comma(int64(t.Frontier)))
	fmt.Fprintf(&sb, "  solutions:  %d\n", len(sc.solutions))
	if t.Utility.Count() > 0 {
		fmt.Fprintf(&sb, "  utility:    last %.4g, mean %.4g (min %.4g, max %.4g)\n",
			t.Utility.Last(), t.Utility.Mean(), t.Utility.Min(), t.Utility.Max())
	}
	fmt.Fprintf(&sb, "  elapsed:    %s", t.Elapsed.Round(1e6))
	return msg(sb.String())
}

func (sc *ShellController) waitSearch() {
	sc.mu.Lock()
	done := sc.searchDone
	sc.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (sc *ShellController) stopSearch() {
	sc.mu.Lock()
	cancel := sc.searchCancel
	searching := sc.searching
	sc.mu.Unlock()
	if searching && cancel != nil {
		cancel()
	}
	sc.waitSearch()
}
