// Package search enumerates perfect pangrams: ways to split an alphabet into
// dictionary letter sets, using every letter exactly once.
//
// The search walks a graph of "remaining letters" states. Many word choices
// lead to the same remaining letters, so the graph is a DAG with one node per
// letter set. Whenever a completion is found below a node, it is pushed up
// through every parent edge until it reaches the root, where it becomes a
// solution. Discovering a new edge into a node that already has completions
// yields new solutions without any further exploration.
package search

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/rs/zerolog"

	"github.com/domino14/pangrammer/alphabet"
	"github.com/domino14/pangrammer/heuristic"
	"github.com/domino14/pangrammer/lexicon"
	"github.com/domino14/pangrammer/stats"
)

const DefaultReportInterval = 1000

// ErrNodeLimit is returned by Run when the graph has reached Config.MaxNodes.
var ErrNodeLimit = errors.New("search graph reached its node limit")

type Config struct {
	// ExplorationRate is the probability, from 0 to 1, of expanding a random
	// frontier node instead of the best one.
	ExplorationRate float64
	// MatchThreshold reports states with at most this many letters left
	// over, not only perfect pangrams.
	MatchThreshold int
	// MaxIterations bounds the number of expansions done by one call to Run.
	// Zero means no bound.
	MaxIterations int
	// MaxNodes bounds the size of the graph. Zero means no bound.
	MaxNodes int
	// MinWordLength is only used by Search, when compiling the dictionary.
	MinWordLength int

	Heuristic heuristic.Options
	// Rand drives exploration and heuristic jitter. If nil, a
	// cryptographically seeded source is used.
	Rand RandSource

	Reporter       Reporter
	ReportInterval int
	// OnSolution is called once per distinct solution, as soon as it is found.
	OnSolution func(Solution)
}

func DefaultConfig() Config {
	return Config{
		MinWordLength:  1,
		ReportInterval: DefaultReportInterval,
		Heuristic: heuristic.Options{
			Weights: heuristic.DefaultWeights(),
			Vowels:  heuristic.DefaultVowels,
		},
	}
}

// Searcher owns the state graph, frontier and discovered solutions for one
// run. It is not safe for concurrent use.
type Searcher struct {
	cfg    Config
	dict   *lexicon.Dictionary
	scorer *heuristic.Scorer
	rnd    RandSource
	full   alphabet.LetterSet

	graph    graph
	frontier frontier

	discovered map[string]struct{}
	solutions  []Solution
	pending    []Solution
	streaming  bool

	iterations int
	explored   int
	utility    stats.Statistic
	elapsed    time.Duration

	cands []alphabet.LetterSet
	stack []frame
}

// New creates a searcher over a compiled dictionary and its corpus
// statistics. The root node is placed on the frontier.
func New(dict *lexicon.Dictionary, corpus *stats.Corpus, cfg Config) *Searcher {
	rnd := cfg.Rand
	if rnd == nil {
		rnd = frandSource{}
	}
	hopts := cfg.Heuristic
	hopts.Rand = rnd
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = DefaultReportInterval
	}

	s := &Searcher{
		cfg:        cfg,
		dict:       dict,
		scorer:     heuristic.NewScorer(dict, corpus, hopts),
		rnd:        rnd,
		full:       dict.Alphabet().Full(),
		discovered: make(map[string]struct{}),
	}
	s.graph.index = make(map[alphabet.LetterSet]nodeID)
	s.frontier.g = &s.graph

	root := s.graph.add(s.full, s.scorer.Score(s.full), 0, false)
	s.frontier.push(root)
	return s
}

// Search compiles the words against the alphabet and enumerates every
// solution. It is the one-call entry point to the package.
func Search(ctx context.Context, symbols string, words []string, cfg Config) ([]Solution, error) {
	alph, err := alphabet.New(symbols)
	if err != nil {
		return nil, err
	}
	dict := lexicon.Compile(alph, words, cfg.MinWordLength)
	zerolog.Ctx(ctx).Debug().Int("letter-sets", dict.Len()).Int("words", dict.NumWords()).
		Int("rejected", dict.NumRejected()).Str("alphabet", alph.String()).
		Msg("compiled-dictionary")
	s := New(dict, stats.NewCorpus(alph, dict.Keys()), cfg)
	err = s.Run(ctx)
	return s.Solutions(), err
}

// Run expands nodes until the frontier is empty, the context is done, or one
// of the configured limits is hit. Stopping early is not an error, except
// for the node limit. The searcher is left in a consistent state and Run can
// be called again to resume.
func (s *Searcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	start := time.Now()
	defer func() {
		s.elapsed += time.Since(start)
	}()
	done := ctx.Done()

	logger.Debug().Int("frontier", s.frontier.Len()).Int("nodes", len(s.graph.nodes)).
		Float64("exploration-rate", s.cfg.ExplorationRate).
		Int("match-threshold", s.cfg.MatchThreshold).
		Str("vowels", s.scorer.VowelString()).Msg("search-starting")

	iters := 0
	for s.frontier.Len() > 0 {
		select {
		case <-done:
			logger.Debug().AnErr("ctx-err", ctx.Err()).Msg("search-interrupted")
			s.report(ctx)
			return nil
		default:
		}
		if s.cfg.MaxIterations > 0 && iters >= s.cfg.MaxIterations {
			logger.Debug().Int("iterations", iters).Msg("search-reached-max-iterations")
			s.report(ctx)
			return nil
		}
		if s.cfg.MaxNodes > 0 && len(s.graph.nodes) >= s.cfg.MaxNodes {
			logger.Warn().Int("nodes", len(s.graph.nodes)).Msg("search-reached-node-limit")
			s.report(ctx)
			return ErrNodeLimit
		}
		s.Step()
		iters++
		if s.iterations%s.cfg.ReportInterval == 0 {
			s.report(ctx)
		}
	}
	s.report(ctx)
	logger.Info().Int("iterations", s.iterations).Int("nodes", len(s.graph.nodes)).
		Int("solutions", len(s.solutions)).Msg("search-finished")
	return nil
}

// Step selects one node from the frontier and expands it. It returns false
// if there was nothing left to expand.
func (s *Searcher) Step() bool {
	if s.frontier.Len() == 0 {
		return false
	}
	s.expand(s.selectNext())
	s.iterations++
	return true
}

// All returns an iterator over solutions as they are found. Breaking out of
// the loop pauses the search; a later call to All or Run resumes it. The
// iteration stops when the search is exhausted, the context is done, or the
// node limit is reached.
func (s *Searcher) All(ctx context.Context) iter.Seq[Solution] {
	return func(yield func(Solution) bool) {
		s.streaming = true
		defer func() { s.streaming = false }()
		for {
			for len(s.pending) > 0 {
				sol := s.pending[0]
				s.pending = s.pending[1:]
				if !yield(sol) {
					return
				}
			}
			if s.frontier.Len() == 0 || ctx.Err() != nil {
				return
			}
			if s.cfg.MaxNodes > 0 && len(s.graph.nodes) >= s.cfg.MaxNodes {
				return
			}
			s.Step()
		}
	}
}

// selectNext usually pops the best node. With probability ExplorationRate it
// takes a uniformly random frontier node instead.
func (s *Searcher) selectNext() nodeID {
	if s.cfg.ExplorationRate > 0 && s.rnd.Float64() < s.cfg.ExplorationRate {
		return s.frontier.remove(s.rnd.IntN(s.frontier.Len()))
	}
	return s.frontier.popMin()
}

func (s *Searcher) expand(id nodeID) {
	s.graph.nodes[id].expanded = true
	s.explored++
	s.utility.Push(s.graph.nodes[id].utility)
	remaining := s.graph.nodes[id].remaining

	s.cands = s.dict.AppendCandidates(s.cands[:0], remaining)
	for _, word := range s.cands {
		next := remaining.Minus(word)
		if childID, ok := s.graph.lookup(next); ok {
			child := &s.graph.nodes[childID]
			child.parents = append(child.parents, id)
			// Propagation only touches ancestors, so the child's
			// completions do not change while we walk them.
			for _, c := range child.completions {
				s.propagate(id, c.with(word))
			}
			continue
		}
		s.addNode(next, id)
	}
}

func (s *Searcher) addNode(remaining alphabet.LetterSet, parent nodeID) {
	id := s.graph.add(remaining, s.scorer.Score(remaining), parent, true)
	if remaining.Empty() {
		// Nothing to expand below a terminal node.
		s.graph.nodes[id].expanded = true
		s.explored++
	} else {
		s.frontier.push(id)
	}
	if remaining.Len() <= s.cfg.MatchThreshold {
		s.propagate(id, completion{})
	}
}

// Solutions returns every solution found so far, in discovery order.
func (s *Searcher) Solutions() []Solution {
	return s.solutions
}

// Dictionary returns the dictionary being searched.
func (s *Searcher) Dictionary() *lexicon.Dictionary {
	return s.dict
}

// Finished returns true once every reachable state has been expanded.
func (s *Searcher) Finished() bool {
	return s.frontier.Len() == 0
}

// FrontierUtilities returns the heuristic values of the nodes waiting to be
// expanded, in no particular order.
func (s *Searcher) FrontierUtilities() []float64 {
	return s.frontier.utilities()
}
