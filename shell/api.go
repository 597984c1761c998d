package shell

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/domino14/pangrammer/alphabet"
	"github.com/domino14/pangrammer/cache"
	"github.com/domino14/pangrammer/config"
	"github.com/domino14/pangrammer/lexicon"
	"github.com/domino14/pangrammer/search"
	"github.com/domino14/pangrammer/sink"
)

type Response struct {
	message string
}

type CmdOptions map[string]string

func (c CmdOptions) String(key string) string {
	return c[key]
}

func (c CmdOptions) StringDefault(key, defaultS string) string {
	if v, ok := c[key]; ok {
		return v
	}
	return defaultS
}

func (c CmdOptions) Int(key string) (int, error) {
	v, ok := c[key]
	if !ok {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) FloatDefault(key string, defaultF float64) (float64, error) {
	v, ok := c[key]
	if !ok {
		return defaultF, nil
	}
	return strconv.ParseFloat(v, 64)
}

func (c CmdOptions) DurationDefault(key string, defaultD time.Duration) (time.Duration, error) {
	v, ok := c[key]
	if !ok {
		return defaultD, nil
	}
	return time.ParseDuration(v)
}

func (c CmdOptions) Bool(key string) bool {
	return strings.ToLower(c[key]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) isSearching() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.searching
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: load <wordlist> [<wordlist>...] [-alphabet ABC] [-minlen N] [-encoding latin1]")
	}
	if sc.isSearching() {
		return nil, errSearching
	}
	enc, err := lexicon.ParseEncoding(cmd.options.StringDefault("encoding",
		sc.config.GetString(config.ConfigWordListEncoding)))
	if err != nil {
		return nil, err
	}
	minlen, err := cmd.options.IntDefault("minlen", sc.config.GetInt(config.ConfigMinWordLength))
	if err != nil {
		return nil, err
	}
	spec := cache.LexiconSpec{
		Paths:         cmd.args,
		Alphabet:      strings.ToUpper(cmd.options.StringDefault("alphabet", sc.config.GetString(config.ConfigAlphabet))),
		MinWordLength: minlen,
		Encoding:      enc,
	}
	lex, err := cache.Load(context.Background(), spec)
	if err != nil {
		return nil, err
	}

	sc.mu.Lock()
	sc.lex = lex
	sc.lexSpec = spec
	sc.searcher = nil
	sc.solutions = nil
	sc.telemetry = search.Telemetry{}
	sc.mu.Unlock()

	d := lex.Dictionary
	return msg(fmt.Sprintf("Loaded %d words (%d letter sets, %d rejected) over alphabet %s",
		d.NumWords(), d.Len(), d.NumRejected(), d.Alphabet())), nil
}

func (sc *ShellController) formatSolution(idx int, sol search.Solution, verbose bool) string {
	d := sc.lex.Dictionary
	var words []string
	if verbose {
		words = lo.Map(sol.LetterSets, func(ls alphabet.LetterSet, _ int) string {
			return strings.Join(d.Words(ls), "/")
		})
	} else {
		words = sol.Words(d)
	}
	line := fmt.Sprintf("%4d: %s", idx+1, strings.Join(words, " "))
	if !sol.Perfect() {
		line += fmt.Sprintf("  (unused: %s)", d.Alphabet().Decode(sol.Leftover))
	}
	return line
}

func (sc *ShellController) listSolutions(cmd *shellcmd) (*Response, error) {
	if path := cmd.options.String("from"); path != "" {
		return sc.listStoredSolutions(cmd, path)
	}
	if sc.lex == nil {
		return nil, errNoLexicon
	}
	sc.mu.Lock()
	sols := slices.Clone(sc.solutions)
	sc.mu.Unlock()

	n := len(sols)
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		n = min(n, len(sols))
	}
	if len(sols) == 0 {
		return msg("No solutions found yet."), nil
	}
	verbose := cmd.options.Bool("verbose")
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d solutions found; showing %d\n", len(sols), n)
	for i, sol := range sols[:n] {
		sb.WriteString(sc.formatSolution(i, sol, verbose))
		sb.WriteString("\n")
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

// listStoredSolutions reads solutions back from an exported file or the
// solutions database. No lexicon is needed for this.
func (sc *ShellController) listStoredSolutions(cmd *shellcmd, path string) (*Response, error) {
	limit := 0
	if len(cmd.args) > 0 {
		var err error
		limit, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	recs, total, err := sink.Read(context.Background(), path, limit)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return msg("No solutions stored in " + path + "."), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d solutions stored in %s; showing %d\n", total, path, len(recs))
	for i, r := range recs {
		fmt.Fprintf(&sb, "%4d: %s", i+1, strings.Join(r.Words, " "))
		if !r.Perfect() {
			fmt.Fprintf(&sb, "  (unused: %s)", r.Leftover)
		}
		sb.WriteString("\n")
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) export(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: export <file.yaml|file.db>")
	}
	if sc.lex == nil {
		return nil, errNoLexicon
	}
	s, err := sink.Open(cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.mu.Lock()
	sols := slices.Clone(sc.solutions)
	sc.mu.Unlock()

	ctx := context.Background()
	for _, sol := range sols {
		if err := s.Write(ctx, sink.NewRecord(sol, sc.lex.Dictionary)); err != nil {
			s.Close()
			return nil, err
		}
	}
	if err := s.Close(); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("exported %d solutions to %s", len(sols), cmd.args[0])), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		settings := sc.config.SanitizedSettings()
		keys := lo.Keys(settings)
		slices.Sort(keys)
		var sb strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&sb, "%-20s %v\n", k, settings[k])
		}
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%s: %v", opt, sc.config.Get(opt))), nil
	}
	if sc.isSearching() {
		return nil, errSearching
	}
	val := strings.Join(cmd.args[1:], " ")
	sc.config.Set(opt, val)
	return msg("set " + opt + " to " + val), nil
}
