package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/domino14/pangrammer/cache"
	"github.com/domino14/pangrammer/config"
	"github.com/domino14/pangrammer/metrics"
	"github.com/domino14/pangrammer/search"
	"github.com/domino14/pangrammer/sink"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoLexicon         = errors.New("please load a word list first with the `load` command")
	errSearching         = errors.New("a search is running; please do a `search stop` first")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	outMu  sync.Mutex
	config *config.Config

	execPath   string
	gitVersion string

	lex     *cache.Lexicon
	lexSpec cache.LexiconSpec

	// mu guards the search state below while a background search runs.
	mu           sync.Mutex
	searcher     *search.Searcher
	searching    bool
	searchCancel context.CancelFunc
	searchDone   chan struct{}
	found        chan search.Solution
	solutions    []search.Solution
	telemetry    search.Telemetry

	sinks   sink.Multi
	metrics *metrics.Reporter
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := newController(cfg, nil)
	sc.execPath = execPath
	sc.gitVersion = gitVersion

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mpangrams>\033[0m ",
		HistoryFile:     "/tmp/pangrams-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()

	if cfg.GetString(config.ConfigMetricsAddr) != "" {
		sc.metrics = metrics.NewReporter(prometheus.DefaultRegisterer)
	}
	if err := sc.openSinks(context.Background()); err != nil {
		log.Err(err).Msg("could-not-open-solution-sinks")
	}
	if lists := cfg.GetStringSlice(config.ConfigWordList); len(lists) > 0 {
		if _, err := sc.load(&shellcmd{cmd: "load", args: lists, options: CmdOptions{}}); err != nil {
			log.Err(err).Msg("could-not-load-word-lists")
		}
	}
	return sc
}

// newController builds a controller without a terminal. Output goes to w.
func newController(cfg *config.Config, w io.Writer) *ShellController {
	return &ShellController{config: cfg, out: w}
}

func (sc *ShellController) openSinks(ctx context.Context) error {
	var errs []error
	if path := sc.config.GetString(config.ConfigSolutionsDB); path != "" {
		s, err := sink.OpenSQLite(path)
		if err != nil {
			errs = append(errs, err)
		} else {
			sc.sinks = append(sc.sinks, s)
		}
	}
	if path := sc.config.GetString(config.ConfigYAMLOut); path != "" {
		s, err := sink.CreateYAML(path)
		if err != nil {
			errs = append(errs, err)
		} else {
			sc.sinks = append(sc.sinks, s)
		}
	}
	if url := sc.config.GetString(config.ConfigNatsURL); url != "" {
		s, err := sink.DialNATS(ctx, url, sc.config.GetString(config.ConfigNatsSubject))
		if err != nil {
			errs = append(errs, err)
		} else {
			sc.sinks = append(sc.sinks, s)
		}
	}
	return errors.Join(errs...)
}

func (sc *ShellController) showMessage(msg string) {
	sc.outMu.Lock()
	defer sc.outMu.Unlock()
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") && len(fields[idx]) > 1 {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "help":
		return sc.help(cmd)
	case "load":
		return sc.load(cmd)
	case "search":
		return sc.search(cmd)
	case "solutions":
		return sc.listSolutions(cmd)
	case "stats":
		return sc.stats(cmd)
	case "export":
		return sc.export(cmd)
	case "set":
		return sc.set(cmd)
	}
	log.Debug().Msgf("you said: %v", strconv.Quote(cmd.cmd))
	return nil, fmt.Errorf("unrecognized command %q; try `help`", cmd.cmd)
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) error {
	cmd, err := extractFields(line)
	if err == errNoData {
		return nil
	}
	if err != nil {
		sc.showError(err)
		return nil
	}
	if cmd.cmd == "exit" || cmd.cmd == "bye" {
		sig <- syscall.SIGINT
		return errors.New("sending quit signal")
	}
	resp, err := sc.dispatch(cmd)
	if err != nil {
		sc.showError(err)
		return nil
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

// Execute runs a single command line and waits for any search it started.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if err := sc.standardModeSwitch(line, sig); err != nil {
		log.Error().Err(err).Msg("")
		return
	}
	sc.waitSearch()
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if err := sc.standardModeSwitch(line, sig); err != nil {
			log.Error().Err(err).Msg("")
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any running search and closes the solution sinks.
func (sc *ShellController) Cleanup() {
	sc.stopSearch()
	if err := sc.sinks.Close(); err != nil {
		log.Err(err).Msg("closing-sinks")
	}
}
