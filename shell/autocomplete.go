package shell

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/pangrammer/config"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
	// Files is true if the arguments are paths.
	Files bool
}

var commandMetadata = map[string]CommandMetadata{
	"load": {
		Options: []string{"-alphabet", "-minlen", "-encoding"},
		Files:   true,
	},
	"search": {
		Options: []string{"-explore", "-threshold", "-maxiter", "-seed", "-jitter", "-timeout"},
		Args:    []string{"stop", "show", "resume"},
	},
	"solutions": {
		Options: []string{"-verbose", "-from"},
	},
	"export": {
		Files: true,
	},
	"help": {
		Args: []string{"load", "search", "solutions", "stats", "export", "set"},
	},
	"set": {
		Args: []string{
			config.ConfigAlphabet, config.ConfigMinWordLength, config.ConfigExplorationRate,
			config.ConfigMatchThreshold, config.ConfigMaxIterations, config.ConfigMemoryFraction,
			config.ConfigSeed, config.ConfigJitter, config.ConfigReportInterval,
			config.ConfigBenchmark, config.ConfigVowels, config.ConfigWeightsTrigram,
			config.ConfigWeightsLetter, config.ConfigWeightsVowel, config.ConfigWeightsFinishable,
		},
	},
}

var commandNames = []string{
	"help", "load", "search", "solutions", "stats", "export", "set", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		metadata := commandMetadata[cmdName]
		switch {
		case strings.HasPrefix(lastCompleteField, "-"):
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "verbose":
				completions = boolValues
			case "from":
				completions = pathCompletions(prefix)
			case "encoding":
				completions = []string{"utf8", "latin1"}
			}
		case strings.HasPrefix(prefix, "-"):
			completions = metadata.Options
		case metadata.Files:
			completions = pathCompletions(prefix)
		case cmdName == "set" && completeArgs(fields, endsWithSpace) > 0:
			// values are free-form
		case len(metadata.Args) > 0:
			completions = metadata.Args
		default:
			completions = metadata.Options
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

// completeArgs counts the arguments already typed in full after the command.
func completeArgs(fields []string, endsWithSpace bool) int {
	if endsWithSpace {
		return len(fields) - 1
	}
	return len(fields) - 2
}

func pathCompletions(prefix string) []string {
	dir, _ := filepath.Split(prefix)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := dir + e.Name()
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
