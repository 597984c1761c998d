package config

import (
	"math/rand/v2"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/pangrammer/alphabet"
	"github.com/domino14/pangrammer/heuristic"
	"github.com/domino14/pangrammer/search"
)

const (
	ConfigDebug             = "debug"
	ConfigCPUProfile        = "cpu-profile"
	ConfigMemProfile        = "mem-profile"
	ConfigConfigFile        = "config-file"
	ConfigAlphabet          = "alphabet"
	ConfigWordList          = "word-list"
	ConfigWordListEncoding  = "word-list-encoding"
	ConfigMinWordLength     = "min-word-length"
	ConfigExplorationRate   = "exploration-rate"
	ConfigMatchThreshold    = "match-threshold"
	ConfigMaxIterations     = "max-iterations"
	ConfigMemoryFraction    = "memory-fraction"
	ConfigSeed              = "seed"
	ConfigJitter            = "jitter"
	ConfigReportInterval    = "report-interval"
	ConfigBenchmark         = "benchmark"
	ConfigVowels            = "vowels"
	ConfigWeightsTrigram    = "weights-trigram"
	ConfigWeightsLetter     = "weights-letter"
	ConfigWeightsVowel      = "weights-vowel"
	ConfigWeightsFinishable = "weights-finishable"
	ConfigSolutionsDB       = "solutions-db"
	ConfigNatsURL           = "nats-url"
	ConfigNatsSubject       = "nats-subject"
	ConfigYAMLOut           = "yaml-out"
	ConfigMetricsAddr       = "metrics-addr"
)

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config with every key at its default value, for
// tests and for library use without flags.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	w := heuristic.DefaultWeights()
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigAlphabet, alphabet.DefaultAlphabet)
	c.SetDefault(ConfigWordList, []string{})
	c.SetDefault(ConfigWordListEncoding, "utf8")
	c.SetDefault(ConfigMinWordLength, 1)
	c.SetDefault(ConfigExplorationRate, 0.0)
	c.SetDefault(ConfigMatchThreshold, 0)
	c.SetDefault(ConfigMaxIterations, 0)
	c.SetDefault(ConfigMemoryFraction, 0.0)
	c.SetDefault(ConfigSeed, uint64(0))
	c.SetDefault(ConfigJitter, 0.0)
	c.SetDefault(ConfigReportInterval, search.DefaultReportInterval)
	c.SetDefault(ConfigBenchmark, false)
	c.SetDefault(ConfigVowels, heuristic.DefaultVowels)
	c.SetDefault(ConfigWeightsTrigram, w.Trigram)
	c.SetDefault(ConfigWeightsLetter, w.Letter)
	c.SetDefault(ConfigWeightsVowel, w.Vowel)
	c.SetDefault(ConfigWeightsFinishable, w.Finishable)
	c.SetDefault(ConfigNatsSubject, "pangrams.solutions")
}

// Load reads, in increasing order of priority: defaults, the config file,
// PANGRAMS_* environment variables and command-line flags. Flag parsing
// stops at the first non-flag argument; the rest is left in Args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()
	c.SetEnvPrefix("pangrams")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	fs := pflag.NewFlagSet("pangrams", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file on exit")
	fs.String(ConfigConfigFile, "", "YAML config file")
	fs.String(ConfigAlphabet, alphabet.DefaultAlphabet, "the letters every solution must use")
	fs.StringSlice(ConfigWordList, nil, "word list files to load at startup")
	fs.String(ConfigWordListEncoding, "utf8", "word list encoding: utf8 or latin1")
	fs.Int(ConfigMinWordLength, 1, "ignore words shorter than this")
	fs.Float64(ConfigExplorationRate, 0, "probability of expanding a random frontier node")
	fs.Int(ConfigMatchThreshold, 0, "also report solutions with up to this many letters unused")
	fs.Int(ConfigMaxIterations, 0, "stop after this many expansions (0 for no limit)")
	fs.Float64(ConfigMemoryFraction, 0, "bound the search graph to this fraction of system memory (0 for no limit)")
	fs.Uint64(ConfigSeed, 0, "random seed (0 for a random seed)")
	fs.Float64(ConfigJitter, 0, "upper bound of random noise added to heuristic scores")
	fs.Int(ConfigReportInterval, search.DefaultReportInterval, "expansions between telemetry reports")
	fs.Bool(ConfigBenchmark, false, "log search telemetry instead of each solution")
	fs.String(ConfigVowels, heuristic.DefaultVowels, "letters counted as vowels")
	fs.Float64(ConfigWeightsTrigram, heuristic.DefaultWeights().Trigram, "trigram rate weight")
	fs.Float64(ConfigWeightsLetter, heuristic.DefaultWeights().Letter, "letter rate weight")
	fs.Float64(ConfigWeightsVowel, heuristic.DefaultWeights().Vowel, "vowel ratio weight")
	fs.Float64(ConfigWeightsFinishable, heuristic.DefaultWeights().Finishable, "score of a state that one word can finish")
	fs.String(ConfigSolutionsDB, "", "SQLite file to store solutions in")
	fs.String(ConfigNatsURL, "", "NATS server to publish solutions to")
	fs.String(ConfigNatsSubject, "pangrams.solutions", "NATS subject for solutions")
	fs.String(ConfigYAMLOut, "", "YAML file to stream solutions to")
	fs.String(ConfigMetricsAddr, "", "serve Prometheus metrics on this address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.Set("args", fs.Args())

	if path := c.GetString(ConfigConfigFile); path != "" {
		c.SetConfigFile(path)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

// Args returns the positional arguments left after flag parsing.
func (c *Config) Args() []string {
	return c.GetStringSlice("args")
}

// SanitizedSettings returns all settings with credentials removed, for
// logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	if raw, ok := settings[ConfigNatsURL].(string); ok && raw != "" {
		if u, err := url.Parse(raw); err == nil && u.User != nil {
			u.User = url.User("redacted")
			settings[ConfigNatsURL] = u.String()
		}
	}
	return settings
}

// AdjustRelativePaths resolves relative word list paths against the
// executable's directory when they do not exist relative to the working
// directory.
func (c *Config) AdjustRelativePaths(basepath string) {
	lists := c.GetStringSlice(ConfigWordList)
	if len(lists) == 0 {
		return
	}
	adjusted := make([]string, len(lists))
	for i, p := range lists {
		adjusted[i] = toAbsPath(basepath, p)
	}
	c.Set(ConfigWordList, adjusted)
}

func toAbsPath(basepath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(basepath, path)
}

// SearchConfig builds search parameters from the current settings.
func (c *Config) SearchConfig() search.Config {
	cfg := search.DefaultConfig()
	cfg.ExplorationRate = c.GetFloat64(ConfigExplorationRate)
	cfg.MatchThreshold = c.GetInt(ConfigMatchThreshold)
	cfg.MaxIterations = c.GetInt(ConfigMaxIterations)
	cfg.MaxNodes = search.NodeBudget(c.GetFloat64(ConfigMemoryFraction))
	cfg.MinWordLength = c.GetInt(ConfigMinWordLength)
	cfg.ReportInterval = c.GetInt(ConfigReportInterval)
	cfg.Heuristic = heuristic.Options{
		Weights: heuristic.Weights{
			Trigram:    c.GetFloat64(ConfigWeightsTrigram),
			Letter:     c.GetFloat64(ConfigWeightsLetter),
			Vowel:      c.GetFloat64(ConfigWeightsVowel),
			Finishable: c.GetFloat64(ConfigWeightsFinishable),
		},
		Vowels: c.GetString(ConfigVowels),
		Jitter: c.GetFloat64(ConfigJitter),
	}
	if seed := c.GetUint64(ConfigSeed); seed != 0 {
		cfg.Rand = rand.New(rand.NewPCG(seed, seed))
	}
	if c.GetBool(ConfigBenchmark) {
		cfg.Reporter = search.LogReporter{}
	}
	return cfg
}
