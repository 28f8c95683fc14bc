package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// configEnv names the environment variable consulted when --config is not
// given.
const configEnv = "HUFF_CONFIG"

// Config holds the settings for one run.  Values come from the optional
// config file first; flags set on the command line override them.
type Config struct {
	// Threads is the number of workers used for counting and encoding.
	Threads int `yaml:"threads"`

	// Decode selects decompression.
	Decode bool `yaml:"decode"`

	// Debug prints the diagnostic report to stdout.
	Debug bool `yaml:"debug"`

	// Compare also compresses the input with the baseline codecs.
	Compare bool `yaml:"compare"`

	// Report is a path to write the CBOR-encoded diagnostic report to.
	Report string `yaml:"report"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Path is the input file.  It is only ever set from the command line.
	Path string `yaml:"-"`
}

// Default returns the configuration used when neither a file nor a flag
// says otherwise.
func Default() *Config {
	return &Config{
		Threads:  1,
		LogLevel: "info",
	}
}

// ConfigError reports an invalid flag, config file, or setting.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExitCode distinguishes usage problems from failed runs.
func (e *ConfigError) ExitCode() int {
	return 2
}

// errVersion stops parsing without running anything.
var errVersion = errors.New("version requested")

// parseConfig turns the command line into a validated Config.  The config
// file, if any, is named by --config or by $HUFF_CONFIG.
func parseConfig(args []string, getenv func(string) string, maxThreads int, stderr io.Writer) (*Config, error) {
	var (
		threads     int
		decode      bool
		debug       bool
		compare     bool
		report      string
		logLevel    string
		configPath  string
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("huff", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.IntVarP(&threads, "threads", "n", 1, fmt.Sprintf("number of worker threads (1..%d)", maxThreads))
	flagSet.BoolVarP(&decode, "decode", "d", false, "decompress instead of compressing")
	flagSet.BoolVar(&debug, "debug", false, "print frequencies, tree, codes and packed bits")
	flagSet.BoolVar(&compare, "compare", false, "also compress with huff0, zstd and lz4 and log the sizes")
	flagSet.StringVar(&report, "report", "", "write the diagnostic report as CBOR to this file")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flagSet.StringVar(&configPath, "config", "", "YAML config file (default: $"+configEnv+")")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: huff [flags] <path>\n\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, &ConfigError{Reason: "invalid arguments", Err: err}
	}
	if showVersion {
		return nil, errVersion
	}

	cfg := Default()
	if configPath == "" {
		configPath = getenv(configEnv)
	}
	if configPath != "" {
		if err := cfg.loadFile(configPath); err != nil {
			return nil, err
		}
	}

	if flagSet.Changed("threads") {
		cfg.Threads = threads
	}
	if flagSet.Changed("decode") {
		cfg.Decode = decode
	}
	if flagSet.Changed("debug") {
		cfg.Debug = debug
	}
	if flagSet.Changed("compare") {
		cfg.Compare = compare
	}
	if flagSet.Changed("report") {
		cfg.Report = report
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	switch rest := flagSet.Args(); len(rest) {
	case 0:
		return nil, &ConfigError{Field: "path", Reason: "missing input file"}
	case 1:
		cfg.Path = rest[0]
	default:
		return nil, &ConfigError{Field: "path", Reason: fmt.Sprintf("unexpected argument: %s", rest[1])}
	}

	if err := cfg.Validate(maxThreads); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges the YAML file at path into c.  Unknown keys are rejected.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Field: "config", Reason: "cannot read " + path, Err: err}
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return &ConfigError{Field: "config", Reason: "cannot parse " + path, Err: err}
	}
	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate(maxThreads int) error {
	if c.Threads < 1 || c.Threads > maxThreads {
		return &ConfigError{
			Field:  "threads",
			Reason: fmt.Sprintf("%d is out of range, must be between 1 and %d", c.Threads, maxThreads),
		}
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Path == "" {
		return &ConfigError{Field: "path", Reason: "missing input file"}
	}
	return nil
}

func parseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, &ConfigError{Field: "log_level", Reason: fmt.Sprintf("unknown level %q", name)}
	}
}
