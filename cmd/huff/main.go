// huff compresses a file with a static Huffman code, or with --decode
// restores a file it compressed.
//
//	huff [-n threads] <path>        writes <path>.huff
//	huff -d [-n threads] <path>     writes <path> without .huff
//
// Counting and encoding are split across --threads workers; the output is
// the same for every thread count.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/chronos-tachyon/huff"
	"github.com/chronos-tachyon/huff/internal/baseline"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = ""

func main() {
	if err := run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

func run(args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	cfg, err := parseConfig(args, getenv, runtime.NumCPU(), stderr)
	switch {
	case errors.Is(err, errVersion):
		fmt.Fprintf(stdout, "huff %s\n", versionString())
		return nil
	case errors.Is(err, pflag.ErrHelp):
		return nil
	case err != nil:
		return err
	}

	level, _ := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return execute(cfg, logger, stdout)
}

func execute(cfg *Config, logger *slog.Logger, stdout io.Writer) error {
	input, err := readInput(cfg.Path)
	if err != nil {
		return err
	}

	var (
		report  huff.Report
		output  []byte
		outPath string
		mode    string
	)
	opts := []huff.Option{
		huff.WithWorkers(cfg.Threads),
		huff.WithLogger(logger),
		huff.WithReport(&report),
	}

	start := time.Now()
	if cfg.Decode {
		mode = "decompress"
		output, err = huff.Decompress(input, opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", cfg.Path, err)
		}
		outPath = decompressedPath(cfg.Path, fileExists)
	} else {
		mode = "compress"
		output, err = huff.Compress(input, opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", cfg.Path, err)
		}
		outPath = compressedPath(cfg.Path)
	}
	elapsed := time.Since(start)

	if err := writeOutput(outPath, output); err != nil {
		return err
	}

	logger.Info(mode,
		"input", cfg.Path,
		"output", outPath,
		"input_size", humanize.IBytes(uint64(len(input))),
		"output_size", humanize.IBytes(uint64(len(output))),
		"ratio", ratio(len(output), len(input)),
		"threads", cfg.Threads,
		"elapsed", elapsed,
	)

	if cfg.Compare && !cfg.Decode {
		compareBaselines(logger, input, len(output))
	}

	if cfg.Debug {
		fmt.Fprint(stdout, report.String())
	}

	if cfg.Report != "" {
		data, err := report.EncodeCBOR()
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		if err := writeOutput(cfg.Report, data); err != nil {
			return err
		}
	}
	return nil
}

func compareBaselines(logger *slog.Logger, input []byte, huffSize int) {
	logger.Info("baseline", "codec", "huff",
		"size", humanize.IBytes(uint64(huffSize)), "ratio", ratio(huffSize, len(input)))

	for _, r := range baseline.Measure(input) {
		if r.Err != nil {
			logger.Info("baseline", "codec", r.Name, "skipped", r.Err.Error())
			continue
		}
		logger.Info("baseline", "codec", r.Name,
			"size", humanize.IBytes(uint64(r.Size)),
			"ratio", fmt.Sprintf("%.3f", r.Ratio(len(input))),
			"elapsed", r.Elapsed)
	}
}

func ratio(out, in int) string {
	if in == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", float64(out)/float64(in))
}

func versionString() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
