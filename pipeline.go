package huff

import (
	"fmt"
	"log/slog"
)

// Option configures Compress and Decompress.
type Option func(*options)

type options struct {
	workers int
	logger  *slog.Logger
	report  *Report
}

// WithWorkers sets the number of workers used for frequency counting and
// encoding.  Values below 1 mean 1.  Decoding is always sequential.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = normalizeWorkers(n)
	}
}

// WithLogger sets the logger that receives per-stage debug records.  The
// default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithReport asks the pipeline to record its intermediate results
// (frequencies, tree, code table, payload) in report.
func WithReport(report *Report) Option {
	return func(o *options) {
		o.report = report
	}
}

func makeOptions(opts []Option) options {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Compress encodes data into the huff container format.
//
// The output is identical for every worker count.  Errors are returned as-is
// or wrapped with the failing stage: *TableOverflowError when data uses all
// 256 byte values, *UnmappedSymbolError if encoding meets a byte without a
// code.  No output is returned on error.
func Compress(data []byte, opts ...Option) ([]byte, error) {
	o := makeOptions(opts)
	logger := o.logger.With("mode", "compress", "workers", o.workers)

	freq := CountFrequencies(data, o.workers)
	logger.Debug("counted frequencies", "bytes", len(data), "distinct", freq.Distinct())

	tree := BuildTree(freq)
	logger.Debug("built tree", "nodes", tree.Len(), "leaves", tree.Leaves())

	table := GenerateCodes(tree)
	logger.Debug("generated codes", "entries", table.Len(), "min_bits", table.MinSize(), "max_bits", table.MaxSize())

	if o.report != nil {
		o.report.recordCompress(o.workers, len(data), freq, tree, table)
	}

	header, err := table.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("writing code table: %w", err)
	}

	payload, bits, err := NewEncoder(table).Encode(data, o.workers)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	logger.Debug("packed payload", "bits", bits, "bytes", len(payload))

	out := appendPayload(header, bits, payload)
	if o.report != nil {
		o.report.recordOutput(len(out), payload, bits)
	}
	return out, nil
}

// Decompress decodes a huff container back into the original bytes.
//
// A *MalformedTableError is returned when the stored code table is
// truncated or its codes collide, and a *CorruptStreamError when the payload
// does not fit the table or its recorded length.
func Decompress(data []byte, opts ...Option) ([]byte, error) {
	o := makeOptions(opts)
	logger := o.logger.With("mode", "decompress")

	c, err := ParseContainer(data)
	if err != nil {
		return nil, fmt.Errorf("reading container: %w", err)
	}
	logger.Debug("read code table", "entries", c.Table.Len(), "payload_bits", c.BitCount)

	tree, err := BuildTreeFromTable(c.Table)
	if err != nil {
		return nil, fmt.Errorf("rebuilding tree: %w", err)
	}
	logger.Debug("rebuilt tree", "nodes", tree.Len(), "leaves", tree.Leaves())

	if o.report != nil {
		o.report.recordDecompress(len(data), tree, c.Table)
		o.report.recordPayload(c.Payload, c.BitCount)
	}

	out, err := NewDecoder(tree).Decode(c.Payload, c.BitCount)
	if err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	logger.Debug("decoded payload", "bytes", len(out))

	if o.report != nil {
		o.report.OutputSize = len(out)
	}
	return out, nil
}
