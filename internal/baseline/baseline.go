// Package baseline compresses data with established general-purpose codecs
// so that huff's output size can be put in context.
package baseline

import (
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/huff0"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	// ErrIncompressible is reported when a codec declines to compress its
	// input because the output would not be smaller.
	ErrIncompressible = errors.New("input is not compressible")

	// ErrRLE is reported by huff0 when the input is a single repeated
	// byte, which it leaves to a run-length encoder.
	ErrRLE = errors.New("input is a single repeated byte")
)

// Codec compresses a whole buffer in one call.
type Codec struct {
	Name     string
	Compress func(data []byte) ([]byte, error)
}

// Result is the outcome of running one Codec over an input.
type Result struct {
	Name    string
	Size    int
	Elapsed time.Duration
	Err     error
}

// Ratio returns Size divided by inputSize, or 0 if either is unknown.
func (r Result) Ratio(inputSize int) float64 {
	if r.Err != nil || inputSize == 0 {
		return 0
	}
	return float64(r.Size) / float64(inputSize)
}

// Codecs returns the reference codecs in the order Measure runs them.
func Codecs() []Codec {
	return []Codec{
		{Name: "huff0", Compress: compressHuff0},
		{Name: "zstd", Compress: compressZstd},
		{Name: "lz4", Compress: compressLZ4},
	}
}

// Measure compresses data with every codec from Codecs.  A codec that fails
// is reported through Result.Err and does not stop the others.
func Measure(data []byte) []Result {
	codecs := Codecs()
	results := make([]Result, 0, len(codecs))
	for _, c := range codecs {
		start := time.Now()
		out, err := c.Compress(data)
		results = append(results, Result{
			Name:    c.Name,
			Size:    len(out),
			Elapsed: time.Since(start),
			Err:     err,
		})
	}
	return results
}

// huff0: single-stream Huffman, the closest relative of huff.  Blocks are
// limited to huff0.BlockSizeMax, so larger inputs are split and the block
// outputs concatenated.

func compressHuff0(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrIncompressible
	}

	s := &huff0.Scratch{Reuse: huff0.ReusePolicyNone}
	var out []byte
	for start := 0; start < len(data); start += huff0.BlockSizeMax {
		end := min(start+huff0.BlockSizeMax, len(data))
		block, _, err := huff0.Compress1X(data[start:end], s)
		switch {
		case errors.Is(err, huff0.ErrIncompressible):
			return nil, ErrIncompressible
		case errors.Is(err, huff0.ErrUseRLE):
			return nil, ErrRLE
		case err != nil:
			return nil, fmt.Errorf("huff0 compress: %w", err)
		}
		out = append(out, block...)
	}
	return out, nil
}

// zstd at the default level.  The encoder is safe for concurrent use and is
// shared across calls.

var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("baseline: zstd encoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(data, nil), nil
}

// LZ4 in block mode.

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))

	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	// CompressBlock returns 0 when the data is incompressible.
	if written == 0 {
		return nil, ErrIncompressible
	}
	return destination[:written], nil
}
