package huff

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
	"golang.org/x/sync/errgroup"
)

// Encoder packs input bytes into a Huffman-coded bit stream.
type Encoder struct {
	table *CodeTable
}

// NewEncoder returns an Encoder that uses table to map bytes to codes.
func NewEncoder(table *CodeTable) *Encoder {
	return &Encoder{table: table}
}

// Encode concatenates the code of every byte of data, in input order, and
// packs the bits MSB-first.  The final byte is zero-padded.  It returns the
// packed payload and the number of meaningful bits in it.
//
// With workers > 1 the input is split into contiguous chunks that are packed
// concurrently and then joined in chunk order, so the output is the same for
// every worker count.
//
// If a byte has no code, Encode returns an *UnmappedSymbolError and no
// payload.
func (e *Encoder) Encode(data []byte, workers int) ([]byte, uint64, error) {
	workers = normalizeWorkers(workers)
	spans := partition(len(data), workers)
	chunks := make([]packedChunk, len(spans))

	var g errgroup.Group
	for i, s := range spans {
		i, s := i, s
		g.Go(func() error {
			chunk, err := e.pack(data[s.start:s.end], s.start)
			if err != nil {
				return err
			}
			chunks[i] = chunk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if len(chunks) == 1 {
		return chunks[0].data, chunks[0].bits, nil
	}
	return joinChunks(chunks)
}

// packedChunk is one worker's share of the payload.  Only the first bits bits
// of data are meaningful.
type packedChunk struct {
	data []byte
	bits uint64
}

func (e *Encoder) pack(chunk []byte, offset int) (packedChunk, error) {
	var buf bytes.Buffer
	buf.Grow(len(chunk))
	w := bitio.NewCountWriter(&buf)

	for i, b := range chunk {
		hc := &e.table.codes[b]
		if hc.Size == 0 {
			return packedChunk{}, &UnmappedSymbolError{Symbol: Symbol(b), Offset: offset + i}
		}
		if err := writeCode(w, hc); err != nil {
			return packedChunk{}, fmt.Errorf("packing offset %d: %w", offset+i, err)
		}
	}

	// Close pads to a byte boundary and counts the padding, so take the
	// count first.
	bits := uint64(w.BitsCount)
	if err := w.Close(); err != nil {
		return packedChunk{}, fmt.Errorf("flushing chunk at offset %d: %w", offset, err)
	}
	return packedChunk{data: buf.Bytes(), bits: bits}, nil
}

// joinChunks concatenates the meaningful bits of each chunk, in order, into a
// single MSB-first stream.
func joinChunks(chunks []packedChunk) ([]byte, uint64, error) {
	var total uint64
	for _, c := range chunks {
		total += c.bits
	}

	var buf bytes.Buffer
	buf.Grow(int(total/8) + 1)
	w := bitio.NewWriter(&buf)

	for i, c := range chunks {
		full := c.bits / 8
		if _, err := w.Write(c.data[:full]); err != nil {
			return nil, 0, fmt.Errorf("joining chunk %d: %w", i, err)
		}
		if rest := uint8(c.bits % 8); rest != 0 {
			if err := w.WriteBits(uint64(c.data[full]>>(8-rest)), rest); err != nil {
				return nil, 0, fmt.Errorf("joining chunk %d: %w", i, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, 0, fmt.Errorf("flushing payload: %w", err)
	}
	return buf.Bytes(), total, nil
}
