package huff

import (
	"encoding"
	"encoding/binary"
	"fmt"
)

// bitCountSize is the width of the payload bit count that follows the code
// table.
const bitCountSize = 8

// MarshalBinary serializes the table as an entry count followed by one
// (symbol, bit length, packed code) entry per symbol, in ascending symbol
// order.
//
// A *TableOverflowError is returned if the table has more than MaxEntries
// entries.
func (t *CodeTable) MarshalBinary() ([]byte, error) {
	return t.AppendBinary(nil)
}

// AppendBinary appends the serialized table to b.
func (t *CodeTable) AppendBinary(b []byte) ([]byte, error) {
	if t.count > MaxEntries {
		return nil, &TableOverflowError{Count: t.count}
	}
	b = append(b, byte(t.count))
	for _, symbol := range t.Symbols() {
		hc := t.codes[symbol]
		b = append(b, byte(symbol), hc.Size)
		b = append(b, hc.Packed()...)
	}
	return b, nil
}

// UnmarshalBinary replaces the table's contents with a table serialized by
// MarshalBinary.  data must contain the table and nothing else.
func (t *CodeTable) UnmarshalBinary(data []byte) error {
	table, n, err := readCodeTable(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return &MalformedTableError{Offset: n, Reason: fmt.Sprintf("%d trailing bytes after code table", len(data)-n)}
	}
	*t = *table
	return nil
}

var (
	_ encoding.BinaryMarshaler   = (*CodeTable)(nil)
	_ encoding.BinaryUnmarshaler = (*CodeTable)(nil)
)

// readCodeTable parses a serialized table at the start of data and returns it
// along with the number of bytes consumed.
func readCodeTable(data []byte) (*CodeTable, int, error) {
	if len(data) == 0 {
		return nil, 0, &MalformedTableError{Offset: 0, Reason: "missing entry count"}
	}

	count := int(data[0])
	table := NewCodeTable()
	pos := 1
	for entry := 0; entry < count; entry++ {
		start := pos
		if len(data)-pos < 2 {
			return nil, 0, &MalformedTableError{
				Offset: start,
				Reason: fmt.Sprintf("entry %d of %d is truncated", entry, count),
			}
		}
		symbol := Symbol(data[pos])
		size := data[pos+1]
		pos += 2

		if size == 0 {
			return nil, 0, &MalformedTableError{Symbol: symbol, Offset: start, Reason: fmt.Sprintf("symbol %s has an empty code", symbol)}
		}
		if _, found := table.Lookup(symbol); found {
			return nil, 0, &MalformedTableError{Symbol: symbol, Offset: start, Reason: fmt.Sprintf("symbol %s appears twice", symbol)}
		}

		n := (int(size) + 7) / 8
		if len(data)-pos < n {
			return nil, 0, &MalformedTableError{
				Symbol: symbol,
				Offset: start,
				Reason: fmt.Sprintf("code for symbol %s needs %d bytes, %d left", symbol, n, len(data)-pos),
			}
		}
		table.Set(symbol, makeCodeFromBytes(size, data[pos:pos+n]))
		pos += n
	}
	return table, pos, nil
}

// Container is the decoded form of a compressed file.
type Container struct {
	Table *CodeTable

	// BitCount is the number of meaningful bits in Payload.
	BitCount uint64

	Payload []byte
}

// MarshalBinary serializes the container: the code table, the payload bit
// count as a big-endian uint64, then the payload.
func (c *Container) MarshalBinary() ([]byte, error) {
	header, err := c.Table.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return appendPayload(header, c.BitCount, c.Payload), nil
}

func appendPayload(header []byte, bitCount uint64, payload []byte) []byte {
	out := make([]byte, 0, len(header)+bitCountSize+len(payload))
	out = append(out, header...)
	out = binary.BigEndian.AppendUint64(out, bitCount)
	out = append(out, payload...)
	return out
}

// ParseContainer splits a compressed file into its code table, bit count and
// payload.  The payload aliases data.
//
// A *MalformedTableError is returned if the table cannot be read, and a
// *CorruptStreamError if the bit count is missing or does not match the
// payload length.
func ParseContainer(data []byte) (*Container, error) {
	table, pos, err := readCodeTable(data)
	if err != nil {
		return nil, err
	}

	if len(data)-pos < bitCountSize {
		return nil, &CorruptStreamError{BitOffset: 0, Reason: fmt.Sprintf("missing payload bit count at offset %d", pos)}
	}
	bitCount := binary.BigEndian.Uint64(data[pos:])
	pos += bitCountSize

	payload := data[pos:]
	if want := payloadSize(bitCount); uint64(len(payload)) != want {
		return nil, &CorruptStreamError{
			BitOffset: 0,
			Reason:    fmt.Sprintf("payload is %d bytes, want %d for %d bits", len(payload), want, bitCount),
		}
	}

	return &Container{Table: table, BitCount: bitCount, Payload: payload}, nil
}
