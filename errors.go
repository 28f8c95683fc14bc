package huff

import (
	"fmt"
)

// UnmappedSymbolError is returned when an input byte has no entry in the
// code table used to encode it.
type UnmappedSymbolError struct {
	Symbol Symbol

	// Offset is the byte's position in the input.
	Offset int
}

func (e *UnmappedSymbolError) Error() string {
	return fmt.Sprintf("huff: symbol %s at offset %d has no code", e.Symbol, e.Offset)
}

// TableOverflowError is returned when a code table has more entries than the
// container format can describe.
type TableOverflowError struct {
	Count int
}

func (e *TableOverflowError) Error() string {
	return fmt.Sprintf("huff: code table has %d entries, max %d", e.Count, MaxEntries)
}

// MalformedTableError is returned when a stored code table cannot describe a
// valid prefix tree: it is truncated, repeats a symbol, contains an empty
// code, or two codes collide.
type MalformedTableError struct {
	// Symbol is the entry being processed when the problem was found.
	Symbol Symbol

	// Offset is the byte offset of the entry in the container, or -1 if the
	// table did not come from a container.
	Offset int

	Reason string
}

func (e *MalformedTableError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("huff: malformed code table: symbol %s: %s", e.Symbol, e.Reason)
	}
	return fmt.Sprintf("huff: malformed code table at offset %d: %s", e.Offset, e.Reason)
}

// CorruptStreamError is returned when the encoded payload does not match its
// code table or its recorded length.
type CorruptStreamError struct {
	// BitOffset is the position, in bits from the start of the payload,
	// where decoding failed.
	BitOffset uint64

	Reason string
}

func (e *CorruptStreamError) Error() string {
	return fmt.Sprintf("huff: corrupt stream at bit %d: %s", e.BitOffset, e.Reason)
}
