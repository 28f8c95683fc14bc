package huff

import (
	"strconv"
)

// Symbol represents one byte of input.
type Symbol byte

// MaxEntries is the largest number of symbols that a serialized CodeTable can
// describe.  The entry count is stored in a single byte, so an input that uses
// all 256 byte values cannot be represented.
const MaxEntries = 255

// String returns the quoted character for printable ASCII symbols and a hex
// literal for everything else.
func (s Symbol) String() string {
	if s > ' ' && s < 0x7f {
		return strconv.QuoteRune(rune(s))
	}
	return "0x" + strconv.FormatUint(uint64(s)|0x100, 16)[1:]
}

// rank orders heap entries of equal frequency.  Natural symbols rank by value.
// Synthetic symbols (internal nodes) rank after every natural symbol, in the
// order they were created.
type rank uint32

func naturalRank(s Symbol) rank {
	return rank(s)
}

func syntheticRank(seq int) rank {
	return rank(256 + seq)
}
