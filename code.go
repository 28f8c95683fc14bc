package huff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chronos-tachyon/assert"
	"github.com/icza/bitio"
)

// MaxCodeSize is the longest code, in bits, that the container format can
// store.
const MaxCodeSize = 255

// Code represents a sequence of bits: the path from the root of a Huffman
// tree to a leaf, where 0 means "left" and 1 means "right".
//
// Code is a value type.  Append returns a new Code and never modifies the
// receiver, so two branches of a tree walk can extend the same prefix without
// seeing each other's bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The first bit is the most
	// significant bit of Bits[0].  Bits beyond Size are always zero.
	Bits [(MaxCodeSize + 7) / 8]byte
}

// MakeCode is a convenience function that constructs a Code from a string of
// '0' and '1' characters.
func MakeCode(bits string) Code {
	assert.Assertf(len(bits) <= MaxCodeSize, "code length %d > MaxCodeSize %d", len(bits), MaxCodeSize)
	var hc Code
	for _, ch := range bits {
		assert.Assertf(ch == '0' || ch == '1', "invalid bit %q in code %q", ch, bits)
		hc = hc.Append(ch == '1')
	}
	return hc
}

// makeCodeFromBytes constructs a Code of the given size from MSB-first packed
// bytes.  Bits beyond size are discarded.
func makeCodeFromBytes(size byte, packed []byte) Code {
	n := (int(size) + 7) / 8
	assert.Assertf(len(packed) >= n, "need %d bytes for a %d-bit code, got %d", n, size, len(packed))

	hc := Code{Size: size}
	copy(hc.Bits[:], packed[:n])
	if rest := size % 8; rest != 0 {
		hc.Bits[n-1] &= byte(0xff << (8 - rest))
	}
	return hc
}

// Bit returns the i'th bit of the code, counting from the root.
func (hc Code) Bit(i int) bool {
	assert.Assertf(i >= 0 && i < int(hc.Size), "bit index %d out of range [0, %d)", i, hc.Size)
	return hc.Bits[i>>3]&(0x80>>(i&7)) != 0
}

// Append returns a copy of this Code with one more bit at the end.
func (hc Code) Append(bit bool) Code {
	assert.Assertf(hc.Size < MaxCodeSize, "code exceeds %d bits", MaxCodeSize)
	if bit {
		hc.Bits[hc.Size>>3] |= 0x80 >> (hc.Size & 7)
	}
	hc.Size++
	return hc
}

// HasPrefix reports whether prefix is a leading part of this Code.  Every
// Code has itself and the empty Code as prefixes.
func (hc Code) HasPrefix(prefix Code) bool {
	if prefix.Size > hc.Size {
		return false
	}
	for i := 0; i < int(prefix.Size); i++ {
		if hc.Bit(i) != prefix.Bit(i) {
			return false
		}
	}
	return true
}

// Packed returns the code's bytes as they are stored in a container.
func (hc Code) Packed() []byte {
	n := (int(hc.Size) + 7) / 8
	out := make([]byte, n)
	copy(out, hc.Bits[:n])
	return out
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	if hc.Size == 0 {
		return "\"\""
	}
	return strconv.Quote(hc.bitString())
}

func (hc Code) bitString() string {
	var sb strings.Builder
	sb.Grow(int(hc.Size))
	for i := 0; i < int(hc.Size); i++ {
		if hc.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

var _ fmt.Stringer = Code{}

// writeCode appends the bits of hc to w.  It takes a pointer so that the hot
// encoding loop does not copy the code on every byte.
func writeCode(w *bitio.CountWriter, hc *Code) error {
	full := int(hc.Size) >> 3
	for _, b := range hc.Bits[:full] {
		if err := w.WriteBits(uint64(b), 8); err != nil {
			return err
		}
	}
	if rest := hc.Size & 7; rest != 0 {
		return w.WriteBits(uint64(hc.Bits[full]>>(8-rest)), rest)
	}
	return nil
}
