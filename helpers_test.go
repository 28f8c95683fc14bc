package huff

import (
	"math/rand"
	"strings"
)

// randomBytes returns n pseudo-random bytes drawn from the first alphabet
// byte values.
func randomBytes(seed int64, n int, alphabet int) []byte {
	rng := rand.New(rand.NewSource(seed))
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(rng.Intn(alphabet))
	}
	return out
}

// skewedBytes returns n bytes whose distribution is far from uniform, so the
// resulting codes have many different lengths.
func skewedBytes(seed int64, n int) []byte {
	rng := rand.New(rand.NewSource(seed))
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(rng.ExpFloat64() * 12)
	}
	return out
}

func textBytes(n int) []byte {
	const sentence = "The quick brown fox jumps over the lazy dog; pack my box with five dozen liquor jugs.\n"
	var sb strings.Builder
	for sb.Len() < n {
		sb.WriteString(sentence)
	}
	return []byte(sb.String()[:n])
}

// packBits converts a string of '0' and '1' characters into MSB-first bytes.
func packBits(bits string) ([]byte, uint64) {
	out := make([]byte, (len(bits)+7)/8)
	for i, ch := range bits {
		if ch == '1' {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out, uint64(len(bits))
}

func frequenciesOf(counts map[Symbol]uint64) *Frequencies {
	var freq Frequencies
	for symbol, count := range counts {
		freq[symbol] = count
	}
	return &freq
}
