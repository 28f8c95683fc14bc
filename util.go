package huff

import (
	mathbits "math/bits"

	"github.com/chronos-tachyon/assert"
)

func log2uint32(x uint32) uint32 {
	if x == 0 {
		x = 1
	}
	return uint32(32 - mathbits.LeadingZeros32(x))
}

// span is a half-open range [start, end) of the input assigned to one worker.
type span struct {
	start int
	end   int
}

// partition splits n items into one contiguous span per worker.  Every span
// holds n/workers items except the last, which also absorbs the remainder.
func partition(n int, workers int) []span {
	assert.Assertf(workers >= 1, "workers %d < 1", workers)
	assert.Assertf(n >= 0, "n %d < 0", n)

	size := n / workers
	spans := make([]span, workers)
	for i := range spans {
		spans[i] = span{start: i * size, end: (i + 1) * size}
	}
	spans[workers-1].end = n
	return spans
}

func normalizeWorkers(workers int) int {
	if workers < 1 {
		return 1
	}
	return workers
}
