package huff

import (
	"sort"
	"sync"
)

// Frequencies holds the number of occurrences of each Symbol.  A count of
// zero means the symbol does not occur.
type Frequencies [256]uint64

// CountFrequencies scans data and returns the number of occurrences of every
// byte value.
//
// With workers > 1 the data is split into contiguous chunks, each worker
// counts its chunk into a private table, and the private tables are summed
// into the result under a mutex.  Addition is commutative, so the result does
// not depend on the worker count or on the order in which workers finish.
func CountFrequencies(data []byte, workers int) *Frequencies {
	workers = normalizeWorkers(workers)

	total := new(Frequencies)
	if workers == 1 {
		total.count(data)
		return total
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, s := range partition(len(data), workers) {
		chunk := data[s.start:s.end]
		wg.Add(1)
		go func() {
			defer wg.Done()
			var local Frequencies
			local.count(chunk)

			mu.Lock()
			total.merge(&local)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return total
}

func (f *Frequencies) count(data []byte) {
	for _, b := range data {
		f[b]++
	}
}

func (f *Frequencies) merge(other *Frequencies) {
	for i, n := range other {
		f[i] += n
	}
}

// Distinct returns the number of symbols with a non-zero count.
func (f *Frequencies) Distinct() int {
	var n int
	for _, c := range f {
		if c != 0 {
			n++
		}
	}
	return n
}

// Total returns the sum of all counts, which equals the length of the
// counted input.
func (f *Frequencies) Total() uint64 {
	var sum uint64
	for _, c := range f {
		sum += c
	}
	return sum
}

// SymbolCount pairs a Symbol with its number of occurrences.
type SymbolCount struct {
	Symbol Symbol
	Count  uint64
}

// Sorted returns the symbols with a non-zero count, ordered by ascending
// count and then by ascending symbol.
func (f *Frequencies) Sorted() []SymbolCount {
	list := make(byCount, 0, f.Distinct())
	for i, c := range f {
		if c != 0 {
			list = append(list, SymbolCount{Symbol(i), c})
		}
	}
	sort.Sort(list)
	return list
}

// type byCount {{{

type byCount []SymbolCount

func (list byCount) Len() int {
	return len(list)
}

func (list byCount) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byCount) Less(i, j int) bool {
	a, b := list[i], list[j]
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.Symbol < b.Symbol
}

var _ sort.Interface = byCount(nil)

// }}}
