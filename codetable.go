package huff

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/chronos-tachyon/assert"
)

// CodeTable maps each Symbol to its Huffman code.  Symbols without an entry
// have a zero-size Code.
type CodeTable struct {
	codes [256]Code
	count int
}

// NewCodeTable returns an empty CodeTable.
func NewCodeTable() *CodeTable {
	return &CodeTable{}
}

// CodeTableOf is a convenience function that builds a CodeTable from codes
// written as strings of '0' and '1' characters.
func CodeTableOf(codes map[Symbol]string) *CodeTable {
	table := NewCodeTable()
	for symbol, bits := range codes {
		table.Set(symbol, MakeCode(bits))
	}
	return table
}

// Set assigns hc to symbol, replacing any previous entry.
func (t *CodeTable) Set(symbol Symbol, hc Code) {
	assert.Assertf(hc.Size != 0, "empty code for symbol %d", symbol)
	if t.codes[symbol].Size == 0 {
		t.count++
	}
	t.codes[symbol] = hc
}

// Lookup returns the code for symbol, if it has one.
func (t *CodeTable) Lookup(symbol Symbol) (Code, bool) {
	hc := t.codes[symbol]
	return hc, hc.Size != 0
}

// Len returns the number of symbols with a code.
func (t *CodeTable) Len() int {
	return t.count
}

// Symbols returns the symbols with a code, in ascending order.
func (t *CodeTable) Symbols() []Symbol {
	out := make([]Symbol, 0, t.count)
	for symbol := range t.codes {
		if t.codes[symbol].Size != 0 {
			out = append(out, Symbol(symbol))
		}
	}
	return out
}

// MinSize is the bit length of the shortest code, or 0 for an empty table.
func (t *CodeTable) MinSize() byte {
	var minSize byte
	for _, hc := range t.codes {
		if hc.Size != 0 && (minSize == 0 || hc.Size < minSize) {
			minSize = hc.Size
		}
	}
	return minSize
}

// MaxSize is the bit length of the longest code.
func (t *CodeTable) MaxSize() byte {
	var maxSize byte
	for _, hc := range t.codes {
		if hc.Size > maxSize {
			maxSize = hc.Size
		}
	}
	return maxSize
}

// SizeBySymbol returns an array containing the bit length for each Symbol,
// with 0 for symbols that have no code.
func (t *CodeTable) SizeBySymbol() []byte {
	out := make([]byte, len(t.codes))
	for symbol, hc := range t.codes {
		out[symbol] = hc.Size
	}
	return out
}

// IsPrefixFree reports whether no code in the table is a prefix of another.
func (t *CodeTable) IsPrefixFree() bool {
	symbols := t.Symbols()
	for i, a := range symbols {
		for _, b := range symbols[i+1:] {
			ca, cb := t.codes[a], t.codes[b]
			if ca.HasPrefix(cb) || cb.HasPrefix(ca) {
				return false
			}
		}
	}
	return true
}

// GenerateCodes walks tree and records the path to each leaf as that leaf's
// code.  A tree consisting of a single leaf gets the one-bit code "0", since
// an empty code could not represent how many times the symbol occurs.
func GenerateCodes(tree *Tree) *CodeTable {
	table := NewCodeTable()
	if tree.root == NoChild {
		return table
	}
	if root := tree.nodes[tree.root]; root.Leaf {
		table.Set(root.Symbol, MakeCode("0"))
		return table
	}

	// Walk the tree with an explicit stack.  Each stackItem carries its own
	// copy of the path to its node, so pushing a child never disturbs the
	// path that the parent's other child will extend.
	//
	// We use stackItem.x to keep track of where we are in the tree walk:
	//   x=0 → We just arrived at stackItem for the first time
	//   x=1 → We have already processed the left child
	//   x=2 → We have already processed both children

	type stackItem struct {
		node int32
		code Code
		x    byte
	}

	leaves := uint32(tree.Leaves())
	stack := make([]stackItem, 0, log2uint32(leaves)+1)
	stack = append(stack, stackItem{node: tree.root})

	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		x := top.x
		top.x++

		node := tree.nodes[top.node]
		var child int32
		switch x {
		case 0:
			child = node.Left
		case 1:
			child = node.Right
		default:
			stack = stack[:len(stack)-1]
			continue
		}
		if child == NoChild {
			continue
		}

		code := top.code.Append(x == 1)
		if next := tree.nodes[child]; next.Leaf {
			table.Set(next.Symbol, code)
		} else {
			stack = append(stack, stackItem{node: child, code: code})
		}
	}

	return table
}

// String returns a short summary of the table.
func (t *CodeTable) String() string {
	return fmt.Sprintf("(Huffman code table with %d symbols, with code lengths of %d .. %d bits)",
		t.count, t.MinSize(), t.MaxSize())
}

// GoString returns a Go expression that rebuilds this table.
func (t *CodeTable) GoString() string {
	var buf bytes.Buffer
	buf.WriteString("huff.CodeTableOf(map[huff.Symbol]string{")
	for i, symbol := range t.Symbols() {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%d:%s", symbol, strconv.Quote(t.codes[symbol].bitString()))
	}
	buf.WriteString("})")
	return buf.String()
}

// DebugString returns a programmer-readable dump of the table.
func (t *CodeTable) DebugString() string {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", t.MinSize())
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", t.MaxSize())
	for _, symbol := range t.Symbols() {
		fmt.Fprintf(&buf, "\tEncode(%d) = %s\n", symbol, t.codes[symbol])
	}
	buf.WriteString("}\n")
	return buf.String()
}

// byCodeLength orders symbols by code length, then by symbol; used when
// printing the mapping the way a reader scans it, shortest codes first.
type byCodeLength struct {
	symbols []Symbol
	table   *CodeTable
}

func (list byCodeLength) Len() int {
	return len(list.symbols)
}

func (list byCodeLength) Swap(i, j int) {
	list.symbols[i], list.symbols[j] = list.symbols[j], list.symbols[i]
}

func (list byCodeLength) Less(i, j int) bool {
	a, b := list.symbols[i], list.symbols[j]
	as, bs := list.table.codes[a].Size, list.table.codes[b].Size
	if as != bs {
		return as < bs
	}
	return a < b
}

var _ sort.Interface = byCodeLength{}
