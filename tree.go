package huff

import (
	"container/heap"
	"fmt"
	"math"
	"strings"

	"github.com/chronos-tachyon/assert"
)

// NoChild marks an absent child index in a Node.
const NoChild int32 = -1

// Node is one entry in a Tree's node arena.  A leaf holds a Symbol; an
// internal node holds the indices of its children.
type Node struct {
	// Freq is the symbol's count for a leaf, or the sum of the children's
	// counts for an internal node.  Trees built from a CodeTable carry no
	// frequencies and leave Freq at zero.
	Freq uint64

	// Symbol is valid only when Leaf is true.
	Symbol Symbol

	Leaf bool

	// Left and Right are indices into the owning Tree, or NoChild.
	Left  int32
	Right int32
}

// Tree is a binary prefix tree stored as an arena of Nodes.  The Tree owns
// every node; callers address nodes by index and never hold pointers into the
// arena.
type Tree struct {
	nodes []Node
	root  int32
}

// Root returns the index of the root node, or NoChild for an empty tree.
func (t *Tree) Root() int32 {
	return t.root
}

// Node returns a copy of the node at index i.
func (t *Tree) Node(i int32) Node {
	return t.nodes[i]
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Leaves returns the number of leaf nodes in the tree.
func (t *Tree) Leaves() int {
	var n int
	for _, node := range t.nodes {
		if node.Leaf {
			n++
		}
	}
	return n
}

func (t *Tree) add(node Node) int32 {
	assert.Assertf(len(t.nodes) < math.MaxInt32, "tree has too many nodes")
	t.nodes = append(t.nodes, node)
	return int32(len(t.nodes) - 1)
}

func newLeaf(symbol Symbol, freq uint64) Node {
	return Node{Freq: freq, Symbol: symbol, Leaf: true, Left: NoChild, Right: NoChild}
}

// BuildTree constructs a Huffman tree from symbol frequencies.
//
// Nodes are merged lowest frequency first.  Ties are broken by rank: a leaf
// ranks by its symbol value and always before an internal node, and internal
// nodes rank in creation order.  The first node popped becomes the left
// child, so the same frequencies always yield the same tree.
//
// An empty frequency table yields an empty tree.  A table with exactly one
// symbol yields a tree whose root is that symbol's leaf.
func BuildTree(freq *Frequencies) *Tree {
	distinct := freq.Distinct()
	t := &Tree{
		nodes: make([]Node, 0, 2*distinct),
		root:  NoChild,
	}
	if distinct == 0 {
		return t
	}

	// Step 1: one leaf per symbol, and a minheap over them.

	h := freqHeap{list: make([]symbolAndFreq, 0, distinct)}
	for symbol, count := range freq {
		if count == 0 {
			continue
		}
		index := t.add(newLeaf(Symbol(symbol), count))
		h.list = append(h.list, symbolAndFreq{node: index, freq: count, rank: naturalRank(Symbol(symbol))})
	}
	h.Init()

	// Step 2: pop the two cheapest nodes, merge them into a new synthetic
	// node, push the synthetic node back.

	seq := 0
	for h.Len() > 1 {
		a := heap.Pop(&h).(symbolAndFreq)
		b := heap.Pop(&h).(symbolAndFreq)

		// Compute freqSum using saturating addition
		freqSum := a.freq + b.freq
		if freqSum < a.freq {
			freqSum = math.MaxUint64
		}

		index := t.add(Node{Freq: freqSum, Left: a.node, Right: b.node})
		heap.Push(&h, symbolAndFreq{node: index, freq: freqSum, rank: syntheticRank(seq)})
		seq++
	}

	t.root = heap.Pop(&h).(symbolAndFreq).node
	return t
}

// BuildTreeFromTable reconstructs the prefix tree described by a CodeTable.
// Each symbol's path is inserted from the root, creating internal nodes as
// needed, and the node at the end of the path becomes the symbol's leaf.
//
// A *MalformedTableError is returned if two paths collide: one path runs
// through another symbol's leaf, or a path ends on a node that already
// exists.
func BuildTreeFromTable(table *CodeTable) (*Tree, error) {
	t := &Tree{root: NoChild}
	if table.Len() == 0 {
		return t, nil
	}

	t.nodes = make([]Node, 0, 2*table.Len())
	t.root = t.add(Node{Left: NoChild, Right: NoChild})

	for _, symbol := range table.Symbols() {
		hc := table.codes[symbol]
		if hc.Size == 0 {
			return nil, &MalformedTableError{Symbol: symbol, Offset: -1, Reason: "empty code"}
		}

		current := t.root
		for i := 0; i < int(hc.Size); i++ {
			node := t.nodes[current]
			if node.Leaf {
				return nil, &MalformedTableError{
					Symbol: symbol,
					Offset: -1,
					Reason: fmt.Sprintf("code %s extends the code of symbol %s", hc, node.Symbol),
				}
			}

			bit := hc.Bit(i)
			next := node.Left
			if bit {
				next = node.Right
			}
			if next == NoChild {
				next = t.add(Node{Left: NoChild, Right: NoChild})
				if bit {
					t.nodes[current].Right = next
				} else {
					t.nodes[current].Left = next
				}
			}
			current = next
		}

		end := &t.nodes[current]
		switch {
		case end.Leaf:
			return nil, &MalformedTableError{
				Symbol: symbol,
				Offset: -1,
				Reason: fmt.Sprintf("code %s is already assigned to symbol %s", hc, end.Symbol),
			}
		case end.Left != NoChild || end.Right != NoChild:
			return nil, &MalformedTableError{
				Symbol: symbol,
				Offset: -1,
				Reason: fmt.Sprintf("code %s is a prefix of another symbol's code", hc),
			}
		}
		end.Leaf = true
		end.Symbol = symbol
	}

	return t, nil
}

// DebugString returns a programmer-readable, indented dump of the tree.
func (t *Tree) DebugString() string {
	var sb strings.Builder
	if t.root == NoChild {
		sb.WriteString("(empty tree)\n")
		return sb.String()
	}
	t.dump(&sb, t.root, 0, "")
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, index int32, depth int, prefix string) {
	if index == NoChild {
		return
	}
	node := t.nodes[index]
	sb.WriteString(strings.Repeat("    ", depth))
	sb.WriteString(prefix)
	switch {
	case node.Leaf && node.Freq != 0:
		fmt.Fprintf(sb, "[SYM: %s | FREQ: %d]\n", node.Symbol, node.Freq)
	case node.Leaf:
		fmt.Fprintf(sb, "[SYM: %s]\n", node.Symbol)
	case node.Freq != 0:
		fmt.Fprintf(sb, "[FREQ: %d]\n", node.Freq)
	default:
		sb.WriteString("[*]\n")
	}
	t.dump(sb, node.Left, depth+1, "L- ")
	t.dump(sb, node.Right, depth+1, "R- ")
}

// type symbolAndFreq + type freqHeap {{{

type symbolAndFreq struct {
	node int32
	freq uint64
	rank rank
}

type freqHeap struct {
	list []symbolAndFreq
}

func (h *freqHeap) Init() {
	heap.Init(h)
}

func (h *freqHeap) Len() int {
	return len(h.list)
}

func (h *freqHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *freqHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.freq != b.freq {
		return a.freq < b.freq
	}
	return a.rank < b.rank
}

func (h *freqHeap) Push(x interface{}) {
	h.list = append(h.list, x.(symbolAndFreq))
}

func (h *freqHeap) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*freqHeap)(nil)

// }}}
