package huff

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// Decoder reconstructs the original bytes from a Huffman-coded bit stream by
// walking a prefix tree one bit at a time.
type Decoder struct {
	tree *Tree
}

// NewDecoder returns a Decoder that walks tree.
func NewDecoder(tree *Tree) *Decoder {
	return &Decoder{tree: tree}
}

// Decode reads exactly bitCount bits from payload.  Starting at the root, a 0
// bit moves to the left child and a 1 bit to the right child; reaching a leaf
// emits its symbol and returns to the root.  Padding bits after bitCount are
// never examined.
//
// A *CorruptStreamError is returned if payload is not exactly
// ceil(bitCount/8) bytes long, if a bit selects a child that does not exist,
// or if the stream ends part way through a code.
func (d *Decoder) Decode(payload []byte, bitCount uint64) ([]byte, error) {
	if want := payloadSize(bitCount); uint64(len(payload)) != want {
		return nil, &CorruptStreamError{
			BitOffset: 0,
			Reason:    fmt.Sprintf("payload is %d bytes, want %d for %d bits", len(payload), want, bitCount),
		}
	}
	if bitCount == 0 {
		return []byte{}, nil
	}

	root := d.tree.root
	if root == NoChild {
		return nil, &CorruptStreamError{BitOffset: 0, Reason: "stream is not empty but the code table is"}
	}

	nodes := d.tree.nodes
	out := make([]byte, 0, len(payload))
	r := bitio.NewReader(bytes.NewReader(payload))

	// A tree built straight from frequencies may be a lone leaf; its code
	// is the single bit 0.
	if nodes[root].Leaf {
		symbol := byte(nodes[root].Symbol)
		for i := uint64(0); i < bitCount; i++ {
			bit, err := r.ReadBool()
			if err != nil {
				return nil, &CorruptStreamError{BitOffset: i, Reason: err.Error()}
			}
			if bit {
				return nil, &CorruptStreamError{BitOffset: i, Reason: "no right branch below the root"}
			}
			out = append(out, symbol)
		}
		return out, nil
	}

	current := root
	for i := uint64(0); i < bitCount; i++ {
		bit, err := r.ReadBool()
		if err != nil {
			return nil, &CorruptStreamError{BitOffset: i, Reason: err.Error()}
		}

		next := nodes[current].Left
		if bit {
			next = nodes[current].Right
		}
		if next == NoChild {
			return nil, &CorruptStreamError{BitOffset: i, Reason: fmt.Sprintf("no %s branch at depth %d", branchName(bit), depth(nodes, root, current))}
		}

		if nodes[next].Leaf {
			out = append(out, byte(nodes[next].Symbol))
			current = root
		} else {
			current = next
		}
	}

	if current != root {
		return nil, &CorruptStreamError{BitOffset: bitCount, Reason: "stream ends in the middle of a code"}
	}
	return out, nil
}

func branchName(bit bool) string {
	if bit {
		return "right"
	}
	return "left"
}

// depth is only used to build error messages, so a linear search is fine.
func depth(nodes []Node, root int32, target int32) int {
	type item struct {
		node  int32
		depth int
	}
	stack := []item{{root, 0}}
	for len(stack) != 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.node == target {
			return top.depth
		}
		n := nodes[top.node]
		if n.Left != NoChild {
			stack = append(stack, item{n.Left, top.depth + 1})
		}
		if n.Right != NoChild {
			stack = append(stack, item{n.Right, top.depth + 1})
		}
	}
	return -1
}

// payloadSize returns ceil(bits/8) without overflowing.
func payloadSize(bits uint64) uint64 {
	n := bits / 8
	if bits%8 != 0 {
		n++
	}
	return n
}
