// Package patricia builds the radix search trees stored alongside the
// name dictionaries of both container dialects.
//
// Node 0 is the root: it has an empty name, the reference bit 0xFFFFFFFF and
// its left link points at the first real node. Entry i of the dictionary is
// node i+1. A link to a node whose reference bit is not smaller than the
// current one is an upward link and ends the search.
package patricia

import (
	"fmt"

	"github.com/arloliu/ctrbin/errs"
)

// RootRef is the reference bit of the root node.
const RootRef uint32 = 0xFFFFFFFF

// Node is one tree node as stored on disk.
type Node struct {
	Ref   uint32
	Left  uint16
	Right uint16
	Name  string
}

// Tree is a patricia tree over a fixed list of names.
type Tree struct {
	nodes []Node
}

// Bit returns bit ref of name, counting from the least significant bit of
// the last byte. Bits past the start of the name are zero.
func Bit(name string, ref uint32) uint32 {
	idx := int(ref >> 3)
	if idx >= len(name) {
		return 0
	}

	return uint32(name[len(name)-1-idx]>>(ref&7)) & 1
}

// Build creates the tree for names, inserted in order. Names must be unique.
func Build(names []string) (*Tree, error) {
	if len(names) >= 0xFFFF {
		return nil, fmt.Errorf("%d dictionary entries: %w", len(names), errs.ErrOutOfRange)
	}

	t := &Tree{nodes: make([]Node, 1, len(names)+1)}
	t.nodes[0] = Node{Ref: RootRef}

	for _, name := range names {
		if err := t.insert(name); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// FromNodes wraps nodes read from a file. The first node must be the root.
func FromNodes(nodes []Node) (*Tree, error) {
	if len(nodes) == 0 || nodes[0].Ref != RootRef {
		return nil, fmt.Errorf("dictionary tree without root node: %w", errs.ErrMalformedRecord)
	}
	for i, n := range nodes {
		if int(n.Left) >= len(nodes) || int(n.Right) >= len(nodes) {
			return nil, fmt.Errorf("dictionary node %d links past %d nodes: %w", i, len(nodes), errs.ErrMalformedRecord)
		}
	}

	return &Tree{nodes: nodes}, nil
}

// Nodes returns the nodes in storage order, root first.
func (t *Tree) Nodes() []Node { return t.nodes }

// Len returns the number of entries, excluding the root.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Find returns the entry index of name.
func (t *Tree) Find(name string) (int, bool) {
	x := t.search(name)
	if x == 0 || t.nodes[x].Name != name {
		return 0, false
	}

	return x - 1, true
}

func (t *Tree) child(x int, name string) int {
	n := t.nodes[x]
	if x != 0 && Bit(name, n.Ref) == 1 {
		return int(n.Right)
	}

	return int(n.Left)
}

// search follows downward links and returns the node the search ends on.
func (t *Tree) search(name string) int {
	p, x := 0, int(t.nodes[0].Left)
	for t.nodes[x].Ref < t.nodes[p].Ref {
		p, x = x, t.child(x, name)
	}

	return x
}

func (t *Tree) insert(name string) error {
	closest := t.nodes[t.search(name)].Name

	diff, ok := highestDiff(name, closest)
	if !ok {
		return fmt.Errorf("duplicate dictionary name %q: %w", name, errs.ErrMalformedRecord)
	}

	p, x := 0, int(t.nodes[0].Left)
	for t.nodes[x].Ref < t.nodes[p].Ref && t.nodes[x].Ref > diff {
		p, x = x, t.child(x, name)
	}

	idx := uint16(len(t.nodes))
	n := Node{Ref: diff, Name: name, Left: idx, Right: uint16(x)}
	if Bit(name, diff) == 1 {
		n.Left, n.Right = uint16(x), idx
	}
	t.nodes = append(t.nodes, n)

	switch {
	case p == 0:
		t.nodes[0].Left = idx
	case Bit(name, t.nodes[p].Ref) == 1:
		t.nodes[p].Right = idx
	default:
		t.nodes[p].Left = idx
	}

	return nil
}

// highestDiff returns the highest bit index at which a and b differ.
func highestDiff(a, b string) (uint32, bool) {
	bits := uint32(max(len(a), len(b))) * 8
	for i := bits; i > 0; i-- {
		if Bit(a, i-1) != Bit(b, i-1) {
			return i - 1, true
		}
	}

	return 0, false
}
