// Package rtree is an in-memory R-tree mapping bounding boxes to integer
// payloads. The tree never owns what the payloads refer to.
//
// An RTree is not safe for concurrent use.
package rtree

import "github.com/pkg/errors"

// MaxChildrenLimit bounds the node fan-out. Node splitting tries every
// two-way partition of an overflowing node, which is exponential in its size.
const MaxChildrenLimit = 16

// node is either a leaf holding payload entries, or an intermediate node
// holding entries for more nodes.
type node struct {
	isLeaf  bool
	entries []entry
	parent  int
}

// entry leads either to a payload (in a leaf) or to a child node.
type entry struct {
	bbox  BBox
	index int
}

// RTree is an R-tree with fixed node size bounds.
type RTree struct {
	minChildren int
	maxChildren int

	rootIndex int
	nodes     []node
	count     int
}

// New creates an empty tree whose nodes hold between minChildren and
// maxChildren entries (the root excepted).
func New(minChildren, maxChildren int) (*RTree, error) {
	if minChildren < 1 {
		return nil, errors.Errorf("min children must be at least 1, got %d", minChildren)
	}
	if minChildren > maxChildren/2 {
		return nil, errors.Errorf("min children (%d) must be less than or equal to half of the max children (%d)", minChildren, maxChildren)
	}
	if maxChildren > MaxChildrenLimit {
		return nil, errors.Errorf("max children (%d) exceeds %d", maxChildren, MaxChildrenLimit)
	}
	return &RTree{minChildren: minChildren, maxChildren: maxChildren}, nil
}

// Len is the number of payloads stored.
func (t *RTree) Len() int { return t.count }

// Bounds returns the box covering every stored entry. ok is false for an
// empty tree.
func (t *RTree) Bounds() (bb BBox, ok bool) {
	if t.count == 0 {
		return BBox{}, false
	}
	return t.calculateBound(t.rootIndex), true
}

// Clear empties the tree in constant time. Node storage is kept and reused by
// later inserts.
func (t *RTree) Clear() {
	t.nodes = t.nodes[:0]
	t.rootIndex = 0
	t.count = 0
}

// newNode appends a node, recycling the entry storage of a node dropped by
// Clear when capacity allows.
func (t *RTree) newNode(isLeaf bool, parent int) int {
	if n := len(t.nodes); n < cap(t.nodes) {
		t.nodes = t.nodes[:n+1]
		nd := &t.nodes[n]
		nd.isLeaf = isLeaf
		nd.parent = parent
		nd.entries = nd.entries[:0]
		return n
	}
	t.nodes = append(t.nodes, node{isLeaf: isLeaf, parent: parent})
	return len(t.nodes) - 1
}

// Search looks for any items in the tree that overlap with the given
// bounding box. The callback is called with the item index for each found
// item, in no particular order.
func (t *RTree) Search(bb BBox, callback func(index int)) {
	if t.count == 0 {
		return
	}
	var recurse func(*node)
	recurse = func(n *node) {
		for _, e := range n.entries {
			if !overlap(e.bbox, bb) {
				continue
			}
			if n.isLeaf {
				callback(e.index)
			} else {
				recurse(&t.nodes[e.index])
			}
		}
	}
	recurse(&t.nodes[t.rootIndex])
}

// SearchAll collects the results of Search.
func (t *RTree) SearchAll(bb BBox) []int {
	var out []int
	t.Search(bb, func(index int) {
		out = append(out, index)
	})
	return out
}
