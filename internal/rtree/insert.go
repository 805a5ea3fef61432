package rtree

import (
	"math"
	"math/bits"
)

// Insert adds a new data item to the tree. The same index may be inserted
// any number of times.
func (t *RTree) Insert(bb BBox, dataIndex int) {
	if t.count == 0 {
		t.nodes = t.nodes[:0]
		t.rootIndex = t.newNode(true, -1)
	}
	t.count++

	leaf := t.chooseLeafNode(bb)
	t.nodes[leaf].entries = append(t.nodes[leaf].entries, entry{bbox: bb, index: dataIndex})

	current := leaf
	for current != t.rootIndex {
		parent := t.nodes[current].parent
		for i := range t.nodes[parent].entries {
			e := &t.nodes[parent].entries[i]
			if e.index == current {
				e.bbox = combine(e.bbox, bb)
				break
			}
		}
		current = parent
	}

	if len(t.nodes[leaf].entries) <= t.maxChildren {
		return
	}

	newNode := t.splitNode(leaf)
	root1, root2 := t.adjustTree(leaf, newNode)

	if root2 != -1 {
		t.joinRoots(root1, root2)
	}
}

func (t *RTree) joinRoots(r1, r2 int) {
	root := t.newNode(false, -1)
	t.nodes[root].entries = append(t.nodes[root].entries,
		entry{bbox: t.calculateBound(r1), index: r1},
		entry{bbox: t.calculateBound(r2), index: r2},
	)
	t.rootIndex = root
	t.nodes[r1].parent = root
	t.nodes[r2].parent = root
}

func (t *RTree) adjustTree(n, nn int) (int, int) {
	for {
		if n == t.rootIndex {
			return n, nn
		}
		parent := t.nodes[n].parent
		parentEntry := -1
		for i, e := range t.nodes[parent].entries {
			if e.index == n {
				parentEntry = i
				break
			}
		}
		t.nodes[parent].entries[parentEntry].bbox = t.calculateBound(n)

		// AT4
		pp := -1
		if nn != -1 {
			newEntry := entry{
				bbox:  t.calculateBound(nn),
				index: nn,
			}
			t.nodes[parent].entries = append(t.nodes[parent].entries, newEntry)
			t.nodes[nn].parent = parent
			if len(t.nodes[parent].entries) > t.maxChildren {
				pp = t.splitNode(parent)
			}
		}

		n, nn = parent, pp
	}
}

// splitNode splits node with index n into two nodes. The first node replaces
// n, and the second node is newly created. The return value is the index of
// the new node.
func (t *RTree) splitNode(n int) int {
	count := len(t.nodes[n].entries)
	var (
		// All zeros would not be valid split, so start at 1.
		minSplit = uint64(1)
		// The MSB should always be 0, to remove duplicates from inverting the
		// bit pattern. E.g. for 4 entries: 0001, 0010, ..., 0111.
		maxSplit = uint64((1 << (count - 1)) - 1)
	)
	bestArea := math.Inf(+1)
	var bestSplit uint64
	for split := minSplit; split <= maxSplit; split++ {
		ones := bits.OnesCount64(split)
		if ones < t.minChildren || count-ones < t.minChildren {
			continue
		}
		var bboxA, bboxB BBox
		var hasA, hasB bool
		for i, e := range t.nodes[n].entries {
			if split&(1<<i) == 0 {
				if hasA {
					bboxA = combine(bboxA, e.bbox)
				} else {
					bboxA = e.bbox
					hasA = true
				}
			} else {
				if hasB {
					bboxB = combine(bboxB, e.bbox)
				} else {
					bboxB = e.bbox
					hasB = true
				}
			}
		}
		combinedArea := area(bboxA) + area(bboxB)
		if combinedArea < bestArea {
			bestArea = combinedArea
			bestSplit = split
		}
	}

	var entriesA, entriesB []entry
	for i, e := range t.nodes[n].entries {
		if bestSplit&(1<<i) == 0 {
			entriesA = append(entriesA, e)
		} else {
			entriesB = append(entriesB, e)
		}
	}

	// Use the existing node for A, and create a new node for B.
	t.nodes[n].entries = entriesA
	nb := t.newNode(t.nodes[n].isLeaf, -1)
	t.nodes[nb].entries = entriesB
	if !t.nodes[nb].isLeaf {
		for _, e := range entriesB {
			t.nodes[e.index].parent = nb
		}
	}
	return nb
}

func (t *RTree) chooseLeafNode(bb BBox) int {
	n := t.rootIndex

	for {
		if t.nodes[n].isLeaf {
			return n
		}
		entries := t.nodes[n].entries
		bestDelta := enlargement(entries[0].bbox, bb)
		bestEntry := 0
		for i := 1; i < len(entries); i++ {
			delta := enlargement(entries[i].bbox, bb)
			if delta < bestDelta {
				bestDelta = delta
				bestEntry = i
			} else if delta == bestDelta && area(entries[i].bbox) < area(entries[bestEntry].bbox) {
				// Area is used as a tie breaker if the enlargements are the same.
				bestEntry = i
			}
		}
		n = entries[bestEntry].index
	}
}
