package rtree

import "sort"

// InsertItem is an item that can be inserted for bulk loading.
type InsertItem struct {
	BBox      BBox
	DataIndex int
}

// BulkLoad replaces the contents of the tree with the given items. The bulk
// load is optimised for minimal node overlap, which allows for fast
// searching. Insert keeps working on the result.
func (t *RTree) BulkLoad(inserts []InsertItem) {
	t.Clear()
	if len(inserts) == 0 {
		return
	}
	items := make([]InsertItem, len(inserts))
	copy(items, inserts)
	height, capacity := 1, t.maxChildren
	for capacity < len(items) {
		capacity *= t.maxChildren
		height++
	}
	t.rootIndex = t.bulkInsert(items, height)
	t.nodes[t.rootIndex].parent = -1
	t.count = len(items)
}

// bulkInsert builds a subtree of the given height for items and returns its
// node index. Items are sorted along the longer axis of their combined box and
// cut into evenly sized runs, one per child, so all leaves end up at the same
// depth.
func (t *RTree) bulkInsert(items []InsertItem, height int) int {
	if height == 1 {
		n := t.newNode(true, -1)
		for _, item := range items {
			t.nodes[n].entries = append(t.nodes[n].entries, entry{
				bbox:  item.BBox,
				index: item.DataIndex,
			})
		}
		return n
	}

	bbox := items[0].BBox
	for _, item := range items[1:] {
		bbox = combine(bbox, item.BBox)
	}

	var sortBy func(i, j int) bool
	if bbox.MaxX-bbox.MinX > bbox.MaxY-bbox.MinY {
		sortBy = func(i, j int) bool {
			bi := items[i].BBox
			bj := items[j].BBox
			return bi.MinX+bi.MaxX < bj.MinX+bj.MaxX
		}
	} else {
		sortBy = func(i, j int) bool {
			bi := items[i].BBox
			bj := items[j].BBox
			return bi.MinY+bi.MaxY < bj.MinY+bj.MaxY
		}
	}
	sort.Slice(items, sortBy)

	childCap := 1
	for i := 1; i < height; i++ {
		childCap *= t.maxChildren
	}
	groups := (len(items) + childCap - 1) / childCap
	size := (len(items) + groups - 1) / groups

	var children []int
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		children = append(children, t.bulkInsert(items[start:end], height-1))
	}

	parent := t.newNode(false, -1)
	for _, c := range children {
		t.nodes[parent].entries = append(t.nodes[parent].entries, entry{
			bbox:  t.calculateBound(c),
			index: c,
		})
		t.nodes[c].parent = parent
	}
	return parent
}
