package rtree

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewValidatesPolicy(t *testing.T) {
	for _, tc := range []struct{ min, max int }{
		{0, 4}, {3, 4}, {2, 17}, {-1, 2},
	} {
		_, err := New(tc.min, tc.max)
		require.Error(t, err, "min=%d max=%d", tc.min, tc.max)
	}
	rt, err := New(2, 16)
	require.NoError(t, err)
	require.Equal(t, 0, rt.Len())
	_, ok := rt.Bounds()
	require.False(t, ok)
}

func TestRandom(t *testing.T) {
	for maxCapacity := 2; maxCapacity <= 10; maxCapacity++ {
		for minCapacity := 1; minCapacity <= maxCapacity/2; minCapacity++ {
			for population := 0; population < 50; population++ {
				name := fmt.Sprintf("min_%d_max_%d_pop_%d", minCapacity, maxCapacity, population)
				t.Run(name, func(t *testing.T) {
					rnd := rand.New(rand.NewSource(0))
					boxes := make([]BBox, population)
					for i := range boxes {
						boxes[i] = randomBox(rnd, 0.9, 0.1)
					}

					rt, err := New(minCapacity, maxCapacity)
					require.NoError(t, err)
					for i, bb := range boxes {
						rt.Insert(bb, i)
						checkInvariants(t, rt)
					}
					require.Equal(t, population, rt.Len())
					checkSearch(t, rnd, rt, boxes)
				})
			}
		}
	}
}

func TestBulkLoadThenInsert(t *testing.T) {
	for maxCapacity := 2; maxCapacity <= 16; maxCapacity += 2 {
		for _, population := range []int{0, 1, 7, 64, 300} {
			name := fmt.Sprintf("max_%d_pop_%d", maxCapacity, population)
			t.Run(name, func(t *testing.T) {
				rnd := rand.New(rand.NewSource(int64(population)))
				boxes := make([]BBox, population)
				items := make([]InsertItem, population)
				for i := range boxes {
					boxes[i] = randomBox(rnd, 0.9, 0.1)
					items[i] = InsertItem{BBox: boxes[i], DataIndex: i}
				}

				rt, err := New(1, maxCapacity)
				require.NoError(t, err)
				rt.BulkLoad(items)
				checkInvariants(t, rt)
				require.Equal(t, population, rt.Len())
				checkSearch(t, rnd, rt, boxes)

				for i := 0; i < 20; i++ {
					bb := randomBox(rnd, 0.9, 0.1)
					boxes = append(boxes, bb)
					rt.Insert(bb, len(boxes)-1)
					checkInvariants(t, rt)
				}
				checkSearch(t, rnd, rt, boxes)
			})
		}
	}
}

func TestClearReusesStorage(t *testing.T) {
	rt, err := New(2, 4)
	require.NoError(t, err)
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		rt.Insert(randomBox(rnd, 0.9, 0.1), i)
	}
	capBefore := cap(rt.nodes)

	rt.Clear()
	require.Equal(t, 0, rt.Len())
	require.Empty(t, rt.SearchAll(BBox{MinX: -1, MinY: -1, MaxX: 2, MaxY: 2}))
	require.Equal(t, capBefore, cap(rt.nodes))

	var boxes []BBox
	for i := 0; i < 40; i++ {
		bb := randomBox(rnd, 0.9, 0.1)
		boxes = append(boxes, bb)
		rt.Insert(bb, i)
		checkInvariants(t, rt)
	}
	checkSearch(t, rnd, rt, boxes)
}

func TestDuplicatesAndTouching(t *testing.T) {
	rt, err := New(1, 2)
	require.NoError(t, err)
	bb := BBox{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}
	for i := 0; i < 5; i++ {
		rt.Insert(bb, 7)
	}
	rt.Insert(BBox{MinX: 5, MinY: 5, MaxX: 5, MaxY: 5}, 8)

	got := rt.SearchAll(BBox{MinX: 1, MinY: 1, MaxX: 2, MaxY: 2})
	require.Equal(t, []int{7, 7, 7, 7, 7}, got)

	got = rt.SearchAll(BBox{MinX: 5, MinY: 5, MaxX: 5, MaxY: 5})
	require.Equal(t, []int{8}, got)

	bounds, ok := rt.Bounds()
	require.True(t, ok)
	require.Equal(t, BBox{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}, bounds)
}

func checkSearch(t *testing.T, rnd *rand.Rand, rt *RTree, boxes []BBox) {
	t.Helper()
	for i := 0; i < 10; i++ {
		searchBB := randomBox(rnd, 0.5, 0.5)
		got := rt.SearchAll(searchBB)

		var want []int
		for j, bb := range boxes {
			if overlap(bb, searchBB) {
				want = append(want, j)
			}
		}

		sort.Ints(want)
		sort.Ints(got)
		require.Equal(t, want, got, "search bbox: %v", searchBB)
	}
}

func randomBox(rnd *rand.Rand, maxStart, maxWidth float64) BBox {
	bb := BBox{
		MinX: rnd.Float64() * maxStart,
		MinY: rnd.Float64() * maxStart,
	}
	bb.MaxX = bb.MinX + rnd.Float64()*maxWidth
	bb.MaxY = bb.MinY + rnd.Float64()*maxWidth

	bb.MinX = float64(int(bb.MinX*100)) / 100
	bb.MinY = float64(int(bb.MinY*100)) / 100
	bb.MaxX = float64(int(bb.MaxX*100)) / 100
	bb.MaxY = float64(int(bb.MaxY*100)) / 100
	return bb
}

func checkInvariants(t *testing.T, rt *RTree) {
	t.Helper()
	if rt.count == 0 {
		return
	}

	// For each non-leaf node, its entries should have the smallest bounding
	// boxes that cover its children, and the children should point back.
	for i, parentNode := range rt.nodes {
		if len(parentNode.entries) > rt.maxChildren {
			t.Fatalf("node %d has %d entries, max is %d", i, len(parentNode.entries), rt.maxChildren)
		}
		if parentNode.isLeaf {
			continue
		}
		for j, parentEntry := range parentNode.entries {
			childNode := rt.nodes[parentEntry.index]
			if childNode.parent != i {
				t.Fatalf("node %d has parent %d, expected %d", parentEntry.index, childNode.parent, i)
			}
			union := childNode.entries[0].bbox
			for _, childEntry := range childNode.entries[1:] {
				union = combine(childEntry.bbox, union)
			}
			if union != parentEntry.bbox {
				t.Fatalf("expected parent to have smallest bbox that covers its children (node=%d, entry=%d)", i, j)
			}
		}
	}
	if p := rt.nodes[rt.rootIndex].parent; p != -1 {
		t.Fatalf("root has parent %d", p)
	}

	// Each node should be reached exactly once from the root. This implies
	// that the tree has no loops and no orphans. All leaves sit at the same
	// depth.
	visits := make(map[int]int)
	leafDepth := -1
	payloads := 0
	var recurse func(n, depth int)
	recurse = func(n, depth int) {
		visits[n]++
		nd := &rt.nodes[n]
		if nd.isLeaf {
			payloads += len(nd.entries)
			if leafDepth == -1 {
				leafDepth = depth
			} else if leafDepth != depth {
				t.Fatalf("leaf %d at depth %d, others at %d", n, depth, leafDepth)
			}
			return
		}
		for _, e := range nd.entries {
			recurse(e.index, depth+1)
		}
	}
	recurse(rt.rootIndex, 0)
	for i := range rt.nodes {
		if visits[i] != 1 {
			t.Fatalf("node %d visited %d times", i, visits[i])
		}
	}
	if payloads != rt.count {
		t.Fatalf("tree holds %d payloads, count is %d", payloads, rt.count)
	}
}
