// Package quadtree implements the point-region spatial index used to find
// collision candidates each frame.
//
// The tree is an arena: every node lives in one slice and refers to its four
// children by the index of the first of four consecutive slots. Buckets live
// in a second flat slice. A tree is meant to be thrown away every frame, so
// Reset keeps both allocations and only truncates them.
//
// A node stores entries directly until its bucket is full. At that moment it
// gets four children and every later insertion is offered to all of them.
// Entries already in the bucket stay where they are, which is why Query
// visits every overlapping node and not only the leaves.
package quadtree

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/geom"
)

// DefaultCapacity is the bucket size of the reference behavior.
const DefaultCapacity = 1

// Entry is a position tagged with an opaque payload, usually a body index.
type Entry struct {
	Position r2.Vec
	Payload  int
}

type node struct {
	area  geom.Rect
	first int
	count int
	// children is the arena index of the first child, 0 when the node has
	// none. The root sits at index 0 and is never anybody's child.
	children int
}

// QuadTree is a bucketed point quadtree over a fixed area.
type QuadTree struct {
	capacity int
	nodes    []node
	entries  []Entry
}

// New returns an empty tree covering area. A capacity below one falls back
// to DefaultCapacity.
func New(area geom.Rect, capacity int) *QuadTree {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	t := &QuadTree{capacity: capacity}
	t.Reset(area)
	return t
}

// Reset empties the tree and makes it cover area, keeping the memory of the
// previous build.
func (t *QuadTree) Reset(area geom.Rect) {
	t.nodes = t.nodes[:0]
	t.entries = t.entries[:0]
	t.newNode(area)
}

// Area returns the region covered by the root.
func (t *QuadTree) Area() geom.Rect { return t.nodes[0].area }

// Capacity returns the bucket size of every node.
func (t *QuadTree) Capacity() int { return t.capacity }

// Nodes returns the number of allocated nodes.
func (t *QuadTree) Nodes() int { return len(t.nodes) }

// Len returns the number of stored entries.
func (t *QuadTree) Len() int {
	total := 0
	for i := range t.nodes {
		total += t.nodes[i].count
	}
	return total
}

func (t *QuadTree) newNode(area geom.Rect) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{area: area, first: len(t.entries)})
	for range t.capacity {
		t.entries = append(t.entries, Entry{})
	}
	return idx
}

// Insert stores payload at pos. It reports false when pos lies outside the
// root area; such points are silently left out of every query.
func (t *QuadTree) Insert(pos r2.Vec, payload int) bool {
	return t.insert(0, Entry{Position: pos, Payload: payload})
}

func (t *QuadTree) insert(i int, e Entry) bool {
	if !t.nodes[i].area.Contains(e.Position) {
		return false
	}

	if n := &t.nodes[i]; n.count < t.capacity {
		t.entries[n.first+n.count] = e
		n.count++
		if n.count == t.capacity {
			t.split(i)
		}
		return true
	}

	c := t.nodes[i].children
	if c == 0 {
		panic("quadtree: full node without children")
	}
	stored := false
	for k := 0; k < 4; k++ {
		if t.insert(c+k, e) {
			stored = true
		}
	}
	return stored
}

// split gives node i its four children. Appending may move the arena, so the
// node is addressed by index only.
func (t *QuadTree) split(i int) {
	area := t.nodes[i].area
	first := len(t.nodes)
	for k := 0; k < 4; k++ {
		t.newNode(area.Quadrant(k))
	}
	t.nodes[i].children = first
}

// Query appends to out every entry whose position lies inside query and
// returns the extended slice. Order is unspecified.
func (t *QuadTree) Query(query geom.Rect, out []Entry) []Entry {
	return t.query(0, query, out)
}

func (t *QuadTree) query(i int, q geom.Rect, out []Entry) []Entry {
	n := t.nodes[i]
	if !n.area.Overlaps(q) {
		return out
	}

	for _, e := range t.entries[n.first : n.first+n.count] {
		if q.Contains(e.Position) {
			out = append(out, e)
		}
	}

	if n.children == 0 {
		if n.count == t.capacity {
			panic("quadtree: full node without children")
		}
		return out
	}
	for k := 0; k < 4; k++ {
		out = t.query(n.children+k, q, out)
	}
	return out
}

// Walk calls fn for every node area in depth-first order.
func (t *QuadTree) Walk(fn func(area geom.Rect, depth int)) {
	t.walk(0, 0, fn)
}

func (t *QuadTree) walk(i, depth int, fn func(geom.Rect, int)) {
	n := t.nodes[i]
	fn(n.area, depth)
	if n.children == 0 {
		return
	}
	for k := 0; k < 4; k++ {
		t.walk(n.children+k, depth+1, fn)
	}
}
