package quadtree

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/geom"
)

func randomPoints(rng *rand.Rand, area geom.Rect, n int) []r2.Vec {
	pts := make([]r2.Vec, n)
	for i := range pts {
		pts[i] = r2.Vec{
			X: area.Left + rng.Float64()*area.Width(),
			Y: area.Up + rng.Float64()*area.Height(),
		}
	}
	return pts
}

func payloads(entries []Entry) map[int]int {
	seen := make(map[int]int, len(entries))
	for _, e := range entries {
		seen[e.Payload]++
	}
	return seen
}

func TestQueryCompleteness(t *testing.T) {
	area := geom.NewRect(0, 0, 1000, 800)

	for _, capacity := range []int{1, 2, 4, 8} {
		rng := rand.New(rand.NewPCG(7, uint64(capacity)))
		pts := randomPoints(rng, area, 500)

		tree := New(area, capacity)
		for i, p := range pts {
			if !tree.Insert(p, i) {
				t.Fatalf("capacity %d: point %v inside the root was rejected", capacity, p)
			}
		}
		if tree.Len() != len(pts) {
			t.Fatalf("capacity %d: expected %d stored entries, got %d", capacity, len(pts), tree.Len())
		}

		for q := 0; q < 200; q++ {
			c := randomPoints(rng, area, 1)[0]
			query := geom.NewRect(c.X, c.Y, rng.Float64()*300, rng.Float64()*300)

			seen := payloads(tree.Query(query, nil))
			for i, p := range pts {
				if query.Contains(p) && seen[i] == 0 {
					t.Fatalf("capacity %d: point %d at %v missing from query %+v", capacity, i, p, query)
				}
			}
			for id := range seen {
				if !query.Contains(pts[id]) {
					t.Fatalf("capacity %d: point %d outside the query was returned", capacity, id)
				}
			}
		}
	}
}

func TestInsertOutsideRootIsDropped(t *testing.T) {
	tree := New(geom.NewRect(0, 0, 10, 10), DefaultCapacity)

	tests := []struct {
		name string
		p    r2.Vec
	}{
		{"far away", r2.Vec{X: 100, Y: 100}},
		{"right edge", r2.Vec{X: 5, Y: 0}},
		{"bottom edge", r2.Vec{X: 0, Y: 5}},
	}

	for _, tt := range tests {
		if tree.Insert(tt.p, 1) {
			t.Errorf("%s: expected insertion to be rejected", tt.name)
		}
	}
	if tree.Len() != 0 {
		t.Errorf("expected empty tree, got %d entries", tree.Len())
	}
	if got := tree.Query(geom.NewRect(0, 0, 1000, 1000), nil); len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}

func TestSplitKeepsBucketedEntries(t *testing.T) {
	tree := New(geom.NewRect(0, 0, 100, 100), 1)

	tree.Insert(r2.Vec{X: 10, Y: 10}, 0)
	if tree.nodes[0].children == 0 {
		t.Fatal("expected the root to split once its bucket filled")
	}
	tree.Insert(r2.Vec{X: 20, Y: 20}, 1)

	root := tree.nodes[0]
	if root.count != 1 || tree.entries[root.first].Payload != 0 {
		t.Errorf("expected the first entry to stay in the root bucket, got %+v", tree.entries[root.first])
	}

	child := tree.nodes[root.children+3]
	if child.count != 1 || tree.entries[child.first].Payload != 1 {
		t.Errorf("expected the second entry in the bottom-right child, got count %d", child.count)
	}

	seen := payloads(tree.Query(geom.NewRect(15, 15, 20, 20), nil))
	if seen[0] != 1 || seen[1] != 1 {
		t.Errorf("expected both entries exactly once, got %v", seen)
	}
}

func TestQueryDisjointRegion(t *testing.T) {
	tree := New(geom.NewRect(0, 0, 100, 100), 1)
	for i := 0; i < 10; i++ {
		tree.Insert(r2.Vec{X: float64(i), Y: float64(i)}, i)
	}

	if got := tree.Query(geom.NewRect(500, 500, 10, 10), nil); len(got) != 0 {
		t.Errorf("expected no results outside the root, got %d", len(got))
	}
}

func TestCoincidentPoints(t *testing.T) {
	tree := New(geom.NewRect(0, 0, 100, 100), 1)
	p := r2.Vec{X: 3, Y: -7}
	for i := 0; i < 20; i++ {
		if !tree.Insert(p, i) {
			t.Fatalf("coincident point %d rejected", i)
		}
	}

	seen := payloads(tree.Query(geom.NewRect(3, -7, 1, 1), nil))
	if len(seen) != 20 {
		t.Errorf("expected 20 payloads, got %d", len(seen))
	}
}

func TestRootCornerOnUnevenArea(t *testing.T) {
	area := geom.NewRect(0.1, 0.3, 1000.7, 999.9)
	p := r2.Vec{X: area.Left, Y: area.Up}
	if !area.Contains(p) {
		t.Fatalf("corner %v should lie inside %+v", p, area)
	}

	tree := New(area, 1)
	for i := 0; i < 8; i++ {
		if !tree.Insert(p, i) {
			t.Fatalf("insert %d of corner point was rejected", i)
		}
	}

	seen := payloads(tree.Query(geom.NewRect(p.X, p.Y, 10, 10), nil))
	for i := 0; i < 8; i++ {
		if seen[i] != 1 {
			t.Errorf("payload %d returned %d times, want 1", i, seen[i])
		}
	}
}

func TestUnevenAreaQuadrantCorners(t *testing.T) {
	area := geom.NewRect(0.1, 0.3, 1000.7, 999.9)

	var pts []r2.Vec
	var collect func(r geom.Rect, depth int)
	collect = func(r geom.Rect, depth int) {
		pts = append(pts, r2.Vec{X: r.Left, Y: r.Up}, r.Center())
		if depth == 5 {
			return
		}
		for k := 0; k < 4; k++ {
			collect(r.Quadrant(k), depth+1)
		}
	}
	collect(area, 0)

	tree := New(area, 1)
	for i, p := range pts {
		if !tree.Insert(p, i) {
			t.Fatalf("point %v inside the root was rejected", p)
		}
	}

	for i, p := range pts {
		seen := payloads(tree.Query(geom.NewRect(p.X, p.Y, 1e-3, 1e-3), nil))
		if seen[i] != 1 {
			t.Fatalf("point %d at %v returned %d times, want 1", i, p, seen[i])
		}
	}
}

func TestResetReusesTree(t *testing.T) {
	tree := New(geom.NewRect(0, 0, 100, 100), 2)
	rng := rand.New(rand.NewPCG(1, 2))
	for i, p := range randomPoints(rng, tree.Area(), 64) {
		tree.Insert(p, i)
	}
	nodes := cap(tree.nodes)

	area := geom.NewRect(1000, 1000, 50, 50)
	tree.Reset(area)

	if tree.Len() != 0 || tree.Nodes() != 1 {
		t.Errorf("expected a single empty root after reset, got %d nodes %d entries", tree.Nodes(), tree.Len())
	}
	if tree.Area() != area {
		t.Errorf("expected root area %+v, got %+v", area, tree.Area())
	}
	if cap(tree.nodes) != nodes {
		t.Errorf("expected node arena to be reused")
	}
}

func TestFullNodeWithoutChildrenPanics(t *testing.T) {
	tree := New(geom.NewRect(0, 0, 10, 10), 1)
	tree.Insert(r2.Vec{}, 0)
	tree.nodes[0].children = 0

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a full node without children")
		}
	}()
	tree.Query(geom.NewRect(0, 0, 10, 10), nil)
}

func TestWalkVisitsEveryNode(t *testing.T) {
	tree := New(geom.NewRect(0, 0, 64, 64), 1)
	tree.Insert(r2.Vec{X: -10, Y: -10}, 0)
	tree.Insert(r2.Vec{X: 10, Y: 10}, 1)

	visited, deepest := 0, 0
	tree.Walk(func(area geom.Rect, depth int) {
		visited++
		deepest = max(deepest, depth)
	})

	if visited != tree.Nodes() {
		t.Errorf("expected %d nodes visited, got %d", tree.Nodes(), visited)
	}
	if deepest != 2 {
		t.Errorf("expected depth 2, got %d", deepest)
	}
}
