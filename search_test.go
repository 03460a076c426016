package envsim

import "testing"

func TestSearchPreciseReturnsFirstContainingMember(t *testing.T) {
	root := &BvhNode{
		Bounds: AABB{Min: Point3{}, Max: Point3{X: 10, Y: 10, Z: 10}},
		Members: []AABB{
			{Min: Point3{X: 0, Y: 0, Z: 0}, Max: Point3{X: 5, Y: 5, Z: 5}, Id: "a"},
			{Min: Point3{X: 0, Y: 0, Z: 0}, Max: Point3{X: 10, Y: 10, Z: 10}, Id: "b"},
		},
	}
	hits, stats := Search(root, 1, 1, 1, SearchPrecise)
	if len(hits) != 1 || hits[0] != "a" {
		t.Errorf("hits = %v, want [a]", hits)
	}
	if stats.VisitedNodes != 1 {
		t.Errorf("VisitedNodes = %d, want 1", stats.VisitedNodes)
	}
}

func TestSearchCoarseReturnsAllContaining(t *testing.T) {
	root := &BvhNode{
		Bounds: AABB{Min: Point3{}, Max: Point3{X: 10, Y: 10, Z: 10}},
		Members: []AABB{
			{Min: Point3{X: 0, Y: 0, Z: 0}, Max: Point3{X: 5, Y: 5, Z: 5}, Id: "a"},
			{Min: Point3{X: 0, Y: 0, Z: 0}, Max: Point3{X: 10, Y: 10, Z: 10}, Id: "b"},
		},
	}
	hits, _ := Search(root, 1, 1, 1, SearchCoarse)
	if len(hits) != 2 {
		t.Errorf("hits = %v, want 2 members", hits)
	}
}

func TestSearchNearestPicksClosestCenter(t *testing.T) {
	root := &BvhNode{
		Bounds: AABB{Min: Point3{}, Max: Point3{X: 10, Y: 10, Z: 10}},
		Members: []AABB{
			{Min: Point3{X: 0, Y: 0, Z: 0}, Max: Point3{X: 10, Y: 10, Z: 10}, Id: "big"},
			{Min: Point3{X: 0.5, Y: 0.5, Z: 0.5}, Max: Point3{X: 1.5, Y: 1.5, Z: 1.5}, Id: "small"},
		},
	}
	hits, _ := Search(root, 1, 1, 1, SearchNearest)
	if len(hits) != 1 || hits[0] != "small" {
		t.Errorf("hits = %v, want [small] (its center is closer to (1,1,1))", hits)
	}
}

func TestSearchMissReturnsEmpty(t *testing.T) {
	root := &BvhNode{
		Bounds:  AABB{Min: Point3{}, Max: Point3{X: 1, Y: 1, Z: 1}},
		Members: []AABB{{Min: Point3{}, Max: Point3{X: 1, Y: 1, Z: 1}, Id: "a"}},
	}
	hits, _ := Search(root, 5, 5, 5, SearchPrecise)
	if len(hits) != 0 {
		t.Errorf("hits = %v, want empty", hits)
	}
}

func TestSearchDescendsBothChildrenAtSeam(t *testing.T) {
	left := &BvhNode{
		Bounds:  AABB{Min: Point3{X: 0}, Max: Point3{X: 1, Y: 1, Z: 1}},
		Members: []AABB{{Min: Point3{X: 0}, Max: Point3{X: 1, Y: 1, Z: 1}, Id: "left"}},
	}
	right := &BvhNode{
		Bounds:  AABB{Min: Point3{X: 1}, Max: Point3{X: 2, Y: 1, Z: 1}},
		Members: []AABB{{Min: Point3{X: 1}, Max: Point3{X: 2, Y: 1, Z: 1}, Id: "right"}},
	}
	root := &BvhNode{Bounds: Union(left.Bounds, right.Bounds), Left: left, Right: right}

	hits, _ := Search(root, 1, 0.5, 0.5, SearchCoarse)
	if len(hits) != 1 || hits[0] != "right" {
		t.Errorf("hits at seam = %v, want [right] (half-open convention)", hits)
	}
}
