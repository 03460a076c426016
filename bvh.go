package envsim

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// DefaultLeafCapacity and DefaultMaxDepth are the BVH builder's defaults
// per spec §4.2.
const (
	DefaultLeafCapacity = 1
	DefaultMaxDepth     = 8
)

// BuildOptions configures the BVH builder.
type BuildOptions struct {
	LeafCapacity int
	MaxDepth     int
}

// DefaultBuildOptions returns the spec-mandated defaults.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{LeafCapacity: DefaultLeafCapacity, MaxDepth: DefaultMaxDepth}
}

// BvhNode is a binary tree node over an AABB set: either an Inner node
// whose bounds are the union of its children's bounds, or a Leaf holding
// the original member AABBs that fell into it (spec §3).
type BvhNode struct {
	Bounds AABB

	// Inner-node fields. Left and Right are both nil iff this is a leaf.
	Left, Right *BvhNode

	// Leaf-node fields.
	Members []AABB
}

// IsLeaf reports whether n is a leaf node.
func (n *BvhNode) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Build constructs a BVH over areas by recursive midpoint-index split on
// the longest-spread axis (spec §4.2). It returns ErrEmptyScene for an
// empty input.
func Build(areas []AABB, opts BuildOptions) (*BvhNode, error) {
	if len(areas) == 0 {
		return nil, ErrEmptyScene
	}
	if opts.LeafCapacity <= 0 {
		opts.LeafCapacity = DefaultLeafCapacity
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	cp := make([]AABB, len(areas))
	copy(cp, areas)
	return build(cp, 0, opts), nil
}

func build(areas []AABB, depth int, opts BuildOptions) *BvhNode {
	if len(areas) <= opts.LeafCapacity || depth >= opts.MaxDepth {
		return leafOf(areas)
	}

	axis, degenerate := splitAxis(areas)
	if degenerate {
		return leafOf(areas)
	}

	sortByMin(areas, axis)
	mid := (len(areas) + 1) / 2 // odd counts go left-heavy: the left half gets the extra member

	left := build(areas[:mid], depth+1, opts)
	right := build(areas[mid:], depth+1, opts)
	return &BvhNode{
		Bounds: Union(left.Bounds, right.Bounds),
		Left:   left,
		Right:  right,
	}
}

func leafOf(areas []AABB) *BvhNode {
	members := make([]AABB, len(areas))
	copy(members, areas)
	bounds := members[0]
	for _, a := range members[1:] {
		bounds = Union(bounds, a)
	}
	bounds.Id = ""
	return &BvhNode{Bounds: bounds, Members: members}
}

// splitAxis picks the axis (0=x, 1=y, 2=z) with the largest spread across
// member centers. If every axis has zero spread (all members collinear at
// a point), it reports degenerate=true so the caller can force a leaf
// regardless of capacity (spec §4.2 edge cases).
func splitAxis(areas []AABB) (axis int, degenerate bool) {
	xs := make([]float64, len(areas))
	ys := make([]float64, len(areas))
	zs := make([]float64, len(areas))
	for i, a := range areas {
		c := a.Center()
		xs[i], ys[i], zs[i] = c.X, c.Y, c.Z
	}
	spreads := [3]float64{spread(xs), spread(ys), spread(zs)}
	best := floats.MaxIdx(spreads[:])
	if spreads[best] == 0 {
		return 0, true
	}
	return best, false
}

func spread(vs []float64) float64 {
	return floats.Max(vs) - floats.Min(vs)
}

func sortByMin(areas []AABB, axis int) {
	key := func(a AABB) float64 {
		switch axis {
		case 0:
			return a.Min.X
		case 1:
			return a.Min.Y
		default:
			return a.Min.Z
		}
	}
	sort.SliceStable(areas, func(i, j int) bool {
		return key(areas[i]) < key(areas[j])
	})
}
