package envsim

// SearchMode selects how a leaf with multiple members is disambiguated.
type SearchMode int

const (
	// SearchPrecise returns the first member AABB whose bounds actually
	// contain the query point, a single-hit optimization correct for
	// non-overlapping grids (spec §4.3).
	SearchPrecise SearchMode = iota
	// SearchCoarse returns every member id in a hit leaf, unconditionally.
	SearchCoarse
	// SearchNearest returns the member whose center is closest to the
	// query point. Not part of spec §4.3's precise/coarse pair; carried
	// over from the Python reference's search_primary "nearest" mode for
	// scenes with overlapping, non-compiler-generated SpaceArea bounds
	// (see SPEC_FULL.md Supplemented Features).
	SearchNearest
)

// SearchStats reports descent diagnostics for one query. It is reset at
// the start of every Search call (spec §4.3).
type SearchStats struct {
	VisitedNodes int
}

// Search descends the BVH rooted at root looking for (x,y,z), returning
// the area ids that mode selects from every leaf whose bounds contain the
// point. On a miss at the root, or anywhere along the descent, it returns an
// empty slice (spec §4.3).
//
// Descent recurses into both children of an Inner node when both contain
// the point: grid cells can share a boundary at the outer BVH level even
// though the half-open convention prevents it at the leaf level, and
// checking only one child would risk missing a hit at such a seam.
func Search(root *BvhNode, x, y, z float64, mode SearchMode) ([]AreaId, SearchStats) {
	stats := SearchStats{}
	p := Point3{X: x, Y: y, Z: z}
	var found []AreaId
	search(root, p, mode, &found, &stats)
	return found, stats
}

func search(n *BvhNode, p Point3, mode SearchMode, found *[]AreaId, stats *SearchStats) {
	if n == nil {
		return
	}
	stats.VisitedNodes++
	if !n.Bounds.Contains(p) {
		return
	}

	if n.IsLeaf() {
		appendLeafHits(n.Members, p, mode, found)
		return
	}

	search(n.Left, p, mode, found, stats)
	search(n.Right, p, mode, found, stats)
}

func appendLeafHits(members []AABB, p Point3, mode SearchMode, found *[]AreaId) {
	switch mode {
	case SearchCoarse:
		for _, m := range members {
			*found = append(*found, m.Id)
		}
	case SearchNearest:
		var best AreaId
		bestDist := -1.0
		haveHit := false
		for _, m := range members {
			if !m.Contains(p) {
				continue
			}
			haveHit = true
			c := m.Center()
			d := dist2(c, p)
			if bestDist < 0 || d < bestDist {
				bestDist = d
				best = m.Id
			}
		}
		if haveHit {
			*found = append(*found, best)
		}
	default: // SearchPrecise
		for _, m := range members {
			if m.Contains(p) {
				*found = append(*found, m.Id)
				return
			}
		}
	}
}

func dist2(a, b Point3) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}
