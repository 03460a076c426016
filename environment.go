package envsim

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// Environment is the runtime facade over a compiled (or hand-authored)
// scene: the areas/links/properties tables and the BVH built over the
// areas' bounds. It is built once and is immutable for the rest of the
// process lifetime (spec §3 Lifecycle, §5).
type Environment struct {
	areas      map[AreaId]SpaceArea
	links      map[AreaId]PropertyId
	properties map[PropertyId]AreaProperty
	bvhRoot    *BvhNode
}

// NewEnvironment builds an Environment from already-decoded tables.
func NewEnvironment(areas []SpaceArea, links []Link, properties map[PropertyId]AreaProperty, opts BuildOptions) (*Environment, error) {
	bounds := make([]AABB, 0, len(areas))
	areaMap := make(map[AreaId]SpaceArea, len(areas))
	for _, a := range areas {
		areaMap[a.AreaId] = a
		bounds = append(bounds, a.Bounds)
	}
	root, err := Build(bounds, opts)
	if err != nil {
		return nil, err
	}

	linkMap := make(map[AreaId]PropertyId, len(links))
	for _, l := range links {
		linkMap[l.AreaId] = l.PropertyId
	}

	return &Environment{
		areas:      areaMap,
		links:      linkMap,
		properties: properties,
		bvhRoot:    root,
	}, nil
}

// LoadEnvironment loads space_areas/links/properties from dir (accepting
// the alternate spellings in ResolveEnvFiles) and builds the Environment
// (spec §4.4, §6).
func LoadEnvironment(fs afero.Fs, dir string, opts BuildOptions) (*Environment, error) {
	areaPath, linkPath, propPath, err := ResolveEnvFiles(fs, dir)
	if err != nil {
		return nil, err
	}
	areas, err := LoadSpaceAreas(fs, areaPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", areaPath, err)
	}
	links, err := LoadLinks(fs, linkPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", linkPath, err)
	}
	props, err := LoadAreaProperties(fs, propPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", propPath, err)
	}
	return NewEnvironment(areas, links, props, opts)
}

// PropertyAt is the primary operation: classify (x,y,z) into an area and
// resolve its linked property (spec §4.4).
//
// It returns (nil, nil) when no area covers the point; (area id, nil) when
// the area exists but has no link or the link's property is missing (the
// documented failure mode for partially-specified scenes); and (area id,
// property) on a full hit.
func (e *Environment) PropertyAt(x, y, z float64) (*AreaId, *AreaProperty) {
	hits, _ := Search(e.bvhRoot, x, y, z, SearchPrecise)
	if len(hits) == 0 {
		return nil, nil
	}
	aid := hits[0]

	pid, ok := e.links[aid]
	if !ok {
		return &aid, nil
	}
	prop, ok := e.properties[pid]
	if !ok {
		return &aid, nil
	}
	return &aid, &prop
}

// InspectArea returns the SpaceArea, its linked PropertyId (if any), and
// the resolved AreaProperty (if any) for a given area id.
func (e *Environment) InspectArea(aid AreaId) (area *SpaceArea, pid *PropertyId, prop *AreaProperty) {
	a, ok := e.areas[aid]
	if !ok {
		return nil, nil, nil
	}
	area = &a
	p, ok := e.links[aid]
	if !ok {
		return area, nil, nil
	}
	pid = &p
	if ap, ok := e.properties[p]; ok {
		prop = &ap
	}
	return area, pid, prop
}

// ResolvedArea is a denormalized, validated join of a SpaceArea with its
// resolved AreaProperty, used by diagnostics. Grounded on the Python
// reference's ModelLoader.build_visual_areas "VisualArea" view (see
// SPEC_FULL.md Supplemented Features item 2) without its visualization
// concerns.
type ResolvedArea struct {
	AreaId     AreaId
	Bounds     AABB
	PropertyId *PropertyId
	Property   *AreaProperty
}

// ResolvedAreas returns the join of every area with its resolved property,
// in no particular order.
func (e *Environment) ResolvedAreas() []ResolvedArea {
	out := make([]ResolvedArea, 0, len(e.areas))
	for aid, a := range e.areas {
		_, pid, prop := e.InspectArea(aid)
		out = append(out, ResolvedArea{AreaId: aid, Bounds: a.Bounds, PropertyId: pid, Property: prop})
	}
	return out
}

// IntegrityReport is the output of ValidateIntegrity: the four categories
// of soft error spec §3/§4.4/§7 call for. None of these are fatal.
type IntegrityReport struct {
	AreasWithoutLink      []AreaId
	LinksToMissingProperty []Link
	PropertiesUnreferenced []PropertyId
	LinksToMissingArea     []Link
}

// Empty reports whether the report found no problems.
func (r IntegrityReport) Empty() bool {
	return len(r.AreasWithoutLink) == 0 &&
		len(r.LinksToMissingProperty) == 0 &&
		len(r.PropertiesUnreferenced) == 0 &&
		len(r.LinksToMissingArea) == 0
}

// ValidateIntegrity checks the loaded tables for the soft-error conditions
// in spec §3/§4.4: links dangling to a missing property, areas missing a
// link, properties nobody links to, and links pointing at an area that
// doesn't exist.
func (e *Environment) ValidateIntegrity() IntegrityReport {
	var r IntegrityReport

	linkedAreas := make(map[AreaId]bool, len(e.links))
	referencedProps := make(map[PropertyId]bool, len(e.properties))

	for aid, pid := range e.links {
		linkedAreas[aid] = true
		referencedProps[pid] = true
		if _, ok := e.areas[aid]; !ok {
			r.LinksToMissingArea = append(r.LinksToMissingArea, Link{AreaId: aid, PropertyId: pid})
			continue
		}
		if _, ok := e.properties[pid]; !ok {
			r.LinksToMissingProperty = append(r.LinksToMissingProperty, Link{AreaId: aid, PropertyId: pid})
		}
	}

	for aid := range e.areas {
		if !linkedAreas[aid] {
			r.AreasWithoutLink = append(r.AreasWithoutLink, aid)
		}
	}
	for pid := range e.properties {
		if !referencedProps[pid] {
			r.PropertiesUnreferenced = append(r.PropertiesUnreferenced, pid)
		}
	}
	return r
}

// ExplainAt produces a multi-line, human-readable trace of a lookup at
// (x,y,z): visited BVH nodes, hits, the primary area chosen, its link, and
// its resolved property (spec §4.4).
func (e *Environment) ExplainAt(x, y, z float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "lookup at (%.3f, %.3f, %.3f)\n", x, y, z)

	hits, stats := Search(e.bvhRoot, x, y, z, SearchCoarse)
	fmt.Fprintf(&b, "  visited %d BVH node(s)\n", stats.VisitedNodes)
	if len(hits) == 0 {
		b.WriteString("  no area contains this point\n")
		return b.String()
	}
	fmt.Fprintf(&b, "  leaf hits: %v\n", hits)

	precise, _ := Search(e.bvhRoot, x, y, z, SearchPrecise)
	if len(precise) == 0 {
		b.WriteString("  no leaf member contains this point\n")
		return b.String()
	}
	primary := precise[0]
	fmt.Fprintf(&b, "  primary area: %s\n", primary)

	pid, ok := e.links[primary]
	if !ok {
		b.WriteString("  no link for this area\n")
		return b.String()
	}
	fmt.Fprintf(&b, "  linked property id: %s\n", pid)

	prop, ok := e.properties[pid]
	if !ok {
		b.WriteString("  link points to a missing property\n")
		return b.String()
	}
	fmt.Fprintf(&b, "  wind=%+v temperature=%.2f sea_level_atm=%.4f gps_strength=%.2f\n",
		prop.WindVelocity, prop.Temperature, prop.SeaLevelAtm, prop.GPSStrength)
	return b.String()
}

// DebugAt is an alias for ExplainAt kept for callers that want the shorter
// name spec §4.4 also lists.
func (e *Environment) DebugAt(x, y, z float64) string {
	return e.ExplainAt(x, y, z)
}
