package envsim

import (
	"fmt"
	"sort"

	"github.com/ctessum/geom"
)

// CompileResult holds the three linked tables the compiler emits, ready to
// be written out (spec §6) or fed directly to NewEnvironment.
type CompileResult struct {
	Areas      []SpaceArea
	Properties map[PropertyId]AreaProperty
	Links      []Link
}

// compiler is a builder over a growing intermediate value: each stage fills
// in the next part of the same *compiler in place, mirroring the
// Python reference's CreatorBuilder fluent chain (spec §9) and InMAP's own
// builder-style VarGridConfig construction.
type compiler struct {
	scene *SceneDescriptor
	zones []*Zone

	baseWind  Vec3
	baseTempC float64
	basePAtm  float64
	baseGPS   float64

	nx, ny     int
	dx, dy, dz float64

	areas      []SpaceArea
	properties map[PropertyId]AreaProperty
	links      []Link
}

// Compile turns a declarative scene description into the areas, properties,
// and links tables (spec §4.1). Malformed input aborts with an
// *ErrMalformedScene or *ErrMalformedZone naming the offending field;
// integrity problems in the emitted tables are impossible by construction
// (every property/link the compiler emits is one it generates itself), so
// Compile never needs to return an integrity warning the way
// Environment.ValidateIntegrity does for hand-authored or merged tables.
func Compile(scene *SceneDescriptor) (*CompileResult, error) {
	if err := scene.Grid.validate(); err != nil {
		return nil, err
	}
	zones, err := scene.ResolveZones()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].Priority > zones[j].Priority
	})

	c := &compiler{scene: scene, zones: zones}
	if err := c.buildBase(); err != nil {
		return nil, err
	}
	c.buildGrid()
	c.buildProperties()
	if err := c.applyZones(); err != nil {
		return nil, err
	}
	c.buildLinks()

	return &CompileResult{
		Areas:      c.areas,
		Properties: c.properties,
		Links:      c.links,
	}, nil
}

func (c *compiler) buildBase() error {
	wind, err := c.scene.Base.Wind.resolve()
	if err != nil {
		return err
	}
	c.baseWind = wind
	c.baseTempC = 20.0
	if c.scene.Base.TemperatureC != nil {
		c.baseTempC = *c.scene.Base.TemperatureC
	}
	c.basePAtm = 1.0
	if c.scene.Base.PressureAtm != nil {
		c.basePAtm = *c.scene.Base.PressureAtm
	}
	c.baseGPS = DefaultGPSStrength
	if c.scene.Base.GPSStrength != nil {
		c.baseGPS = *c.scene.Base.GPSStrength
	}
	return nil
}

// buildGrid tiles the scene's extent into area cells (spec §4.1 step 2).
// Truncation at the far edge when extent isn't evenly divisible by cell
// size is deliberate, not a bug: floor(Ex/dx) is what spec §4.1 calls for.
func (c *compiler) buildGrid() {
	grid := c.scene.Grid
	ex, ey, ez := grid.ExtentM[0], grid.ExtentM[1], grid.ExtentM[2]
	dx, dy, dz := grid.CellM[0], grid.CellM[1], grid.CellM[2]
	c.dx, c.dy, c.dz = dx, dy, dz
	c.nx = int(ex / dx)
	c.ny = int(ey / dy)

	c.areas = make([]SpaceArea, 0, c.nx*c.ny)
	for iy := 0; iy < c.ny; iy++ {
		for ix := 0; ix < c.nx; ix++ {
			aid := AreaId(fmt.Sprintf("area_%d_%d", iy, ix))
			c.areas = append(c.areas, SpaceArea{
				AreaId: aid,
				Bounds: AABB{
					Min: Point3{X: float64(ix) * dx, Y: float64(iy) * dy, Z: 0},
					Max: Point3{X: float64(ix+1) * dx, Y: float64(iy+1) * dy, Z: ez},
					Id:  aid,
				},
			})
		}
	}
}

// buildProperties seeds each area with a copy of the base state under
// property id prop_{area_id} (spec §4.1 step 3).
func (c *compiler) buildProperties() {
	c.properties = make(map[PropertyId]AreaProperty, len(c.areas))
	for _, a := range c.areas {
		pid := PropertyId("prop_" + string(a.AreaId))
		c.properties[pid] = AreaProperty{
			PropertyId:   pid,
			WindVelocity: c.baseWind,
			Temperature:  float32(c.baseTempC),
			SeaLevelAtm:  float32(c.basePAtm),
			GPSStrength:  ClampGPS(float32(c.baseGPS)),
		}
	}
}

// applyZones walks every cell's center and, for every active zone in
// priority order whose shape contains that point, composes its wind and
// GPS effect onto the cell's property (spec §4.1 step 4).
func (c *compiler) applyZones() error {
	for _, a := range c.areas {
		pid := PropertyId("prop_" + string(a.AreaId))
		prop := c.properties[pid]

		cx, cy := a.Bounds.To2D().Center()
		center := Point3{X: cx, Y: cy, Z: 0}
		cellPoint := geom.NewBoundsPoint(geom.Point{X: cx, Y: cy})

		wind := prop.WindVelocity
		gps := prop.GPSStrength
		for _, z := range c.zones {
			if !z.IsActive() {
				continue
			}
			if !z.Shape.boundingBox().Overlaps(cellPoint) {
				continue
			}
			if !z.Shape.Contains(cx, cy) {
				continue
			}
			wind = z.Apply(wind, center)
			gps = z.ApplyGPS(gps)
		}
		prop.WindVelocity = wind
		prop.GPSStrength = ClampGPS(gps)
		c.properties[pid] = prop
	}
	return nil
}

// buildLinks emits one link per area (spec §4.1 step 5).
func (c *compiler) buildLinks() {
	c.links = make([]Link, 0, len(c.areas))
	for _, a := range c.areas {
		c.links = append(c.links, Link{
			AreaId:     a.AreaId,
			PropertyId: PropertyId("prop_" + string(a.AreaId)),
		})
	}
}
