// Package envsim implements the environment model compiler, the spatial
// index, and the per-tick disturbance lookup for the drone co-simulation's
// environmental disturbance server.
package envsim

import "math"

// AreaId is an opaque, scene-unique identifier for a SpaceArea.
type AreaId string

// PropertyId is an opaque, scene-unique identifier for an AreaProperty.
type PropertyId string

// Point3 is a point in world space, in meters.
type Point3 struct {
	X, Y, Z float64
}

// Vec3 is a 3D vector, most often a wind velocity in m/s.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v*f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// AABB2D is a 2D axis-aligned rectangle in the XY plane, used by zone
// shapes and by the 2D projection of a SpaceArea's bounds.
type AABB2D struct {
	XMin, YMin, XMax, YMax float64
}

// Center returns the rectangle's center point.
func (b AABB2D) Center() (float64, float64) {
	return (b.XMin + b.XMax) / 2, (b.YMin + b.YMax) / 2
}

// AABB is an axis-aligned bounding box in 3D, tagged with the AreaId of the
// SpaceArea it bounds. Inclusion is half-open on every axis: a point p is
// "in" b iff Min.K <= p.K < Max.K for K in {X,Y,Z}. This is the single
// closure convention used throughout this package (BVH descent, leaf
// confirmation, and grid-coverage checks all agree on it), chosen per spec
// to eliminate double-hits on shared grid-cell edges. Callers probing the
// extreme max face of the outermost area should widen their query by an
// epsilon or accept a miss.
type AABB struct {
	Min, Max Point3
	Id       AreaId
}

// Contains reports whether p falls within b under the half-open convention.
func (b AABB) Contains(p Point3) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y &&
		p.Z >= b.Min.Z && p.Z < b.Max.Z
}

// Center returns the box's center point.
func (b AABB) Center() Point3 {
	return Point3{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// To2D projects b onto the XY plane.
func (b AABB) To2D() AABB2D {
	return AABB2D{XMin: b.Min.X, YMin: b.Min.Y, XMax: b.Max.X, YMax: b.Max.Y}
}

// Union returns the smallest AABB containing both a and b. The result's Id
// is cleared: unions are only ever formed for inner/leaf node bounds, which
// have no area identity of their own.
func Union(a, b AABB) AABB {
	return AABB{
		Min: Point3{
			X: math.Min(a.Min.X, b.Min.X),
			Y: math.Min(a.Min.Y, b.Min.Y),
			Z: math.Min(a.Min.Z, b.Min.Z),
		},
		Max: Point3{
			X: math.Max(a.Max.X, b.Max.X),
			Y: math.Max(a.Max.Y, b.Max.Y),
			Z: math.Max(a.Max.Z, b.Max.Z),
		},
	}
}

// SpaceArea is one cell of the environment grid, the atomic spatial unit.
type SpaceArea struct {
	AreaId AreaId `json:"area_id"`
	Bounds AABB   `json:"-"`
}

// AreaProperty holds the environmental parameters applied within an area.
type AreaProperty struct {
	PropertyId   PropertyId `json:"-"`
	WindVelocity Vec3       `json:"-"`
	Temperature  float32    `json:"temperature"`
	SeaLevelAtm  float32    `json:"sea_level_atm"`
	// GPSStrength is in [0,1] and defaults to 1.0 when a scene or property
	// file omits it.
	GPSStrength float32 `json:"-"`
}

// DefaultGPSStrength is used when a property file omits gps_strength.
const DefaultGPSStrength = 1.0

// Link is a many-to-one mapping from an area to the property applied
// within it.
type Link struct {
	AreaId     AreaId     `json:"area_id"`
	PropertyId PropertyId `json:"area_property_id"`
}

// ClampGPS clamps g into [0,1], the invariant every AreaProperty.GPSStrength
// must satisfy on output from the compiler.
func ClampGPS(g float32) float32 {
	if g < 0 {
		return 0
	}
	if g > 1 {
		return 1
	}
	return g
}
