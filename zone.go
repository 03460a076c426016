package envsim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/stat/distuv"
)

// ShapeKind tags which variant a Shape holds.
type ShapeKind int

const (
	// ShapeCircle is a 2D disc in the XY plane.
	ShapeCircle ShapeKind = iota
	// ShapeRect is a 2D axis-aligned rectangle in the XY plane.
	ShapeRect
)

// Shape is a tagged union over a zone's footprint. Zone shapes are 2D-only
// by design: the compiler samples zones at a cell's XY center with z=0
// (spec §9), so a 3D shape predicate would never be evaluated off that
// plane.
type Shape struct {
	Kind ShapeKind

	// Circle fields.
	CenterX, CenterY float64
	Radius           float64

	// Rect fields.
	SizeX, SizeY float64
}

// boundingBox returns the shape's enclosing rectangle, used as a cheap
// broad-phase reject before the precise Contains test (the same
// enlarge-then-test idiom InMAP's vendored rtree index applies before its
// exact containsPoint check).
func (s Shape) boundingBox() *geom.Bounds {
	switch s.Kind {
	case ShapeCircle:
		return &geom.Bounds{
			Min: geom.Point{X: s.CenterX - s.Radius, Y: s.CenterY - s.Radius},
			Max: geom.Point{X: s.CenterX + s.Radius, Y: s.CenterY + s.Radius},
		}
	case ShapeRect:
		return &geom.Bounds{
			Min: geom.Point{X: s.CenterX - s.SizeX/2, Y: s.CenterY - s.SizeY/2},
			Max: geom.Point{X: s.CenterX + s.SizeX/2, Y: s.CenterY + s.SizeY/2},
		}
	default:
		return geom.NewBounds()
	}
}

// Contains reports whether (x,y) falls inside the shape.
func (s Shape) Contains(x, y float64) bool {
	switch s.Kind {
	case ShapeCircle:
		dx, dy := x-s.CenterX, y-s.CenterY
		return dx*dx+dy*dy <= s.Radius*s.Radius
	case ShapeRect:
		return math.Abs(x-s.CenterX) <= s.SizeX/2 && math.Abs(y-s.CenterY) <= s.SizeY/2
	default:
		return false
	}
}

// EffectMode tags which wind-effect variant an Effect holds.
type EffectMode int

const (
	EffectAbsolute EffectMode = iota
	EffectScale
	EffectAdd
	EffectVortex
	EffectTurbulence
)

// DecayMode is the Vortex effect's radial falloff.
type DecayMode int

const (
	DecayNone DecayMode = iota
	DecayGaussian
)

// TurbulenceType selects the Turbulence effect's sampling distribution.
type TurbulenceType int

const (
	TurbulenceGauss TurbulenceType = iota
	TurbulencePerlin
	TurbulenceOU
)

// ouTheta is the Ornstein-Uhlenbeck mean-reversion rate used by the "ou"
// turbulence mode, matched to the reference implementation's hardcoded 0.15.
const ouTheta = 0.15

// Effect is a tagged union over a zone's wind modifier, plus the optional
// GPS modifiers that may ride along with any wind effect.
type Effect struct {
	Mode EffectMode

	// Absolute
	WindMs Vec3
	// Scale
	Factor float64
	// Add
	DeltaMs Vec3
	// Vortex
	VortexCenterX, VortexCenterY float64
	Gain                         float64
	Decay                        DecayMode
	Sigma                        float64
	RMin                         float64
	Clockwise                    bool
	MaxMs                        *float64

	// Turbulence
	TurbulenceKind TurbulenceType
	StdMs          float64
	Seed           *int64

	// GPS modifiers, applied after the wind/temperature modifier in the
	// order abs -> add -> scale, independent of Mode.
	GPSAbs   *float64
	GPSAdd   *float64
	GPSScale *float64
}

// Zone is a shape+effect rule evaluated once per grid cell at compile time.
type Zone struct {
	Name     string
	Shape    Shape
	Effect   Effect
	Priority int32
	Active   *bool

	// rng is the zone's private seeded source, used only by Turbulence
	// effects. It is nil for zones with no stochastic component, and is
	// constructed once per zone so repeated Apply calls against the same
	// zone (e.g. across every cell it covers) draw from one reproducible
	// stream, matching the Python reference's per-zone random.seed() call.
	rng *rand.Rand
}

// IsActive reports whether z should be evaluated at all. A nil Active means
// "always active".
func (z *Zone) IsActive() bool {
	return z.Active == nil || *z.Active
}

// ensureRNG lazily creates the zone's turbulence RNG, seeding it from
// Effect.Seed when present for reproducible compiles, and from a
// time-independent default otherwise so that two zones without an explicit
// seed don't silently share state.
func (z *Zone) ensureRNG() *rand.Rand {
	if z.rng == nil {
		var seed int64 = 1
		if z.Effect.Seed != nil {
			seed = *z.Effect.Seed
		}
		z.rng = rand.New(rand.NewSource(seed))
	}
	return z.rng
}

// Apply evaluates the zone's wind effect at pos against the current wind
// vector w, per spec §4.1.
func (z *Zone) Apply(w Vec3, pos Point3) Vec3 {
	switch z.Effect.Mode {
	case EffectAbsolute:
		return z.Effect.WindMs
	case EffectScale:
		return w.Scale(z.Effect.Factor)
	case EffectAdd:
		return w.Add(z.Effect.DeltaMs)
	case EffectVortex:
		return z.applyVortex(w, pos)
	case EffectTurbulence:
		return z.applyTurbulence(w)
	default:
		return w
	}
}

func (z *Zone) applyVortex(w Vec3, pos Point3) Vec3 {
	e := z.Effect
	dx, dy := pos.X-e.VortexCenterX, pos.Y-e.VortexCenterY
	r := math.Sqrt(dx*dx + dy*dy)
	if r < e.RMin {
		return w
	}

	gain := e.Gain / r
	if e.Decay == DecayGaussian {
		gain *= math.Exp(-(r * r) / (2 * e.Sigma * e.Sigma))
	}

	var tx, ty float64
	if e.Clockwise {
		tx, ty = -dy/r, dx/r
	} else {
		tx, ty = dy/r, -dx/r
	}

	tangent := Vec3{X: gain * tx, Y: gain * ty, Z: 0}
	if e.MaxMs != nil {
		if n := tangent.Norm(); n > *e.MaxMs {
			tangent = tangent.Scale(*e.MaxMs / n)
		}
	}
	return w.Add(tangent)
}

func (z *Zone) applyTurbulence(w Vec3) Vec3 {
	rng := z.ensureRNG()
	std := z.Effect.StdMs
	normal := distuv.Normal{Mu: 0, Sigma: std, Src: rng}

	draw3 := func() Vec3 {
		return Vec3{X: normal.Rand(), Y: normal.Rand(), Z: normal.Rand()}
	}

	switch z.Effect.TurbulenceKind {
	case TurbulenceGauss:
		return w.Add(draw3())
	case TurbulencePerlin:
		// Deliberately a scaled Gaussian, not true Perlin noise: the
		// reference implementation never plugged in a real Perlin
		// generator, and spec §9 preserves that behavior rather than
		// guessing at the intended replacement.
		return w.Add(draw3().Scale(0.5))
	case TurbulenceOU:
		noise := draw3()
		return w.Add(w.Scale(-ouTheta).Add(noise))
	default:
		return w
	}
}

// ApplyGPS composes the zone's GPS modifiers onto base in the fixed order
// abs -> add -> scale, then clamps to [0,1].
func (z *Zone) ApplyGPS(base float32) float32 {
	g := float64(base)
	e := z.Effect
	if e.GPSAbs != nil {
		g = *e.GPSAbs
	}
	if e.GPSAdd != nil {
		g += *e.GPSAdd
	}
	if e.GPSScale != nil {
		g *= *e.GPSScale
	}
	return ClampGPS(float32(g))
}

// ErrMalformedZone reports an unrecognized shape or effect variant, a fatal
// compile-time error per spec §4.1/§7.
type ErrMalformedZone struct {
	Zone  string
	Field string
	Value string
}

func (e *ErrMalformedZone) Error() string {
	return fmt.Sprintf("zone %q: malformed %s: %q", e.Zone, e.Field, e.Value)
}
