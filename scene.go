package envsim

import (
	"math"

	jsoniter "github.com/json-iterator/go"
)

var sceneJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// sceneBaseWind is the compiler input's base wind, given either as a
// vector or as a direction+speed pair (spec §4.1 step 1).
type sceneBaseWind struct {
	VectorMs *[3]float64 `json:"vector_ms,omitempty"`
	DirDeg   *float64    `json:"dir_deg,omitempty"`
	SpeedMs  *float64    `json:"speed_ms,omitempty"`
}

func (w sceneBaseWind) resolve() (Vec3, error) {
	if w.VectorMs != nil {
		v := *w.VectorMs
		return Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
	}
	if w.DirDeg != nil && w.SpeedMs != nil {
		rad := *w.DirDeg * math.Pi / 180
		return Vec3{
			X: *w.SpeedMs * math.Cos(rad),
			Y: *w.SpeedMs * math.Sin(rad),
			Z: 0,
		}, nil
	}
	return Vec3{}, &ErrMalformedScene{Field: "base.wind", Reason: "must specify either vector_ms or (dir_deg, speed_ms)"}
}

type sceneBase struct {
	Wind        sceneBaseWind `json:"wind"`
	TemperatureC *float64     `json:"temperature_C,omitempty"`
	PressureAtm  *float64     `json:"pressure_atm,omitempty"`
	GPSStrength  *float64     `json:"gps_strength,omitempty"`
}

type sceneGrid struct {
	ExtentM [3]float64 `json:"extent_m"`
	CellM   [3]float64 `json:"cell_m"`
}

func (g sceneGrid) validate() error {
	for i, v := range g.ExtentM {
		if v < 0 {
			return &ErrMalformedScene{Field: "grid.extent_m", Reason: "extent must be non-negative"}
		}
		if g.CellM[i] <= 0 {
			return &ErrMalformedScene{Field: "grid.cell_m", Reason: "cell size must be positive"}
		}
	}
	return nil
}

type sceneShapeJSON struct {
	Circle *struct {
		CenterM [2]float64 `json:"center_m"`
		RadiusM float64    `json:"radius_m"`
	} `json:"circle,omitempty"`
	Rect *struct {
		CenterM [2]float64 `json:"center_m"`
		SizeM   [2]float64 `json:"size_m"`
	} `json:"rect,omitempty"`
}

func (s sceneShapeJSON) resolve(zoneName string) (Shape, error) {
	switch {
	case s.Circle != nil:
		return Shape{
			Kind:    ShapeCircle,
			CenterX: s.Circle.CenterM[0],
			CenterY: s.Circle.CenterM[1],
			Radius:  s.Circle.RadiusM,
		}, nil
	case s.Rect != nil:
		return Shape{
			Kind:    ShapeRect,
			CenterX: s.Rect.CenterM[0],
			CenterY: s.Rect.CenterM[1],
			SizeX:   s.Rect.SizeM[0],
			SizeY:   s.Rect.SizeM[1],
		}, nil
	default:
		return Shape{}, &ErrMalformedZone{Zone: zoneName, Field: "shape", Value: "none of circle/rect set"}
	}
}

type sceneEffectJSON struct {
	Mode    string      `json:"mode"`
	WindMs  *[3]float64 `json:"wind_ms,omitempty"`
	Scale   *float64    `json:"scale,omitempty"`
	AddMs   *[3]float64 `json:"add_ms,omitempty"`
	Vortex  *struct {
		CenterM   [2]float64 `json:"center_m"`
		Gain      float64    `json:"gain"`
		Decay     string     `json:"decay,omitempty"`
		SigmaM    float64    `json:"sigma_m,omitempty"`
		RMinM     float64    `json:"r_min_m,omitempty"`
		Clockwise *bool      `json:"clockwise,omitempty"`
		MaxMs     *float64   `json:"max_ms,omitempty"`
	} `json:"vortex,omitempty"`
	Turbulence *struct {
		Type  string  `json:"type"`
		StdMs float64 `json:"std_ms"`
		Seed  *int64  `json:"seed,omitempty"`
	} `json:"turbulence,omitempty"`

	GPSAbs   *float64 `json:"gps_abs,omitempty"`
	GPSAdd   *float64 `json:"gps_add,omitempty"`
	GPSScale *float64 `json:"gps_scale,omitempty"`
}

func (e sceneEffectJSON) resolve(zoneName string) (Effect, error) {
	eff := Effect{
		GPSAbs:   e.GPSAbs,
		GPSAdd:   e.GPSAdd,
		GPSScale: e.GPSScale,
	}

	switch e.Mode {
	case "absolute":
		if e.WindMs == nil {
			return eff, &ErrMalformedZone{Zone: zoneName, Field: "effect.wind_ms", Value: "missing"}
		}
		eff.Mode = EffectAbsolute
		eff.WindMs = Vec3{X: e.WindMs[0], Y: e.WindMs[1], Z: e.WindMs[2]}
	case "scale":
		if e.Scale == nil {
			return eff, &ErrMalformedZone{Zone: zoneName, Field: "effect.scale", Value: "missing"}
		}
		eff.Mode = EffectScale
		eff.Factor = *e.Scale
	case "add":
		if e.AddMs == nil {
			return eff, &ErrMalformedZone{Zone: zoneName, Field: "effect.add_ms", Value: "missing"}
		}
		eff.Mode = EffectAdd
		eff.DeltaMs = Vec3{X: e.AddMs[0], Y: e.AddMs[1], Z: e.AddMs[2]}
	case "vortex":
		if e.Vortex == nil {
			return eff, &ErrMalformedZone{Zone: zoneName, Field: "effect.vortex", Value: "missing"}
		}
		eff.Mode = EffectVortex
		v := e.Vortex
		eff.VortexCenterX, eff.VortexCenterY = v.CenterM[0], v.CenterM[1]
		eff.Gain = v.Gain
		eff.Sigma = v.SigmaM
		if eff.Sigma == 0 {
			eff.Sigma = 10.0
		}
		eff.RMin = v.RMinM
		if eff.RMin == 0 {
			eff.RMin = 0.1
		}
		eff.Clockwise = true
		if v.Clockwise != nil {
			eff.Clockwise = *v.Clockwise
		}
		eff.MaxMs = v.MaxMs
		switch v.Decay {
		case "", "none":
			eff.Decay = DecayNone
		case "gaussian":
			eff.Decay = DecayGaussian
		default:
			return eff, &ErrMalformedZone{Zone: zoneName, Field: "effect.vortex.decay", Value: v.Decay}
		}
	case "turbulence":
		if e.Turbulence == nil {
			return eff, &ErrMalformedZone{Zone: zoneName, Field: "effect.turbulence", Value: "missing"}
		}
		eff.Mode = EffectTurbulence
		t := e.Turbulence
		eff.StdMs = t.StdMs
		eff.Seed = t.Seed
		switch t.Type {
		case "gauss":
			eff.TurbulenceKind = TurbulenceGauss
		case "perlin":
			eff.TurbulenceKind = TurbulencePerlin
		case "ou":
			eff.TurbulenceKind = TurbulenceOU
		default:
			return eff, &ErrMalformedZone{Zone: zoneName, Field: "effect.turbulence.type", Value: t.Type}
		}
	default:
		return eff, &ErrMalformedZone{Zone: zoneName, Field: "effect.mode", Value: e.Mode}
	}
	return eff, nil
}

type sceneZoneJSON struct {
	Name     string          `json:"name"`
	Shape    sceneShapeJSON  `json:"shape"`
	Effect   sceneEffectJSON `json:"effect"`
	Priority int32           `json:"priority"`
	Active   *bool           `json:"active,omitempty"`
}

func (z sceneZoneJSON) resolve() (*Zone, error) {
	shape, err := z.Shape.resolve(z.Name)
	if err != nil {
		return nil, err
	}
	effect, err := z.Effect.resolve(z.Name)
	if err != nil {
		return nil, err
	}
	return &Zone{
		Name:     z.Name,
		Shape:    shape,
		Effect:   effect,
		Priority: z.Priority,
		Active:   z.Active,
	}, nil
}

// SceneDescriptor is the compiler's input: a base atmospheric state, a
// regular voxel grid, and a priority-ordered list of zones (spec §4.1,
// §6).
type SceneDescriptor struct {
	Base  sceneBase       `json:"base"`
	Grid  sceneGrid       `json:"grid"`
	Zones []sceneZoneJSON `json:"zones"`
}

// ParseScene decodes a scene descriptor from JSON bytes.
func ParseScene(data []byte) (*SceneDescriptor, error) {
	var s SceneDescriptor
	if err := sceneJSON.Unmarshal(data, &s); err != nil {
		return nil, &ErrMalformedScene{Field: "(root)", Reason: err.Error()}
	}
	return &s, nil
}

// ResolveZones decodes the descriptor's raw zone JSON into evaluable Zone
// values. Resolution failures name the offending zone and field. Callers
// needing priority order should sort the result with sort.SliceStable and
// a descending Priority comparator (spec §4.1 step 4); Compile does this
// internally.
func (s *SceneDescriptor) ResolveZones() ([]*Zone, error) {
	zones := make([]*Zone, 0, len(s.Zones))
	for _, zj := range s.Zones {
		z, err := zj.resolve()
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}
