package envsim

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
)

var tableJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// --- on-disk JSON shapes (spec §6) -----------------------------------

type point3JSONFields struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type boundsJSON struct {
	Min point3JSONFields `json:"min"`
	Max point3JSONFields `json:"max"`
}

type spaceAreaJSON struct {
	AreaId AreaId     `json:"area_id"`
	Bounds boundsJSON `json:"bounds"`
}

type spaceAreasFile struct {
	SpaceAreas []spaceAreaJSON `json:"space_areas"`
}

type areaPropertyPropsJSON struct {
	WindVelocity [3]float64 `json:"wind_velocity"`
	Temperature  float64    `json:"temperature"`
	SeaLevelAtm  float64    `json:"sea_level_atm"`
	GPSStrength  *float64   `json:"gps_strength,omitempty"`
}

type areaPropertyJSON struct {
	Id         PropertyId            `json:"id"`
	Properties areaPropertyPropsJSON `json:"properties"`
}

type areaPropertiesFile struct {
	AreaProperties []areaPropertyJSON `json:"area_properties"`
}

type linkJSON struct {
	AreaId     AreaId     `json:"area_id"`
	PropertyId PropertyId `json:"area_property_id"`
}

type linksFile struct {
	Links []linkJSON `json:"links"`
}

// --- encode ------------------------------------------------------------

func encodeSpaceAreas(areas []SpaceArea) spaceAreasFile {
	out := spaceAreasFile{SpaceAreas: make([]spaceAreaJSON, 0, len(areas))}
	for _, a := range areas {
		out.SpaceAreas = append(out.SpaceAreas, spaceAreaJSON{
			AreaId: a.AreaId,
			Bounds: boundsJSON{
				Min: point3JSONFields{X: a.Bounds.Min.X, Y: a.Bounds.Min.Y, Z: a.Bounds.Min.Z},
				Max: point3JSONFields{X: a.Bounds.Max.X, Y: a.Bounds.Max.Y, Z: a.Bounds.Max.Z},
			},
		})
	}
	return out
}

func encodeAreaProperties(props map[PropertyId]AreaProperty) areaPropertiesFile {
	out := areaPropertiesFile{AreaProperties: make([]areaPropertyJSON, 0, len(props))}
	for id, p := range props {
		gps := float64(p.GPSStrength)
		out.AreaProperties = append(out.AreaProperties, areaPropertyJSON{
			Id: id,
			Properties: areaPropertyPropsJSON{
				WindVelocity: [3]float64{p.WindVelocity.X, p.WindVelocity.Y, p.WindVelocity.Z},
				Temperature:  float64(p.Temperature),
				SeaLevelAtm:  float64(p.SeaLevelAtm),
				GPSStrength:  &gps,
			},
		})
	}
	return out
}

func encodeLinks(links []Link) linksFile {
	out := linksFile{Links: make([]linkJSON, 0, len(links))}
	for _, l := range links {
		out.Links = append(out.Links, linkJSON{AreaId: l.AreaId, PropertyId: l.PropertyId})
	}
	return out
}

// WriteTables marshals a CompileResult to the three on-disk JSON files
// under dir: area.json, property.json, link.json (spec §6).
func WriteTables(fs afero.Fs, dir string, result *CompileResult) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	writers := []struct {
		name string
		v    interface{}
	}{
		{"area.json", encodeSpaceAreas(result.Areas)},
		{"property.json", encodeAreaProperties(result.Properties)},
		{"link.json", encodeLinks(result.Links)},
	}
	for _, w := range writers {
		b, err := tableJSON.MarshalIndent(w.v, "", "  ")
		if err != nil {
			return err
		}
		if err := afero.WriteFile(fs, dir+"/"+w.name, b, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// --- decode / load -------------------------------------------------------

func findFile(fs afero.Fs, dir string, names ...string) (string, []string, error) {
	tried := make([]string, 0, len(names))
	for _, n := range names {
		p := dir + "/" + n
		tried = append(tried, n)
		if ok, _ := afero.Exists(fs, p); ok {
			return p, tried, nil
		}
	}
	return "", tried, nil
}

// ResolveEnvFiles locates the area/link/property files under dir, accepting
// either of the two spellings the loader historically tolerated for link
// and property files (spec §7 MissingEnvFile, SPEC_FULL.md Supplemented
// Features item 4).
func ResolveEnvFiles(fs afero.Fs, dir string) (areaPath, linkPath, propPath string, err error) {
	areaPath, tried, _ := findFile(fs, dir, "area.json")
	if areaPath == "" {
		return "", "", "", &ErrMissingEnvFile{Kind: "area", Tried: tried, Reason: "not found"}
	}
	linkPath, tried, _ = findFile(fs, dir, "link.json", "area_link.json")
	if linkPath == "" {
		return "", "", "", &ErrMissingEnvFile{Kind: "link", Tried: tried, Reason: "not found"}
	}
	propPath, tried, _ = findFile(fs, dir, "property.json", "area_property.json")
	if propPath == "" {
		return "", "", "", &ErrMissingEnvFile{Kind: "property", Tried: tried, Reason: "not found"}
	}
	return areaPath, linkPath, propPath, nil
}

// LoadSpaceAreas decodes an area.json-shaped file.
func LoadSpaceAreas(fs afero.Fs, path string) ([]SpaceArea, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	var f spaceAreasFile
	if err := tableJSON.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	out := make([]SpaceArea, 0, len(f.SpaceAreas))
	for _, a := range f.SpaceAreas {
		bounds := AABB{
			Min: Point3{X: a.Bounds.Min.X, Y: a.Bounds.Min.Y, Z: a.Bounds.Min.Z},
			Max: Point3{X: a.Bounds.Max.X, Y: a.Bounds.Max.Y, Z: a.Bounds.Max.Z},
			Id:  a.AreaId,
		}
		out = append(out, SpaceArea{AreaId: a.AreaId, Bounds: bounds})
	}
	return out, nil
}

// LoadAreaProperties decodes a property.json-shaped file.
func LoadAreaProperties(fs afero.Fs, path string) (map[PropertyId]AreaProperty, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	var f areaPropertiesFile
	if err := tableJSON.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	out := make(map[PropertyId]AreaProperty, len(f.AreaProperties))
	for _, p := range f.AreaProperties {
		gps := DefaultGPSStrength
		if p.Properties.GPSStrength != nil {
			gps = *p.Properties.GPSStrength
		}
		out[p.Id] = AreaProperty{
			PropertyId:   p.Id,
			WindVelocity: Vec3{X: p.Properties.WindVelocity[0], Y: p.Properties.WindVelocity[1], Z: p.Properties.WindVelocity[2]},
			Temperature:  float32(p.Properties.Temperature),
			SeaLevelAtm:  float32(p.Properties.SeaLevelAtm),
			GPSStrength:  ClampGPS(float32(gps)),
		}
	}
	return out, nil
}

// LoadLinks decodes a link.json-shaped file.
func LoadLinks(fs afero.Fs, path string) ([]Link, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	var f linksFile
	if err := tableJSON.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	out := make([]Link, 0, len(f.Links))
	for _, l := range f.Links {
		out = append(out, Link{AreaId: l.AreaId, PropertyId: l.PropertyId})
	}
	return out, nil
}
