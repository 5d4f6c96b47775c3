package regions

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrNotAreal is returned for GeoJSON geometries that are neither
// polygons nor multi-polygons.
var ErrNotAreal = errors.New("regions: geometry is not a polygon or multi-polygon")

// Region is a named area of interest. Regions are immutable inputs;
// the pipeline only ever reads them.
type Region struct {
	ID       string
	Geometry Geometry
}

// Geometry is an areal geometry held as its ordered polygon parts.
// A single-polygon geometry downloads as one rectangle; a multi-part
// geometry downloads per part and is mosaicked afterwards.
type Geometry struct {
	parts []orb.Polygon
}

// NewGeometry builds a Geometry from an orb polygon or multi-polygon.
func NewGeometry(g orb.Geometry) (Geometry, error) {
	switch geom := g.(type) {
	case orb.Polygon:
		return Geometry{parts: []orb.Polygon{geom}}, nil
	case orb.MultiPolygon:
		if len(geom) == 0 {
			return Geometry{}, fmt.Errorf("%w: empty multi-polygon", ErrNotAreal)
		}
		parts := make([]orb.Polygon, len(geom))
		copy(parts, geom)
		return Geometry{parts: parts}, nil
	default:
		return Geometry{}, fmt.Errorf("%w: %T", ErrNotAreal, g)
	}
}

// Parts returns the polygon parts in input order.
func (g Geometry) Parts() []orb.Polygon {
	return g.parts
}

// Multi reports whether the geometry has more than one part and
// therefore needs a merge step after download.
func (g Geometry) Multi() bool {
	return len(g.parts) > 1
}

// Bound returns the bounding box covering every part.
func (g Geometry) Bound() orb.Bound {
	b := g.parts[0].Bound()
	for _, p := range g.parts[1:] {
		b = b.Union(p.Bound())
	}
	return b
}

// Load reads a GeoJSON FeatureCollection from path and extracts one
// region per feature. idProperty names the feature property holding the
// unique region identifier.
func Load(path, idProperty string) ([]Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read regions file: %w", err)
	}
	return Parse(data, idProperty)
}

// Parse extracts regions from raw GeoJSON.
func Parse(data []byte, idProperty string) ([]Region, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse regions geojson: %w", err)
	}

	out := make([]Region, 0, len(fc.Features))
	seen := make(map[string]bool, len(fc.Features))
	for i, f := range fc.Features {
		raw, ok := f.Properties[idProperty]
		if !ok {
			return nil, fmt.Errorf("feature %d: missing property %q", i, idProperty)
		}
		id := fmt.Sprint(raw)
		if id == "" {
			return nil, fmt.Errorf("feature %d: empty value for property %q", i, idProperty)
		}
		if seen[id] {
			return nil, fmt.Errorf("feature %d: duplicate region id %q", i, id)
		}
		seen[id] = true

		geom, err := NewGeometry(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", id, err)
		}
		out = append(out, Region{ID: id, Geometry: geom})
	}
	return out, nil
}
