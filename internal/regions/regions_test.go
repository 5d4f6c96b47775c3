package regions

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"iso": "ES", "name": "Spain"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[0, 0], [4, 0], [4, 4], [0, 4], [0, 0]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"iso": "PT", "name": "Portugal"},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [
          [[[ -9, 37], [-7, 37], [-7, 42], [-9, 42], [-9, 37]]],
          [[[-17.3, 32.6], [-16.6, 32.6], [-16.6, 33.1], [-17.3, 33.1], [-17.3, 32.6]]]
        ]
      }
    }
  ]
}`

func TestParse(t *testing.T) {
	regions, err := Parse([]byte(sampleGeoJSON), "iso")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}

	es := regions[0]
	if es.ID != "ES" {
		t.Errorf("expected id ES, got %s", es.ID)
	}
	if es.Geometry.Multi() {
		t.Error("expected ES to be single-part")
	}
	if got := len(es.Geometry.Parts()); got != 1 {
		t.Errorf("expected 1 part, got %d", got)
	}

	pt := regions[1]
	if !pt.Geometry.Multi() {
		t.Error("expected PT to be multi-part")
	}
	if got := len(pt.Geometry.Parts()); got != 2 {
		t.Errorf("expected 2 parts, got %d", got)
	}
}

func TestParseMissingProperty(t *testing.T) {
	_, err := Parse([]byte(sampleGeoJSON), "nuts_id")
	if err == nil {
		t.Fatal("expected error for missing id property")
	}
}

func TestParseDuplicateID(t *testing.T) {
	dup := `{
	  "type": "FeatureCollection",
	  "features": [
	    {"type": "Feature", "properties": {"iso": "ES"},
	     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}},
	    {"type": "Feature", "properties": {"iso": "ES"},
	     "geometry": {"type": "Polygon", "coordinates": [[[2,2],[3,2],[3,3],[2,3],[2,2]]]}}
	  ]
	}`
	_, err := Parse([]byte(dup), "iso")
	if err == nil {
		t.Fatal("expected error for duplicate region id")
	}
}

func TestNewGeometryRejectsNonAreal(t *testing.T) {
	_, err := NewGeometry(orb.Point{1, 2})
	if !errors.Is(err, ErrNotAreal) {
		t.Errorf("expected ErrNotAreal, got %v", err)
	}

	_, err = NewGeometry(orb.MultiPolygon{})
	if !errors.Is(err, ErrNotAreal) {
		t.Errorf("expected ErrNotAreal for empty multi-polygon, got %v", err)
	}
}

func TestGeometryBound(t *testing.T) {
	regions, err := Parse([]byte(sampleGeoJSON), "iso")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	b := regions[1].Geometry.Bound()
	if b.Min[0] != -17.3 || b.Max[0] != -7 {
		t.Errorf("unexpected x bound: %v", b)
	}
	if b.Min[1] != 32.6 || b.Max[1] != 42 {
		t.Errorf("unexpected y bound: %v", b)
	}
}
