package raster

import "github.com/paulmach/orb"

// Extent is an axis-aligned bounding rectangle in the artifact CRS.
type Extent struct {
	MinX, MinY, MaxX, MaxY float64
}

// FromBound converts an orb bounding box.
func FromBound(b orb.Bound) Extent {
	return Extent{MinX: b.Min[0], MinY: b.Min[1], MaxX: b.Max[0], MaxY: b.Max[1]}
}

// Union returns the smallest extent covering every input. The zero
// Extent is returned for no inputs.
func Union(extents []Extent) Extent {
	if len(extents) == 0 {
		return Extent{}
	}
	out := extents[0]
	for _, e := range extents[1:] {
		if e.MinX < out.MinX {
			out.MinX = e.MinX
		}
		if e.MinY < out.MinY {
			out.MinY = e.MinY
		}
		if e.MaxX > out.MaxX {
			out.MaxX = e.MaxX
		}
		if e.MaxY > out.MaxY {
			out.MaxY = e.MaxY
		}
	}
	return out
}

// Contains reports whether e fully covers other.
func (e Extent) Contains(other Extent) bool {
	return other.MinX >= e.MinX && other.MinY >= e.MinY &&
		other.MaxX <= e.MaxX && other.MaxY <= e.MaxY
}
