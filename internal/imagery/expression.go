package imagery

import (
	"strings"
	"time"
)

// expr is the wire form of an image expression. The service evaluates
// the tree server-side when a download URL is requested.
type expr struct {
	Op         string `json:"op"`
	Collection string `json:"collection,omitempty"`
	Image      string `json:"image,omitempty"`
	Band       string `json:"band,omitempty"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
	CRS        string `json:"crs,omitempty"`
	Scale      int    `json:"scale,omitempty"`
	Sources    []expr `json:"sources,omitempty"`
}

// Collection is a band selection over a named image collection,
// optionally narrowed to a date range.
type Collection struct {
	id    string
	band  string
	start string
	end   string
}

// NewCollection selects one band of a named collection.
func NewCollection(id, band string) Collection {
	return Collection{id: id, band: band}
}

// FilterDate narrows the collection to [start, end] inclusive.
func (c Collection) FilterDate(start, end time.Time) Collection {
	c.start = start.Format("2006-01-02")
	c.end = end.Format("2006-01-02")
	return c
}

// Composite collapses the filtered time-series into a single image.
func (c Collection) Composite() Image {
	return Image{expr: expr{
		Op:         "composite",
		Collection: c.id,
		Band:       c.band,
		Start:      c.start,
		End:        c.end,
	}}
}

// ID returns the collection identifier.
func (c Collection) ID() string { return c.id }

// Band returns the selected band.
func (c Collection) Band() string { return c.band }

// Image is a resolvable image expression.
type Image struct {
	expr expr
}

// FromImage references a single named image, bypassing collections and
// date filtering.
func FromImage(id, band string) Image {
	return Image{expr: expr{Op: "image", Image: id, Band: band}}
}

// Mosaic combines several images into one composite. Later sources take
// precedence on overlap.
func Mosaic(images ...Image) Image {
	sources := make([]expr, len(images))
	for i, img := range images {
		sources[i] = img.expr
	}
	return Image{expr: expr{Op: "mosaic", Sources: sources}}
}

// Reproject requests the image in the given coordinate system at the
// given resolution in meters.
func (i Image) Reproject(crs string, scale int) Image {
	return Image{expr: expr{Op: "reproject", CRS: crs, Scale: scale, Sources: []expr{i.expr}}}
}

// CollectionLeaf returns the last path segment of a collection or image
// identifier, the piece used in artifact filenames.
func CollectionLeaf(id string) string {
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		return id[idx+1:]
	}
	return id
}
