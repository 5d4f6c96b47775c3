// Package regions loads the areas of interest the pipeline downloads
// rasters for.
//
// A region is a caller-supplied identifier plus an areal geometry.
// Geometry is a tagged variant over polygon parts: single-polygon
// regions download in one piece, multi-polygon regions download each
// part separately and mosaic the results. Consumers branch on
// Geometry.Multi instead of inspecting runtime geometry types.
//
// Regions are loaded from a GeoJSON FeatureCollection; the identifier
// comes from a named feature property.
package regions
