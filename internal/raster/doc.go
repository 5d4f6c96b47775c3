// Package raster mosaics downloaded part rasters into one artifact.
//
// The pipeline only opens, merges and deletes rasters; pixel handling
// is delegated to GDAL through godal. Merging builds a virtual mosaic
// over the parts and materializes it as a GeoTIFF whose extent is the
// union of the part extents and whose metadata comes from the first
// part. On overlap the last-listed part wins, the VRT default.
//
// Merge sits behind the [Merger] interface so pipeline tests run
// without a GDAL installation.
package raster
