// Package pipeline orchestrates raster acquisition runs.
//
// A run enumerates one independent task per (region, time window)
// pair, submits every task to a fixed-size worker pool, and waits for
// all of them. Tasks share no mutable state; each one builds its image
// expressions, downloads the region's rectangles, mosaics multi-part
// geometries and deletes the part intermediates. Per-task failures are
// logged and counted but never cancel sibling tasks; only
// configuration errors (an unsupported frequency mode) surface from
// Run, before any task is scheduled.
package pipeline
