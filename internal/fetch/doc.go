// Package fetch downloads one rectangular raster at a time.
//
// A download is the unit the retry budget applies to: resolving the
// download URL and streaming the payload into the store count as a
// single attempt, retried up to five times with a linearly increasing
// delay. If the artifact already exists under its deterministic key the
// download is skipped without any network traffic; the key on disk is
// the pipeline's only idempotence marker.
//
// Artifact and part names are built by pure functions so the naming
// scheme is testable away from any I/O.
package fetch
