// Package store persists downloaded rasters through gocloud.dev/blob.
//
// Artifact existence under a deterministic key is the pipeline's only
// idempotence marker: a key that exists is treated as complete and is
// never re-fetched or re-validated.
//
// Production code opens a file-backed store rooted at the output
// directory, so keys map one-to-one onto the documented filesystem
// layout (region_id/artifact.tif). Tests use an in-memory bucket.
//
// # Usage
//
//	st, err := store.OpenDir("/data/rasters")
//	defer st.Close()
//
//	ok, err := st.Exists(ctx, "ES/MCD12Q1_LC_Type1_2021_ES.tif")
//	err = st.Write(ctx, key, body)
package store
