package store

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
)

// Store is an artifact store backed by a blob bucket. File-backed
// stores additionally expose local paths for tools that need to open
// artifacts directly (the raster merger).
type Store struct {
	bucket *blob.Bucket
	root   string // empty unless file-backed
}

// OpenDir opens a file-backed store rooted at dir, creating it if
// necessary.
func OpenDir(dir string) (*Store, error) {
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, fmt.Errorf("open output dir %s: %w", dir, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		bucket.Close()
		return nil, fmt.Errorf("resolve output dir %s: %w", dir, err)
	}
	return &Store{bucket: bucket, root: abs}, nil
}

// OpenMem opens an in-memory store. Used by tests.
func OpenMem() *Store {
	return &Store{bucket: memblob.OpenBucket(nil)}
}

// Exists reports whether an artifact with the given key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return ok, nil
}

// Write streams r into the artifact at key. A failed write does not
// leave a partial artifact behind.
func (s *Store) Write(ctx context.Context, key string, r io.Reader) (int64, error) {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: "image/tiff",
	})
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", key, err)
	}

	n, err := io.Copy(w, r)
	if err != nil {
		w.Close()
		s.bucket.Delete(ctx, key)
		return n, fmt.Errorf("write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		s.bucket.Delete(ctx, key)
		return n, fmt.Errorf("commit %s: %w", key, err)
	}
	return n, nil
}

// Delete removes the artifact at key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// List returns the keys under prefix in lexical order.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Path returns the local filesystem path for key and whether the store
// is file-backed. In-memory stores have no paths.
func (s *Store) Path(key string) (string, bool) {
	if s.root == "" {
		return "", false
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), true
}

// Close releases the underlying bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}
