package raster

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/geofetch/geofetch/internal/store"
)

// Merger combines downloaded part rasters into one output artifact.
type Merger interface {
	Merge(ctx context.Context, st *store.Store, partKeys []string, destKey string) error
}

var registerOnce sync.Once

// Mosaicker is the GDAL-backed Merger. It requires a file-backed store
// because GDAL operates on local paths.
type Mosaicker struct{}

// NewMosaicker returns a ready Mosaicker, registering GDAL drivers on
// first use.
func NewMosaicker() *Mosaicker {
	registerOnce.Do(godal.RegisterAll)
	return &Mosaicker{}
}

// Merge mosaics the part artifacts into destKey.
func (m *Mosaicker) Merge(ctx context.Context, st *store.Store, partKeys []string, destKey string) error {
	if len(partKeys) == 0 {
		return fmt.Errorf("merge %s: no parts", destKey)
	}

	paths := make([]string, len(partKeys))
	for i, key := range partKeys {
		path, ok := st.Path(key)
		if !ok {
			return fmt.Errorf("merge %s: store is not file-backed", destKey)
		}
		paths[i] = path
	}

	dest, ok := st.Path(destKey)
	if !ok {
		return fmt.Errorf("merge %s: store is not file-backed", destKey)
	}

	return m.MergePaths(ctx, paths, dest)
}

// MergePaths mosaics local raster files into dest. The virtual mosaic
// is built first, then materialized as a GeoTIFF; the intermediate VRT
// is removed afterwards.
func (m *Mosaicker) MergePaths(ctx context.Context, paths []string, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	vrtPath := dest + ".vrt"
	vrt, err := godal.BuildVRT(vrtPath, paths, nil)
	if err != nil {
		return fmt.Errorf("build mosaic over %d parts: %w", len(paths), err)
	}
	defer os.Remove(vrtPath)

	out, err := vrt.Translate(dest, []string{"-of", "GTiff"})
	if err != nil {
		vrt.Close()
		return fmt.Errorf("write mosaic %s: %w", dest, err)
	}

	if err := out.Close(); err != nil {
		vrt.Close()
		return fmt.Errorf("close mosaic %s: %w", dest, err)
	}
	if err := vrt.Close(); err != nil {
		return fmt.Errorf("close vrt: %w", err)
	}
	return nil
}

// CollectTIFFs walks dir recursively and returns every .tif file in
// deterministic (sorted) order.
func CollectTIFFs(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".tif") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
