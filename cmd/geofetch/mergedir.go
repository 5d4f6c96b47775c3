package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/geofetch/geofetch/internal/raster"
)

func runMerge(args []string) int {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	inDir := fs.String("in", "", "Directory to scan for GeoTIFF files")
	outFile := fs.String("out", "", "Path of the merged GeoTIFF to write")
	remove := fs.Bool("delete", false, "Delete the input files after a successful merge")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: geofetch merge -in <dir> -out <file> [options]")
		fmt.Fprintln(os.Stderr, "\nMosaics every .tif under a directory into a single GeoTIFF.")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}
	if *inDir == "" || *outFile == "" {
		fmt.Fprintln(os.Stderr, "Both -in and -out are required")
		fs.Usage()
		return ExitInvalidArgs
	}

	paths, err := raster.CollectTIFFs(*inDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to scan input directory: %v\n", err)
		return ExitStorageError
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "No .tif files found under %s\n", *inDir)
		return ExitGeneralError
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := raster.NewMosaicker().MergePaths(ctx, paths, *outFile); err != nil {
		fmt.Fprintf(os.Stderr, "Merge failed: %v\n", err)
		return ExitGeneralError
	}
	fmt.Fprintf(os.Stderr, "Merged %d files into %s\n", len(paths), *outFile)

	if *remove {
		for _, p := range paths {
			if err := os.Remove(p); err != nil {
				fmt.Fprintf(os.Stderr, "Could not remove %s: %v\n", p, err)
			}
		}
	}
	return ExitSuccess
}
