package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/geofetch/geofetch/internal/config"
	"github.com/geofetch/geofetch/internal/fetch"
	"github.com/geofetch/geofetch/internal/pipeline"
	"github.com/geofetch/geofetch/internal/progress"
	"github.com/geofetch/geofetch/internal/raster"
	"github.com/geofetch/geofetch/internal/regions"
	"github.com/geofetch/geofetch/internal/store"
)

func runFetchImage(args []string) int {
	fs := flag.NewFlagSet("fetch-image", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to YAML configuration file")
	endpoint := fs.String("endpoint", "", "Imagery service endpoint URL")
	credentials := fs.String("credentials", "", "Path to the service credentials file")
	imageID := fs.String("image", "", "Image identifier to download")
	band := fs.String("band", "", "Band to select from the image")
	regionsFile := fs.String("regions", "", "Path to the regions GeoJSON file")
	regionKey := fs.String("region-key", "", "Feature property holding the region identifier")
	scale := fs.Int("scale", 0, "Resolution in meters")
	crs := fs.String("crs", "", "Target coordinate reference system")
	output := fs.String("out", "", "Output directory for raster artifacts")
	workers := fs.Int("workers", 0, "Number of parallel download workers")
	showProgress := fs.Bool("progress", false, "Show progress output")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: geofetch fetch-image -image <id> [options]")
		fmt.Fprintln(os.Stderr, "\nDownloads one named image per region, clipped to the region's")
		fmt.Fprintln(os.Stderr, "bounding rectangle. No time filtering is applied.")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := buildConfig(*configFile, config.Config{
		Endpoint:    *endpoint,
		Credentials: *credentials,
		Band:        *band,
		Regions:     *regionsFile,
		RegionKey:   *regionKey,
		Scale:       *scale,
		CRS:         *crs,
		Output:      *output,
		Workers:     *workers,
		Progress:    *showProgress,
	}, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return ExitConfigError
	}
	if *imageID == "" {
		fmt.Fprintln(os.Stderr, "Configuration error: -image is required")
		fs.Usage()
		return ExitInvalidArgs
	}
	if err := validateImageConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return ExitConfigError
	}

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return ExitGeneralError
	}
	defer log.Sync()

	regs, err := regions.Load(cfg.Regions, cfg.RegionKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load regions: %v\n", err)
		return ExitConfigError
	}

	st, err := store.OpenDir(cfg.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open output directory: %v\n", err)
		return ExitStorageError
	}
	defer st.Close()

	resolver, err := newResolver(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return ExitConfigError
	}

	fetcher := fetch.New(st, resolver, nil, log, fetch.Options{
		Attempts: cfg.Retry.Attempts,
		Backoff:  cfg.Retry.Backoff,
		Scale:    cfg.Scale,
		CRS:      cfg.CRS,
	})

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			TotalTasks: len(regs),
			Label:      fmt.Sprintf("%s/%s", *imageID, cfg.Band),
		})
		reporter.Start()
		defer reporter.Stop()
	}

	p := pipeline.New(st, fetcher, raster.NewMosaicker(), log, reporter, pipeline.Options{
		Band:    cfg.Band,
		Scale:   cfg.Scale,
		CRS:     cfg.CRS,
		Workers: cfg.Workers,
	})

	ctx, cancel := signalContext()
	defer cancel()

	if err := p.RunImage(ctx, regs, *imageID, cfg.Band); err != nil {
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
		return ExitGeneralError
	}
	return ExitSuccess
}

// validateImageConfig checks the subset of fields a single-image run
// needs. Collection, years and frequency do not apply here.
func validateImageConfig(cfg config.Config) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if cfg.Band == "" {
		return fmt.Errorf("band is required")
	}
	if cfg.Regions == "" {
		return fmt.Errorf("regions file is required")
	}
	if cfg.RegionKey == "" {
		return fmt.Errorf("region-key is required")
	}
	if cfg.Output == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}
