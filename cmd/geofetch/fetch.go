package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/geofetch/geofetch/internal/config"
	"github.com/geofetch/geofetch/internal/fetch"
	ghttp "github.com/geofetch/geofetch/internal/http"
	"github.com/geofetch/geofetch/internal/imagery"
	"github.com/geofetch/geofetch/internal/pipeline"
	"github.com/geofetch/geofetch/internal/progress"
	"github.com/geofetch/geofetch/internal/raster"
	"github.com/geofetch/geofetch/internal/regions"
	"github.com/geofetch/geofetch/internal/store"
)

func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to YAML configuration file")
	endpoint := fs.String("endpoint", "", "Imagery service endpoint URL")
	credentials := fs.String("credentials", "", "Path to the service credentials file")
	collection := fs.String("collection", "", "Imagery collection identifier")
	band := fs.String("band", "", "Band to select from the collection")
	regionsFile := fs.String("regions", "", "Path to the regions GeoJSON file")
	regionKey := fs.String("region-key", "", "Feature property holding the region identifier")
	years := fs.String("years", "", "Comma-separated years to download, e.g. 2019,2020")
	frequency := fs.String("frequency", "", "Temporal granularity: yearly, monthly or monthly_mosaic")
	scale := fs.Int("scale", 0, "Resolution in meters")
	crs := fs.String("crs", "", "Target coordinate reference system")
	output := fs.String("out", "", "Output directory for raster artifacts")
	workers := fs.Int("workers", 0, "Number of parallel download workers")
	showProgress := fs.Bool("progress", false, "Show progress output")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: geofetch fetch [options]")
		fmt.Fprintln(os.Stderr, "\nDownloads one composite raster per region and time window.")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := buildConfig(*configFile, config.Config{
		Endpoint:    *endpoint,
		Credentials: *credentials,
		Collection:  *collection,
		Band:        *band,
		Regions:     *regionsFile,
		RegionKey:   *regionKey,
		Frequency:   *frequency,
		Scale:       *scale,
		CRS:         *crs,
		Output:      *output,
		Workers:     *workers,
		Progress:    *showProgress,
	}, *years)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return ExitConfigError
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return ExitConfigError
	}
	if _, err := pipeline.ParseFrequency(cfg.Frequency); err != nil {
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
			TotalTasks: len(pipeline.Enumerate(regs, cfg.Years)),
			Label:      fmt.Sprintf("%s/%s (%s)", cfg.Collection, cfg.Band, cfg.Frequency),
		})
		reporter.Start()
		defer reporter.Stop()
	}

	p := pipeline.New(st, fetcher, raster.NewMosaicker(), log, reporter, pipeline.Options{
		Collection: cfg.Collection,
		Band:       cfg.Band,
		Years:      cfg.Years,
		Frequency:  pipeline.Frequency(cfg.Frequency),
		Scale:      cfg.Scale,
		CRS:        cfg.CRS,
		Workers:    cfg.Workers,
	})

	ctx, cancel := signalContext()
	defer cancel()

	if err := p.Run(ctx, regs); err != nil {
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
		return ExitGeneralError
	}
	return ExitSuccess
}

// buildConfig layers defaults, the optional config file, the
// environment and finally the flag overrides.
func buildConfig(configFile string, overrides config.Config, yearsFlag string) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.LoadFromFile(configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}
	if yearsFlag != "" {
		years, err := config.ParseYears(yearsFlag)
		if err != nil {
			return config.Config{}, err
		}
		overrides.Years = years
	}
	return cfg.Merge(overrides), nil
}

// newResolver builds the imagery client, loading the service token when
// a credentials file is configured.
func newResolver(cfg config.Config) (*imagery.Client, error) {
	var token string
	if cfg.Credentials != "" {
		t, err := imagery.LoadToken(cfg.Credentials)
		if err != nil {
			return nil, err
		}
		token = t
	}
	return imagery.NewClient(imagery.Options{
		BaseURL: cfg.Endpoint,
		Token:   token,
		HTTP:    ghttp.NewClient(ghttp.DefaultOptions()),
	}), nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
