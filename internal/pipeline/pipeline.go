package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geofetch/geofetch/internal/fetch"
	"github.com/geofetch/geofetch/internal/imagery"
	"github.com/geofetch/geofetch/internal/progress"
	"github.com/geofetch/geofetch/internal/raster"
	"github.com/geofetch/geofetch/internal/regions"
	"github.com/geofetch/geofetch/internal/store"
)

// Options configures a pipeline run.
type Options struct {
	// Collection is the imagery collection identifier.
	Collection string

	// Band is the band to select from the collection.
	Band string

	// Years to download. Empty means no time filtering (yearly mode
	// only).
	Years []int

	// Frequency is the temporal granularity. Default: Yearly.
	Frequency Frequency

	// Scale is the resolution in meters.
	Scale int

	// CRS is the target coordinate reference system.
	CRS string

	// Workers is the worker pool size.
	// Default: 5
	Workers int
}

// Pipeline downloads raster artifacts for regions and time windows.
type Pipeline struct {
	store    *store.Store
	fetcher  *fetch.Fetcher
	merger   raster.Merger
	log      *zap.Logger
	reporter *progress.Reporter
	opts     Options
}

// New assembles a pipeline. The reporter may be nil.
func New(st *store.Store, fetcher *fetch.Fetcher, merger raster.Merger, log *zap.Logger, reporter *progress.Reporter, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = 5
	}
	if opts.Frequency == "" {
		opts.Frequency = Yearly
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		store:    st,
		fetcher:  fetcher,
		merger:   merger,
		log:      log,
		reporter: reporter,
		opts:     opts,
	}
}

// Run downloads every (region, year) combination. It returns an error
// only for configuration problems detected before scheduling; per-task
// failures are logged and counted but do not surface.
func (p *Pipeline) Run(ctx context.Context, regs []regions.Region) error {
	if _, err := ParseFrequency(string(p.opts.Frequency)); err != nil {
		return err
	}

	runID := uuid.NewString()
	log := p.log.With(zap.String("run_id", runID))

	tasks := Enumerate(regs, p.opts.Years)
	log.Info("starting run",
		zap.String("collection", p.opts.Collection),
		zap.String("band", p.opts.Band),
		zap.String("frequency", string(p.opts.Frequency)),
		zap.Int("tasks", len(tasks)),
		zap.Int("workers", p.opts.Workers),
	)

	p.runPool(ctx, log, tasks, p.runTask)

	log.Info("run complete")
	return nil
}

// RunImage downloads a single named image per region, with no time
// filtering. The whole region downloads as one bounding rectangle.
func (p *Pipeline) RunImage(ctx context.Context, regs []regions.Region, imageID, band string) error {
	runID := uuid.NewString()
	log := p.log.With(zap.String("run_id", runID), zap.String("image", imageID))

	tasks := Enumerate(regs, nil)
	log.Info("starting image run", zap.Int("tasks", len(tasks)))

	img := imagery.FromImage(imageID, band).Reproject(p.opts.CRS, p.opts.Scale)
	p.runPool(ctx, log, tasks, func(ctx context.Context, log *zap.Logger, t Task) error {
		key := fetch.Key(t.Region.ID, fetch.ImageArtifactName(imageID, band, t.Region.ID))
		res, err := p.fetcher.Download(ctx, img, t.Region.Geometry.Bound(), key)
		if err != nil {
			return err
		}
		p.recordArtifact(res)
		return nil
	})

	log.Info("image run complete")
	return nil
}

type taskFunc func(ctx context.Context, log *zap.Logger, t Task) error

// runPool submits every task to a fixed-size worker pool and waits for
// all of them. A failing or panicking task never affects its siblings.
func (p *Pipeline) runPool(ctx context.Context, log *zap.Logger, tasks []Task, fn taskFunc) {
	jobs := make(chan Task, len(tasks))
	for _, t := range tasks {
		jobs <- t
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				p.execute(ctx, log, t, fn)
			}
		}()
	}
	wg.Wait()
}

// execute runs one task inside the error/panic boundary.
func (p *Pipeline) execute(ctx context.Context, log *zap.Logger, t Task, fn taskFunc) {
	tlog := log.With(zap.String("region", t.Region.ID))
	if t.HasYear() {
		tlog = tlog.With(zap.Int("year", t.Year))
	}

	defer func() {
		if r := recover(); r != nil {
			tlog.Error("task panicked", zap.Any("panic", r))
			if p.reporter != nil {
				p.reporter.TaskFailed()
			}
		}
	}()

	if err := fn(ctx, tlog, t); err != nil {
		tlog.Error("task failed", zap.Error(err))
		if p.reporter != nil {
			p.reporter.TaskFailed()
		}
		return
	}
	if p.reporter != nil {
		p.reporter.TaskCompleted()
	}
}

// runTask processes one (region, year) task at the configured
// frequency.
func (p *Pipeline) runTask(ctx context.Context, log *zap.Logger, t Task) error {
	if p.opts.Frequency != Yearly && !t.HasYear() {
		log.Warn("year required for frequency, skipping region",
			zap.String("frequency", string(p.opts.Frequency)))
		if p.reporter != nil {
			p.reporter.TaskSkipped()
		}
		return nil
	}

	coll := imagery.NewCollection(p.opts.Collection, p.opts.Band)

	switch p.opts.Frequency {
	case Yearly:
		if t.HasYear() {
			coll = coll.FilterDate(YearWindow(t.Year))
		}
		img := coll.Composite().Reproject(p.opts.CRS, p.opts.Scale)
		return p.acquire(ctx, log, img, t.Region, YearSuffix(t.Year))

	case Monthly:
		var firstErr error
		for month := time.January; month <= time.December; month++ {
			img := coll.FilterDate(MonthWindow(t.Year, month)).
				Composite().
				Reproject(p.opts.CRS, p.opts.Scale)
			if err := p.acquire(ctx, log, img, t.Region, MonthSuffix(t.Year, month)); err != nil {
				log.Warn("month failed", zap.Int("month", int(month)), zap.Error(err))
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		return firstErr

	case MonthlyMosaic:
		monthly := make([]imagery.Image, 0, 12)
		for month := time.January; month <= time.December; month++ {
			img := coll.FilterDate(MonthWindow(t.Year, month)).
				Composite().
				Reproject(p.opts.CRS, p.opts.Scale)
			monthly = append(monthly, img)
		}
		img := imagery.Mosaic(monthly...)
		return p.acquire(ctx, log, img, t.Region, MonthlyMosaicSuffix(t.Year))

	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFrequency, p.opts.Frequency)
	}
}

// acquire materializes one image for one region and time suffix. A
// single-part geometry downloads straight to the final artifact; a
// multi-part geometry downloads each part's rectangle and mosaics the
// successful subset.
func (p *Pipeline) acquire(ctx context.Context, log *zap.Logger, img imagery.Image, region regions.Region, timeSuffix string) error {
	finalKey := fetch.Key(region.ID, fetch.ArtifactName(p.opts.Collection, p.opts.Band, timeSuffix, region.ID))

	if !region.Geometry.Multi() {
		res, err := p.fetcher.Download(ctx, img, region.Geometry.Parts()[0].Bound(), finalKey)
		if err != nil {
			if errors.Is(err, imagery.ErrNoImage) {
				log.Warn("no image found for filters, abandoning",
					zap.String("time_suffix", timeSuffix))
			}
			return err
		}
		p.recordArtifact(res)
		return nil
	}

	// The merged artifact is the idempotence marker for multi-part
	// geometries; the parts themselves were deleted after the previous
	// successful merge.
	exists, err := p.store.Exists(ctx, finalKey)
	if err != nil {
		return err
	}
	if exists {
		log.Debug("merged artifact exists, skipping", zap.String("key", finalKey))
		if p.reporter != nil {
			p.reporter.ArtifactSkipped()
		}
		return nil
	}

	parts := region.Geometry.Parts()
	partKeys := make([]string, 0, len(parts))
	for i, part := range parts {
		key := fetch.Key(region.ID, fetch.PartName(p.opts.Collection, p.opts.Band, timeSuffix, region.ID, i))
		res, err := p.fetcher.Download(ctx, img, part.Bound(), key)
		if err != nil {
			if errors.Is(err, imagery.ErrNoImage) {
				log.Warn("no image found for filters, abandoning",
					zap.String("time_suffix", timeSuffix))
				return err
			}
			log.Warn("part failed, continuing with remaining parts",
				zap.Int("part", i),
				zap.String("time_suffix", timeSuffix),
				zap.Error(err),
			)
			continue
		}
		p.recordArtifact(res)
		partKeys = append(partKeys, res.Key)
	}

	if len(partKeys) == 0 {
		log.Warn("no parts downloaded, abandoning",
			zap.String("time_suffix", timeSuffix))
		return fmt.Errorf("no parts downloaded for %s", finalKey)
	}
	if len(partKeys) < len(parts) {
		log.Warn("merging partial subset",
			zap.Int("downloaded", len(partKeys)),
			zap.Int("parts", len(parts)),
			zap.String("time_suffix", timeSuffix),
		)
	}

	if err := p.merger.Merge(ctx, p.store, partKeys, finalKey); err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	log.Info("merged parts", zap.String("key", finalKey), zap.Int("parts", len(partKeys)))

	for _, key := range partKeys {
		if err := p.store.Delete(ctx, key); err != nil {
			log.Warn("could not remove part file", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func (p *Pipeline) recordArtifact(res fetch.Result) {
	if p.reporter == nil {
		return
	}
	if res.Skipped {
		p.reporter.ArtifactSkipped()
	} else {
		p.reporter.ArtifactDownloaded(res.Bytes)
	}
}
