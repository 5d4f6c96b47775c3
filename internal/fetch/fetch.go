package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	ghttp "github.com/geofetch/geofetch/internal/http"
	"github.com/geofetch/geofetch/internal/imagery"
	"github.com/geofetch/geofetch/internal/store"
)

// Options configures download retry behavior.
type Options struct {
	// Attempts is the total number of attempts per download.
	// Default: 5
	Attempts int

	// Backoff is the base delay. The sleep after failed attempt n is
	// Backoff * n (linear, not exponential).
	// Default: 320ms
	Backoff time.Duration

	// Scale is the requested resolution in meters.
	Scale int

	// CRS is the requested coordinate reference system.
	CRS string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Attempts: 5,
		Backoff:  320 * time.Millisecond,
	}
}

// Result describes the outcome of one download.
type Result struct {
	Key     string
	Skipped bool // artifact already existed, no network calls made
	Bytes   int64
}

// Fetcher downloads rectangular rasters into the store.
type Fetcher struct {
	store    *store.Store
	resolver imagery.Resolver
	http     *ghttp.Client
	log      *zap.Logger
	opts     Options

	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Fetcher. A nil http client gets default options; a nil
// logger is replaced with a no-op one.
func New(st *store.Store, resolver imagery.Resolver, hc *ghttp.Client, log *zap.Logger, opts Options) *Fetcher {
	if opts.Attempts <= 0 {
		opts.Attempts = 5
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 320 * time.Millisecond
	}
	if hc == nil {
		hc = ghttp.NewClient(ghttp.DefaultOptions())
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		store:    st,
		resolver: resolver,
		http:     hc,
		log:      log,
		opts:     opts,
		sleep:    sleepCtx,
	}
}

// Download materializes img over the bounding box into the artifact at
// key. If the key already exists the download is skipped. Each attempt
// covers both the URL resolution and the transfer; attempts stop early
// when the service reports no matching imagery.
func (f *Fetcher) Download(ctx context.Context, img imagery.Image, bound orb.Bound, key string) (Result, error) {
	exists, err := f.store.Exists(ctx, key)
	if err != nil {
		return Result{}, err
	}
	if exists {
		f.log.Debug("artifact exists, skipping", zap.String("key", key))
		return Result{Key: key, Skipped: true}, nil
	}

	req := imagery.DownloadRequest{
		Region: BBoxRing(bound),
		Scale:  f.opts.Scale,
		CRS:    f.opts.CRS,
		Format: "GeoTIFF",
	}

	var lastErr error
	for attempt := 1; attempt <= f.opts.Attempts; attempt++ {
		n, err := f.attempt(ctx, img, req, key)
		if err == nil {
			f.log.Info("downloaded artifact", zap.String("key", key), zap.Int64("bytes", n))
			return Result{Key: key, Bytes: n}, nil
		}
		if errors.Is(err, imagery.ErrNoImage) {
			return Result{}, err
		}
		lastErr = err

		if attempt < f.opts.Attempts {
			wait := f.opts.Backoff * time.Duration(attempt)
			f.log.Warn("download failed, retrying",
				zap.String("key", key),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", f.opts.Attempts),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
			if err := f.sleep(ctx, wait); err != nil {
				return Result{}, err
			}
		}
	}

	return Result{}, fmt.Errorf("download %s failed after %d attempts: %w", key, f.opts.Attempts, lastErr)
}

// attempt performs one resolve+transfer pair.
func (f *Fetcher) attempt(ctx context.Context, img imagery.Image, req imagery.DownloadRequest, key string) (int64, error) {
	url, err := f.resolver.DownloadURL(ctx, img, req)
	if err != nil {
		return 0, err
	}

	body, err := f.http.Get(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("transfer: %w", err)
	}
	defer body.Close()

	return f.store.Write(ctx, key, body)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
