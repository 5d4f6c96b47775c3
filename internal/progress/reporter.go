package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalTasks is the number of enumerated download tasks.
	TotalTasks int

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration

	// Label identifies the run (collection and band) for display.
	Label string
}

// Reporter outputs human-readable progress information.
type Reporter struct {
	opts Options

	completedTasks atomic.Int32
	failedTasks    atomic.Int32
	skippedTasks   atomic.Int32
	downloaded     atomic.Int32
	skipped        atomic.Int32
	bytes          atomic.Int64

	mu        sync.Mutex
	startTime time.Time
	stopCh    chan struct{}
	stopped   bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.startTime = time.Now()

	if r.opts.Label != "" {
		fmt.Fprintf(r.opts.Output, "[geofetch] Fetching: %s\n", r.opts.Label)
	}
	fmt.Fprintf(r.opts.Output, "[geofetch] Tasks: %d\n", r.opts.TotalTasks)

	go r.updateLoop()
}

// Stop stops the progress reporter.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
}

// TaskCompleted records one task finishing without error.
func (r *Reporter) TaskCompleted() {
	r.completedTasks.Add(1)
}

// TaskFailed records one task finishing with an error.
func (r *Reporter) TaskFailed() {
	r.failedTasks.Add(1)
}

// TaskSkipped records one task rejected during enumeration (e.g. a
// monthly task without a year).
func (r *Reporter) TaskSkipped() {
	r.skippedTasks.Add(1)
}

// ArtifactDownloaded records a downloaded artifact of the given size.
func (r *Reporter) ArtifactDownloaded(size int64) {
	r.downloaded.Add(1)
	r.bytes.Add(size)
}

// ArtifactSkipped records an artifact that already existed.
func (r *Reporter) ArtifactSkipped() {
	r.skipped.Add(1)
}

// Snapshot returns the current counter values. Used by callers that
// want a summary without the periodic display.
func (r *Reporter) Snapshot() (completed, failed, downloaded, skipped int, bytes int64) {
	return int(r.completedTasks.Load()),
		int(r.failedTasks.Load()),
		int(r.downloaded.Load()),
		int(r.skipped.Load()),
		r.bytes.Load()
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

func (r *Reporter) printProgress() {
	done := int(r.completedTasks.Load()) + int(r.failedTasks.Load())

	fmt.Fprintf(r.opts.Output, "\r[geofetch] Tasks: %d/%d done | %d failed | Artifacts: %d downloaded, %d skipped | %s    ",
		done,
		r.opts.TotalTasks,
		r.failedTasks.Load(),
		r.downloaded.Load(),
		r.skipped.Load(),
		formatBytes(r.bytes.Load()),
	)
}

func (r *Reporter) printFinalStatus() {
	duration := time.Since(r.startTime)

	fmt.Fprintf(r.opts.Output, "\r[geofetch] Done: %d tasks | %d failed | Artifacts: %d downloaded, %d skipped | %s    \n",
		r.completedTasks.Load()+r.failedTasks.Load(),
		r.failedTasks.Load(),
		r.downloaded.Load(),
		r.skipped.Load(),
		formatBytes(r.bytes.Load()),
	)
	fmt.Fprintf(r.opts.Output, "[geofetch] Total time: %s\n", formatDuration(duration))
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
