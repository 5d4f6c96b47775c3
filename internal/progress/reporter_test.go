package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestReporterCounters(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Options{
		TotalTasks: 3,
		Output:     &buf,
		Label:      "MODIS/061/MCD12Q1 (LC_Type1)",
	})

	r.TaskCompleted()
	r.TaskCompleted()
	r.TaskFailed()
	r.ArtifactDownloaded(1024)
	r.ArtifactDownloaded(2048)
	r.ArtifactSkipped()

	completed, failed, downloaded, skipped, total := r.Snapshot()
	if completed != 2 {
		t.Errorf("expected 2 completed, got %d", completed)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed, got %d", failed)
	}
	if downloaded != 2 {
		t.Errorf("expected 2 downloaded, got %d", downloaded)
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", skipped)
	}
	if total != 3072 {
		t.Errorf("expected 3072 bytes, got %d", total)
	}
}

func TestReporterOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Options{
		TotalTasks:     2,
		Output:         &buf,
		UpdateInterval: 10 * time.Millisecond,
		Label:          "test-collection",
	})

	r.Start()
	r.TaskCompleted()
	r.ArtifactDownloaded(100)
	time.Sleep(30 * time.Millisecond)
	r.Stop()
	time.Sleep(20 * time.Millisecond)

	out := buf.String()
	if !strings.Contains(out, "Fetching: test-collection") {
		t.Errorf("expected header in output, got %q", out)
	}
	if !strings.Contains(out, "downloaded") {
		t.Errorf("expected artifact counts in output, got %q", out)
	}
	if !strings.Contains(out, "Total time:") {
		t.Errorf("expected final status in output, got %q", out)
	}
}

func TestReporterStopIdempotent(t *testing.T) {
	r := NewReporter(Options{Output: &bytes.Buffer{}})
	r.Start()
	r.Stop()
	r.Stop() // must not panic
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
