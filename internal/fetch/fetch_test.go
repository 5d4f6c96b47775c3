package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/geofetch/geofetch/internal/imagery"
	"github.com/geofetch/geofetch/internal/store"
)

// fakeResolver fails resolution a configured number of times before
// handing out the URL. Safe for single-goroutine use only.
type fakeResolver struct {
	url      string
	failures int
	calls    int
}

func (r *fakeResolver) DownloadURL(ctx context.Context, img imagery.Image, req imagery.DownloadRequest) (string, error) {
	r.calls++
	if r.calls <= r.failures {
		return "", fmt.Errorf("resolve: transient failure %d", r.calls)
	}
	return r.url, nil
}

func newTestServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
}

func TestDownloadSuccess(t *testing.T) {
	server := newTestServer(t, "tif bytes")
	defer server.Close()

	ctx := context.Background()
	st := store.OpenMem()
	defer st.Close()

	f := New(st, &fakeResolver{url: server.URL}, nil, nil, Options{Backoff: time.Millisecond})
	res, err := f.Download(ctx, imagery.FromImage("IMG", "b"), orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}, "ES/a.tif")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if res.Skipped {
		t.Error("expected a real download, not a skip")
	}
	if res.Bytes != int64(len("tif bytes")) {
		t.Errorf("expected %d bytes, got %d", len("tif bytes"), res.Bytes)
	}

	ok, err := st.Exists(ctx, "ES/a.tif")
	if err != nil || !ok {
		t.Errorf("expected artifact in store, ok=%v err=%v", ok, err)
	}
}

func TestDownloadSkipsExisting(t *testing.T) {
	ctx := context.Background()
	st := store.OpenMem()
	defer st.Close()
	if _, err := st.Write(ctx, "ES/a.tif", strings.NewReader("old")); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	resolver := &fakeResolver{url: "http://unreachable.invalid"}
	f := New(st, resolver, nil, nil, Options{})

	res, err := f.Download(ctx, imagery.FromImage("IMG", "b"), orb.Bound{}, "ES/a.tif")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !res.Skipped {
		t.Error("expected skip for existing artifact")
	}
	if resolver.calls != 0 {
		t.Errorf("expected zero network calls for existing artifact, got %d", resolver.calls)
	}
}

func TestDownloadRetriesThenSucceeds(t *testing.T) {
	server := newTestServer(t, "payload")
	defer server.Close()

	st := store.OpenMem()
	defer st.Close()

	resolver := &fakeResolver{url: server.URL, failures: 2}
	f := New(st, resolver, nil, nil, Options{Backoff: 10 * time.Millisecond})

	var waits []time.Duration
	f.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	res, err := f.Download(context.Background(), imagery.FromImage("IMG", "b"), orb.Bound{}, "ES/a.tif")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if res.Bytes == 0 {
		t.Error("expected bytes after retry success")
	}
	if resolver.calls != 3 {
		t.Errorf("expected success on attempt 3, resolver saw %d calls", resolver.calls)
	}

	// Linear backoff: sleep after failed attempt n is Backoff * n.
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}
	if len(waits) != len(want) {
		t.Fatalf("expected %d sleeps, got %d", len(want), len(waits))
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i, want[i], waits[i])
		}
	}
}

func TestDownloadExhaustsAttempts(t *testing.T) {
	st := store.OpenMem()
	defer st.Close()

	resolver := &fakeResolver{url: "unused", failures: 100}
	f := New(st, resolver, nil, nil, Options{Attempts: 5, Backoff: time.Millisecond})

	var sleeps int
	f.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}

	_, err := f.Download(context.Background(), imagery.FromImage("IMG", "b"), orb.Bound{}, "ES/a.tif")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if resolver.calls != 5 {
		t.Errorf("expected exactly 5 attempts, got %d", resolver.calls)
	}
	if sleeps != 4 {
		t.Errorf("expected 4 sleeps between 5 attempts, got %d", sleeps)
	}

	ok, _ := st.Exists(context.Background(), "ES/a.tif")
	if ok {
		t.Error("expected no artifact after failed download")
	}
}

func TestDownloadNoImageNotRetried(t *testing.T) {
	st := store.OpenMem()
	defer st.Close()

	resolver := &noImageResolver{}
	f := New(st, resolver, nil, nil, Options{Backoff: time.Millisecond})

	_, err := f.Download(context.Background(), imagery.FromImage("IMG", "b"), orb.Bound{}, "ES/a.tif")
	if !errors.Is(err, imagery.ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
	if resolver.calls != 1 {
		t.Errorf("expected no retries for missing imagery, got %d calls", resolver.calls)
	}
}

type noImageResolver struct{ calls int }

func (r *noImageResolver) DownloadURL(ctx context.Context, img imagery.Image, req imagery.DownloadRequest) (string, error) {
	r.calls++
	return "", imagery.ErrNoImage
}

func TestDefaultBackoffIs320ms(t *testing.T) {
	opts := DefaultOptions()
	if opts.Backoff != 320*time.Millisecond {
		t.Errorf("expected 320ms base backoff, got %v", opts.Backoff)
	}
	if opts.Attempts != 5 {
		t.Errorf("expected 5 attempts, got %d", opts.Attempts)
	}
}
