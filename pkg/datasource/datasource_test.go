package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/nodevis/pkg/cache"
	"github.com/matzehuels/nodevis/pkg/errors"
)

const samplePayload = `{
  "hierarchy": {"id": "root", "children": [{"id": "a"}, {"id": "b"}]},
  "links": [{"source": "a", "target": "b"}],
  "layout": {"style_configs": [], "origin_type": "explicit"}
}`

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(srv.URL)
	if err != nil {
		t.Fatalf("NewHTTPFetcher() error: %v", err)
	}
	p, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	tree, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := len(tree.Nodes()); got != 3 {
		t.Errorf("nodes = %d, want 3", got)
	}
	if p.Layout == nil || p.Layout.OriginType != "explicit" {
		t.Errorf("Layout = %+v, want explicit layout", p.Layout)
	}
	if p.Cached {
		t.Error("Cached = true for a live response")
	}
}

func TestHTTPFetcherRejectsURL(t *testing.T) {
	if _, err := NewHTTPFetcher("ftp://example.com"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NewHTTPFetcher(ftp) = %v, want INVALID_INPUT", err)
	}
}

func TestHTTPFetcherRetriesAndFallsBack(t *testing.T) {
	var calls atomic.Int32
	var down atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c, _ := cache.NewFileCache(t.TempDir())
	f := &HTTPFetcher{URL: srv.URL, Retries: 2, Delay: time.Millisecond, Cache: c}
	ctx := context.Background()

	if _, err := f.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	down.Store(true)
	calls.Store(0)
	p, err := f.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() with backend down = %v, want cached payload", err)
	}
	if !p.Cached {
		t.Error("Cached = false, want true")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}

	f.Cache = nil
	if _, err := f.Fetch(ctx); !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("Fetch() without cache = %v, want NETWORK_ERROR", err)
	}
}

func TestPollerDiscardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	var n atomic.Int32
	f := FetcherFunc(func(ctx context.Context) (*Payload, error) {
		i := n.Add(1)
		started <- struct{}{}
		if i == 1 {
			<-release
		}
		return &Payload{}, nil
	})

	var delivered atomic.Int32
	p := NewPoller(f, func(context.Context, *Payload) error {
		delivered.Add(1)
		return nil
	}, PollerOptions{})
	ctx := context.Background()

	slow := make(chan bool)
	go func() {
		ok, _ := p.Refresh(ctx)
		slow <- ok
	}()
	<-started

	ok, err := p.Refresh(ctx)
	if err != nil || !ok {
		t.Fatalf("second Refresh() = %v, %v, want delivered", ok, err)
	}
	close(release)
	if <-slow {
		t.Error("stale response was delivered")
	}
	if got := delivered.Load(); got != 1 {
		t.Errorf("deliveries = %d, want 1", got)
	}
	if p.Waiting() {
		t.Error("Waiting() = true after delivery")
	}
}

func TestPollerFeedingGuard(t *testing.T) {
	var fetches atomic.Int32
	f := FetcherFunc(func(context.Context) (*Payload, error) {
		fetches.Add(1)
		return &Payload{}, nil
	})

	var p *Poller
	var inner bool
	p = NewPoller(f, func(ctx context.Context, _ *Payload) error {
		if !p.Feeding() {
			t.Error("Feeding() = false during delivery")
		}
		inner, _ = p.Refresh(ctx)
		return nil
	}, PollerOptions{})

	ok, err := p.Refresh(context.Background())
	if err != nil || !ok {
		t.Fatalf("Refresh() = %v, %v, want delivered", ok, err)
	}
	if inner {
		t.Error("nested Refresh() delivered during feeding")
	}
	if got := fetches.Load(); got != 1 {
		t.Errorf("fetches = %d, want 1", got)
	}
	if p.Feeding() {
		t.Error("Feeding() = true after delivery")
	}
}

func TestPollerRunSkipsHiddenTicks(t *testing.T) {
	var fetches atomic.Int32
	f := FetcherFunc(func(context.Context) (*Payload, error) {
		fetches.Add(1)
		return &Payload{}, nil
	})
	p := NewPoller(f, func(context.Context, *Payload) error { return nil }, PollerOptions{
		Interval: 5 * time.Millisecond,
		Visible:  func() bool { return false },
	})

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	if err := p.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("Run() = %v, want DeadlineExceeded", err)
	}
	if got := fetches.Load(); got != 1 {
		t.Errorf("fetches = %d, want only the initial one", got)
	}
}
