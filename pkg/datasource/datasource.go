// Package datasource delivers hierarchy data from a backend.
//
// A [Fetcher] retrieves one [Payload]. The [Poller] stamps every request
// with a fresh id and only hands the response of the latest request to its
// handler; older responses arriving late are dropped. While a delivery is
// being integrated no new refresh starts. [Poller.Run] refreshes on an
// interval, but only while the view is visible.
package datasource

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodevis/pkg/cache"
	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/httputil"
	"github.com/matzehuels/nodevis/pkg/layout"
)

// Payload is one delivery of the backend: the hierarchy, its extra links
// and the layout stored for it, if any.
type Payload struct {
	hierarchy.Document
	Layout *layout.Layout `json:"layout,omitempty"`

	// Cached is set when the payload comes from the last good response
	// because the backend could not be reached.
	Cached bool `json:"-"`
}

// Fetcher retrieves the current payload.
type Fetcher interface {
	Fetch(ctx context.Context) (*Payload, error)
}

// FetcherFunc adapts a function to [Fetcher].
type FetcherFunc func(ctx context.Context) (*Payload, error)

func (f FetcherFunc) Fetch(ctx context.Context) (*Payload, error) { return f(ctx) }

const (
	defaultRetries = 3
	defaultDelay   = time.Second
	lastGoodTTL    = 24 * time.Hour
	cacheNamespace = "datasource"
)

// HTTPFetcher GETs the payload as JSON from URL. Transient failures are
// retried. With a cache configured, the last good response is served when
// all attempts fail.
type HTTPFetcher struct {
	URL     string
	Client  *http.Client
	Retries int
	Delay   time.Duration
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// NewHTTPFetcher validates url and returns a fetcher with default retry
// settings and no cache.
func NewHTTPFetcher(url string) (*HTTPFetcher, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	return &HTTPFetcher{URL: url}, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (*Payload, error) {
	retries, delay := f.Retries, f.Delay
	if retries <= 0 {
		retries = defaultRetries
	}
	if delay <= 0 {
		delay = defaultDelay
	}

	var p Payload
	err := httputil.Retry(ctx, retries, delay, func() error {
		p = Payload{}
		return httputil.FetchJSON(ctx, f.Client, f.URL, &p)
	})
	if err == nil {
		f.remember(ctx, &p)
		return &p, nil
	}

	if cached, ok := f.lastGood(ctx); ok {
		f.logger().Warn("data source unreachable, using last good response", "url", f.URL, "err", err)
		return cached, nil
	}
	if ctx.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", f.URL)
	}
	return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", f.URL)
}

func (f *HTTPFetcher) key() string {
	k := f.Keyer
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return k.HTTPKey(cacheNamespace, f.URL)
}

func (f *HTTPFetcher) remember(ctx context.Context, p *Payload) {
	if f.Cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := f.Cache.Set(ctx, f.key(), data, lastGoodTTL); err != nil {
		f.logger().Debug("cache last good response", "err", err)
	}
}

func (f *HTTPFetcher) lastGood(ctx context.Context) (*Payload, bool) {
	if f.Cache == nil {
		return nil, false
	}
	data, ok, err := f.Cache.Get(ctx, f.key())
	if err != nil || !ok {
		return nil, false
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false
	}
	p.Cached = true
	return &p, true
}

func (f *HTTPFetcher) logger() *log.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return log.Default()
}
