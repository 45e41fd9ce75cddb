package datasource

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultInterval is the time between two polls.
const DefaultInterval = 30 * time.Second

// Handler integrates a delivered payload.
type Handler func(ctx context.Context, p *Payload) error

// PollerOptions configures a [Poller].
type PollerOptions struct {
	Interval time.Duration
	// Visible reports whether the view is in the foreground. Polls are
	// skipped while it returns false. Nil means always visible.
	Visible func() bool
	Logger  *log.Logger
}

// Poller fetches payloads and hands the latest one to a handler.
type Poller struct {
	fetcher Fetcher
	handle  Handler
	opts    PollerOptions
	logger  *log.Logger

	mu      sync.Mutex
	waiting string // stamp of the newest request
	feeding bool
}

// NewPoller returns a poller delivering the payloads of f to h.
func NewPoller(f Fetcher, h Handler, opts PollerOptions) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{fetcher: f, handle: h, opts: opts, logger: logger}
}

// Refresh fetches once and delivers the payload unless a newer request was
// started meanwhile. It does nothing while a delivery is in progress. It
// reports whether the payload was delivered.
func (p *Poller) Refresh(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.feeding {
		p.mu.Unlock()
		p.logger.Debug("refresh skipped, delivery in progress")
		return false, nil
	}
	stamp := uuid.NewString()
	p.waiting = stamp
	p.mu.Unlock()

	payload, err := p.fetcher.Fetch(ctx)

	p.mu.Lock()
	if p.waiting != stamp {
		p.mu.Unlock()
		p.logger.Debug("discarding stale response", "stamp", stamp)
		return false, nil
	}
	p.waiting = ""
	if err != nil {
		p.mu.Unlock()
		return false, err
	}
	if p.feeding {
		p.mu.Unlock()
		return false, nil
	}
	p.feeding = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.feeding = false
		p.mu.Unlock()
	}()
	if err := p.handle(ctx, payload); err != nil {
		return false, err
	}
	return true, nil
}

// Feeding reports whether a delivery is being integrated.
func (p *Poller) Feeding() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.feeding
}

// Waiting reports whether a request is outstanding.
func (p *Poller) Waiting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waiting != ""
}

// Run refreshes once and then on every interval tick until ctx is done.
// Ticks are skipped while the view is not visible. Each refresh runs in its
// own goroutine; a slow response is superseded by the next one.
func (p *Poller) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	refresh := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
				p.logger.Warn("refresh failed", "err", err)
			}
		}()
	}

	refresh()
	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.opts.Visible != nil && !p.opts.Visible() {
				p.logger.Debug("poll deferred, view hidden")
				continue
			}
			refresh()
		}
	}
}
