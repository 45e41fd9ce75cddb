// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about layout application, the force simulation, layout
// persistence, the render cache, and data-source fetches.
//
// # Architecture
//
// Hook interfaces are grouped by event category. Every interface has a no-op
// implementation that is active until a custom one is registered. Libraries
// never register hooks themselves; main does.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnApplyStart(ctx, nodeCount)
//	// ... apply the layout ...
//	observability.Layout().OnApplyComplete(ctx, styleCount, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout manager.
type LayoutHooks interface {
	OnApplyStart(ctx context.Context, nodeCount int)
	OnApplyComplete(ctx context.Context, styleCount int, duration time.Duration)

	// Style lifecycle events
	OnStyleInstantiated(ctx context.Context, styleID string)
	OnStyleRemoved(ctx context.Context, styleID string)

	// OnUndoStep records a new history entry; depth is the history length.
	OnUndoStep(ctx context.Context, depth int)
}

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from the force simulation.
type SimulationHooks interface {
	OnRestart(ctx context.Context, alpha float64)
	OnTick(ctx context.Context, alpha float64, rendered bool)
	OnEnd(ctx context.Context, ticks int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from layout stores.
type StoreHooks interface {
	OnSave(ctx context.Context, backend, id string, size int, err error)
	OnLoad(ctx context.Context, backend, id string, err error)
	OnDelete(ctx context.Context, backend, id string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnApplyStart(context.Context, int)                   {}
func (NoopLayoutHooks) OnApplyComplete(context.Context, int, time.Duration) {}
func (NoopLayoutHooks) OnStyleInstantiated(context.Context, string)         {}
func (NoopLayoutHooks) OnStyleRemoved(context.Context, string)              {}
func (NoopLayoutHooks) OnUndoStep(context.Context, int)                     {}

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnRestart(context.Context, float64)    {}
func (NoopSimulationHooks) OnTick(context.Context, float64, bool) {}
func (NoopSimulationHooks) OnEnd(context.Context, int)            {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, string, int, error) {}
func (NoopStoreHooks) OnLoad(context.Context, string, string, error)      {}
func (NoopStoreHooks) OnDelete(context.Context, string, string, error)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks     LayoutHooks     = NoopLayoutHooks{}
	simulationHooks SimulationHooks = NoopSimulationHooks{}
	storeHooks      StoreHooks      = NoopStoreHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	httpHooks       HTTPHooks       = NoopHTTPHooks{}
	hooksMu         sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetSimulationHooks registers custom simulation hooks.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	simulationHooks = NoopSimulationHooks{}
	storeHooks = NoopStoreHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
