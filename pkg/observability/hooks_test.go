package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnApplyStart(ctx, 5)
	l.OnApplyComplete(ctx, 2, time.Millisecond)
	l.OnStyleInstantiated(ctx, "hierarchy_root")
	l.OnStyleRemoved(ctx, "hierarchy_root")
	l.OnUndoStep(ctx, 3)

	s := NoopSimulationHooks{}
	s.OnRestart(ctx, 2)
	s.OnTick(ctx, 0.5, true)
	s.OnEnd(ctx, 300)

	st := NoopStoreHooks{}
	st.OnSave(ctx, "file", "main", 1024, nil)
	st.OnLoad(ctx, "redis", "main", nil)
	st.OnDelete(ctx, "sqlite", "main", nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "svg")
	c.OnCacheMiss(ctx, "svg")
	c.OnCacheSet(ctx, "svg", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "monitoring.local", "/topology")
	h.OnResponse(ctx, "GET", "monitoring.local", "/topology", 200, time.Second)
	h.OnError(ctx, "GET", "monitoring.local", "/topology", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Simulation() should return NoopSimulationHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customSim := &testSimulationHooks{}
	SetSimulationHooks(customSim)
	if Simulation() != customSim {
		t.Error("SetSimulationHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)

	// Setting nil should be ignored
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testLayoutHooks struct{ NoopLayoutHooks }
type testSimulationHooks struct{ NoopSimulationHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
