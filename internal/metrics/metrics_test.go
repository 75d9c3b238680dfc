package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()

	m.CacheLookup("by_id", true)
	m.CacheLookup("by_id", false)
	m.CacheLookup("by_id", false)
	m.RemoteRequest("search", nil)
	m.RemoteRequest("search", errors.New("boom"))
	m.PageServed("local")

	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("by_id", "miss")); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.remoteRequests.WithLabelValues("search", "error")); got != 1 {
		t.Errorf("remote errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.pages.WithLabelValues("local")); got != 1 {
		t.Errorf("local pages = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.CacheLookup("by_id", true)
	m.RemoteRequest("by_id", nil)
	m.PageServed("remote")
}
