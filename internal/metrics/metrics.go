package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "moviefinder"

// Metrics holds the engine counters. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	cacheLookups   *prometheus.CounterVec
	remoteRequests *prometheus.CounterVec
	pages          *prometheus.CounterVec
}

// New creates the counters on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Local cache lookups by operation and result.",
		}, []string{"op", "result"}),
		remoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_requests_total",
			Help:      "Remote catalog requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_served_total",
			Help:      "Pages returned by the paging engine by source.",
		}, []string{"source"}),
	}

	m.Registry.MustRegister(
		m.cacheLookups,
		m.remoteRequests,
		m.pages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// CacheLookup counts a cache read; hit is true when rows came back.
func (m *Metrics) CacheLookup(op string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(op, result).Inc()
}

// RemoteRequest counts a remote catalog call.
func (m *Metrics) RemoteRequest(op string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.remoteRequests.WithLabelValues(op, outcome).Inc()
}

// PageServed counts a page returned by the paging engine.
func (m *Metrics) PageServed(source string) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(source).Inc()
}
