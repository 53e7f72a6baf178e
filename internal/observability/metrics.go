package observability

import (
	"fmt"
	"sync"
	"time"
)

// RouteStats aggregates outcomes for one route/method/status combination.
type RouteStats struct {
	Count         int64
	TotalDuration time.Duration
}

// Metrics keeps in-process request and error counters, keyed by route.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]*RouteStats
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]*RouteStats),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts a completed request and accumulates its duration.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := fmt.Sprintf("%s %s %d", method, path, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.requests[key]
	if !ok {
		stats = &RouteStats{}
		m.requests[key] = stats
	}
	stats.Count++
	stats.TotalDuration += duration
}

// RecordError counts a request that ended in an error response.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := fmt.Sprintf("%s %s %s", method, path, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[key]++
}

// ErrorCount returns the number of errors recorded for a route and code.
func (m *Metrics) ErrorCount(path, method, code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[fmt.Sprintf("%s %s %s", method, path, code)]
}

// Snapshot copies the request counters for reporting.
func (m *Metrics) Snapshot() map[string]RouteStats {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]RouteStats, len(m.requests))
	for key, stats := range m.requests {
		out[key] = *stats
	}
	return out
}
