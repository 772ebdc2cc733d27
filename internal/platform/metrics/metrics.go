package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Collector counts HTTP traffic. All methods are safe for concurrent use.
type Collector struct {
	totalRequests   uint64
	clientErrors    uint64
	serverErrors    uint64
	notFound        uint64
	conflicts       uint64
	totalDurationMs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	switch {
	case status >= 500:
		atomic.AddUint64(&c.serverErrors, 1)
	case status >= 400:
		atomic.AddUint64(&c.clientErrors, 1)
	}
	if status == http.StatusNotFound {
		atomic.AddUint64(&c.notFound, 1)
	}
	if status == http.StatusConflict {
		atomic.AddUint64(&c.conflicts, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":     total,
		"clientErrorsTotal": atomic.LoadUint64(&c.clientErrors),
		"serverErrorsTotal": atomic.LoadUint64(&c.serverErrors),
		"notFoundTotal":     atomic.LoadUint64(&c.notFound),
		"conflictsTotal":    atomic.LoadUint64(&c.conflicts),
		"avgDurationMs":     avg,
		"totalDurationMs":   totalMs,
	}
}
