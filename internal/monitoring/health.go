package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

const maxHealthErrors = 10

// HealthChecker tracks scan freshness and recent failures
type HealthChecker struct {
	mu          sync.RWMutex
	staleAfter  time.Duration
	lastScan    time.Time
	symbols     int
	failures    int
	isConnected bool
	errors      []string
	now         func() time.Time
}

// HealthStatus is the JSON body served by HealthChecker
type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	LastScan    time.Time `json:"last_scan"`
	Symbols     int       `json:"symbols"`
	Failures    int       `json:"failures"`
	IsConnected bool      `json:"is_connected"`
	Uptime      string    `json:"uptime"`
	Errors      []string  `json:"errors,omitempty"`
}

// NewHealthChecker reports degraded once no scan completed within staleAfter
func NewHealthChecker(staleAfter time.Duration) *HealthChecker {
	return &HealthChecker{
		staleAfter: staleAfter,
		errors:     make([]string, 0),
		now:        time.Now,
	}
}

// RecordScan stores the outcome of one scan pass
func (h *HealthChecker) RecordScan(symbols, failures int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastScan = h.now()
	h.symbols = symbols
	h.failures = failures
	h.isConnected = symbols == 0 || failures < symbols
}

// RecordError keeps the last few error messages
func (h *HealthChecker) RecordError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
	if len(h.errors) > maxHealthErrors {
		h.errors = h.errors[len(h.errors)-maxHealthErrors:]
	}
}

// Status computes the current health. A scan where every symbol failed is
// unhealthy; a missing or stale scan is degraded.
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := h.now()
	status := "healthy"
	switch {
	case h.symbols > 0 && h.failures >= h.symbols:
		status = "unhealthy"
	case h.lastScan.IsZero() || now.Sub(h.lastScan) > h.staleAfter || !h.isConnected:
		status = "degraded"
	}

	return HealthStatus{
		Status:      status,
		Timestamp:   now,
		LastScan:    h.lastScan,
		Symbols:     h.symbols,
		Failures:    h.failures,
		IsConnected: h.isConnected,
		Uptime:      now.Sub(startTime).Round(time.Second).String(),
		Errors:      append([]string(nil), h.errors...),
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Status()

	w.Header().Set("Content-Type", "application/json")
	switch health.Status {
	case "unhealthy":
		w.WriteHeader(http.StatusInternalServerError)
	case "degraded":
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(health)
}
