package health

import (
	"context"
	"sync"
	"time"

	"github.com/tair/shopfront/pkg/logger"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Probe reports whether a dependency is reachable
type Probe func(ctx context.Context) error

// DependencyHealth represents the health status of one dependency
type DependencyHealth struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	LatencyMs int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is the overall service health
type Report struct {
	Service       string                      `json:"service"`
	Status        string                      `json:"status"`
	Dependencies  map[string]DependencyHealth `json:"dependencies"`
	UptimeSeconds float64                     `json:"uptime_seconds"`
}

// Checker runs the registered probes
type Checker struct {
	service   string
	timeout   time.Duration
	startTime time.Time

	mu     sync.RWMutex
	probes map[string]Probe
}

func NewChecker(service string, timeout time.Duration) *Checker {
	return &Checker{
		service:   service,
		timeout:   timeout,
		startTime: time.Now(),
		probes:    make(map[string]Probe),
	}
}

// Register adds a named probe. Registering the same name twice replaces it.
func (c *Checker) Register(name string, probe Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[name] = probe
}

func (c *Checker) check(ctx context.Context, name string, probe Probe) DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result := DependencyHealth{Name: name, Status: StatusHealthy, Timestamp: start}
	if err := probe(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	result.LatencyMs = time.Since(start).Milliseconds()
	return result
}

// Check probes every dependency concurrently
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	probes := make(map[string]Probe, len(c.probes))
	for n, p := range c.probes {
		probes[n] = p
	}
	c.mu.RUnlock()

	deps := make(map[string]DependencyHealth, len(probes))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, probe := range probes {
		wg.Add(1)
		go func(n string, p Probe) {
			defer wg.Done()
			h := c.check(ctx, n, p)

			mu.Lock()
			deps[n] = h
			mu.Unlock()

			if h.Status != StatusHealthy {
				logger.Logger.Warn().
					Str("dependency", n).
					Str("error", h.Error).
					Msg("Health check failed")
			}
		}(name, probe)
	}
	wg.Wait()

	return Report{
		Service:       c.service,
		Status:        overallStatus(deps),
		Dependencies:  deps,
		UptimeSeconds: time.Since(c.startTime).Seconds(),
	}
}

func overallStatus(deps map[string]DependencyHealth) string {
	healthy := 0
	for _, d := range deps {
		if d.Status == StatusHealthy {
			healthy++
		}
	}
	switch {
	case healthy == len(deps):
		return StatusHealthy
	case healthy > 0:
		return StatusDegraded
	}
	return StatusUnhealthy
}
