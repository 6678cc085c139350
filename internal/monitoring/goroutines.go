package monitoring

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultCheckInterval  = 30 * time.Second
	DefaultAlertThreshold = 1000
	defaultAlertCooldown  = 5 * time.Minute
)

// GoroutineMonitor tracks goroutine counts of a long running server
// and warns when they cross a threshold.
type GoroutineMonitor struct {
	mu              sync.RWMutex
	baseline        int
	current         int
	peak            int
	checkInterval   time.Duration
	alertThreshold  int
	lastAlert       time.Time
	alertCooldown   time.Duration
	componentCounts map[string]int
	count           func() int
	logger          zerolog.Logger
}

// NewGoroutineMonitor creates a monitor with the current goroutine count as baseline.
func NewGoroutineMonitor(interval time.Duration, threshold int, logger zerolog.Logger) *GoroutineMonitor {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}
	baseline := runtime.NumGoroutine()
	return &GoroutineMonitor{
		baseline:        baseline,
		current:         baseline,
		peak:            baseline,
		checkInterval:   interval,
		alertThreshold:  threshold,
		alertCooldown:   defaultAlertCooldown,
		componentCounts: make(map[string]int),
		count:           runtime.NumGoroutine,
		logger:          logger.With().Str("component", "GoroutineMonitor").Logger(),
	}
}

// Run checks goroutines every interval until ctx is done.
func (gm *GoroutineMonitor) Run(ctx context.Context) {
	gm.logger.Info().
		Int("baseline", gm.baseline).
		Dur("interval", gm.checkInterval).
		Msg("Started goroutine monitoring")

	ticker := time.NewTicker(gm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gm.Check(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

// Check samples the goroutine count and reports whether an alert was raised.
func (gm *GoroutineMonitor) Check(now time.Time) bool {
	current := gm.count()

	gm.mu.Lock()
	gm.current = current
	if current > gm.peak {
		gm.peak = current
	}

	growth := current - gm.baseline
	growthRate := 0.0
	if gm.baseline > 0 {
		growthRate = float64(growth) / float64(gm.baseline) * 100
	}

	shouldAlert := current > gm.alertThreshold &&
		now.Sub(gm.lastAlert) > gm.alertCooldown
	if shouldAlert {
		gm.lastAlert = now
	}
	peak := gm.peak
	gm.mu.Unlock()

	gm.logger.Debug().
		Int("current", current).
		Int("baseline", gm.baseline).
		Int("peak", peak).
		Float64("growth_rate", growthRate).
		Msg("Goroutine metrics")

	if shouldAlert {
		gm.logger.Warn().
			Int("current", current).
			Int("threshold", gm.alertThreshold).
			Float64("growth_rate", growthRate).
			Msg("High goroutine count detected - possible leak")
	}
	return shouldAlert
}

// RegisterComponent records how many goroutines a component owns
func (gm *GoroutineMonitor) RegisterComponent(name string, count int) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.componentCounts[name] = count
}

// Metrics returns current goroutine metrics
func (gm *GoroutineMonitor) Metrics() GoroutineMetrics {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	return GoroutineMetrics{
		Current:         gm.current,
		Baseline:        gm.baseline,
		Peak:            gm.peak,
		Growth:          gm.current - gm.baseline,
		ComponentCounts: copyMap(gm.componentCounts),
	}
}

// GoroutineMetrics contains goroutine statistics
type GoroutineMetrics struct {
	Current         int            `json:"current"`
	Baseline        int            `json:"baseline"`
	Peak            int            `json:"peak"`
	Growth          int            `json:"growth"`
	ComponentCounts map[string]int `json:"component_counts"`
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
