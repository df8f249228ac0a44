package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	actions map[string]*ActionMetrics

	totalDispatches uint64
	totalErrors     uint64
	totalDuration   time.Duration
}

// ActionMetrics holds metrics for one action.
type ActionMetrics struct {
	Name          string
	DispatchCount uint64
	UpdateCount   uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{actions: make(map[string]*ActionMetrics)}
}

// RecordDispatch records one dispatch of action.
func (m *Metrics) RecordDispatch(action string, duration time.Duration, res Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration

	am := m.actions[action]
	if am == nil {
		am = &ActionMetrics{Name: action}
		m.actions[action] = am
	}
	am.DispatchCount++
	am.TotalDuration += duration
	am.LastDispatch = time.Now()
	if duration > am.MaxDuration {
		am.MaxDuration = duration
	}
	if res.ShouldUpdate {
		am.UpdateCount++
	}
	if err != nil {
		am.ErrorCount++
		m.totalErrors++
	}
}

// TotalDispatches returns the total number of dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalErrors returns the number of dispatches that returned an error.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// AverageDuration returns the average dispatch duration.
func (m *Metrics) AverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.totalDispatches == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(m.totalDispatches)
}

// ActionStats returns a copy of the metrics for action, or nil.
func (m *Metrics) ActionStats(action string) *ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	am := m.actions[action]
	if am == nil {
		return nil
	}
	c := *am
	return &c
}

// TopActions returns the n most dispatched actions.
func (m *Metrics) TopActions(n int) []ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ActionMetrics, 0, len(m.actions))
	for _, am := range m.actions {
		out = append(out, *am)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DispatchCount != out[j].DispatchCount {
			return out[i].DispatchCount > out[j].DispatchCount
		}
		return out[i].Name < out[j].Name
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = make(map[string]*ActionMetrics)
	m.totalDispatches = 0
	m.totalErrors = 0
	m.totalDuration = 0
}
