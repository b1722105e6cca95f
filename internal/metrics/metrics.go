package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ItemsFetched         int64
	ItemsAdmitted        int64
	DuplicatesFiltered   int64
	OldFiltered          int64
	MissingDateFiltered  int64
	OracleCalls          int64
	RefinementIterations int64
	SnapshotsWritten     int64

	// Timings
	LastRunDuration  time.Duration
	TotalRunDuration time.Duration
	RunCount         int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddItemsFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsFetched += int64(n)
}

func (m *Metrics) RecordFilter(admitted, duplicates, old, missingDate int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsAdmitted += int64(admitted)
	m.DuplicatesFiltered += int64(duplicates)
	m.OldFiltered += int64(old)
	m.MissingDateFiltered += int64(missingDate)
}

func (m *Metrics) IncrementOracleCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OracleCalls++
}

func (m *Metrics) AddRefinementIterations(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefinementIterations += int64(n)
}

func (m *Metrics) IncrementSnapshotsWritten() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotsWritten++
}

func (m *Metrics) RecordRunDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRunDuration = duration
	m.TotalRunDuration += duration
	m.RunCount++
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	avg := time.Duration(0)
	if m.RunCount > 0 {
		avg = m.TotalRunDuration / time.Duration(m.RunCount)
	}

	return map[string]interface{}{
		"items_fetched":         m.ItemsFetched,
		"items_admitted":        m.ItemsAdmitted,
		"duplicates_filtered":   m.DuplicatesFiltered,
		"old_filtered":          m.OldFiltered,
		"missing_date_filtered": m.MissingDateFiltered,
		"oracle_calls":          m.OracleCalls,
		"refinement_iterations": m.RefinementIterations,
		"snapshots_written":     m.SnapshotsWritten,
		"last_run_duration_ms":  m.LastRunDuration.Milliseconds(),
		"avg_run_duration_ms":   avg.Milliseconds(),
		"last_run_time":         m.LastRunTime.Format(time.RFC3339),
		"last_error_time":       m.LastErrorTime.Format(time.RFC3339),
		"last_error":            m.LastError,
		"is_healthy":            m.IsHealthy,
	}
}
