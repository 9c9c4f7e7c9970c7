// Package locktrack wraps a sync.RWMutex with per-caller wait/hold time
// counters, the way _examples/original_source/src/monitored_rwlock.rs
// tracks lock contention — but under a mutex of its own, independent of the
// lock it watches, per the concurrency model's "shared resources" rule.
package locktrack

import (
	"sync"
	"time"
)

// Lock is a read/write lock instrumented with per-caller timing.
type Lock struct {
	mu sync.RWMutex

	statsMu sync.Mutex
	stats   map[string]*callerStats
}

type callerStats struct {
	readCount  int64
	readWait   time.Duration
	readHold   time.Duration
	writeCount int64
	writeWait  time.Duration
	writeHold  time.Duration
}

// New returns a ready-to-use tracked lock.
func New() *Lock {
	return &Lock{stats: make(map[string]*callerStats)}
}

func (l *Lock) statsFor(caller string) *callerStats {
	l.statsMu.Lock()
	defer l.statsMu.Unlock()
	s, ok := l.stats[caller]
	if !ok {
		s = &callerStats{}
		l.stats[caller] = s
	}
	return s
}

// RLock acquires the read lock on behalf of caller, recording wait time, and
// returns an unlock function that records the hold time when called.
func (l *Lock) RLock(caller string) (unlock func()) {
	start := time.Now()
	l.mu.RLock()
	waited := time.Since(start)
	heldFrom := time.Now()

	return func() {
		l.mu.RUnlock()
		s := l.statsFor(caller)
		l.statsMu.Lock()
		s.readCount++
		s.readWait += waited
		s.readHold += time.Since(heldFrom)
		l.statsMu.Unlock()
	}
}

// Lock acquires the write lock on behalf of caller, recording wait time, and
// returns an unlock function that records the hold time when called.
func (l *Lock) Lock(caller string) (unlock func()) {
	start := time.Now()
	l.mu.Lock()
	waited := time.Since(start)
	heldFrom := time.Now()

	return func() {
		l.mu.Unlock()
		s := l.statsFor(caller)
		l.statsMu.Lock()
		s.writeCount++
		s.writeWait += waited
		s.writeHold += time.Since(heldFrom)
		l.statsMu.Unlock()
	}
}

// CallerSnapshot is the averaged stats for a single named caller.
type CallerSnapshot struct {
	ReadHoldAvgMillis  float64 `json:"read_hold_avg_ms"`
	WriteHoldAvgMillis float64 `json:"write_hold_avg_ms"`
}

// Snapshot is the aggregated lock telemetry exposed by the diagnostics endpoint.
type Snapshot struct {
	ReadWaitAvgMillis  float64                    `json:"read_wait_avg_ms"`
	WriteWaitAvgMillis float64                    `json:"write_wait_avg_ms"`
	ByCaller           map[string]CallerSnapshot `json:"by_caller"`
}

// Stats renders a point-in-time snapshot of every caller's running averages.
func (l *Lock) Stats() Snapshot {
	l.statsMu.Lock()
	defer l.statsMu.Unlock()

	var readCount, writeCount int64
	var readWait, writeWait time.Duration
	byCaller := make(map[string]CallerSnapshot, len(l.stats))

	for name, s := range l.stats {
		readCount += s.readCount
		writeCount += s.writeCount
		readWait += s.readWait
		writeWait += s.writeWait

		byCaller[name] = CallerSnapshot{
			ReadHoldAvgMillis:  avgMillis(s.readHold, s.readCount),
			WriteHoldAvgMillis: avgMillis(s.writeHold, s.writeCount),
		}
	}

	return Snapshot{
		ReadWaitAvgMillis:  avgMillis(readWait, readCount),
		WriteWaitAvgMillis: avgMillis(writeWait, writeCount),
		ByCaller:           byCaller,
	}
}

func avgMillis(total time.Duration, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total.Microseconds()) / 1000.0 / float64(count)
}
