package metrics

import (
	"sync"
	"time"
)

// RateTracker derives per-direction network throughput from consecutive
// counter samples. It owns the single piece of mutable state shared by the
// alert and status loops, so every read-modify-write of the previous
// counters happens under one lock.
type RateTracker struct {
	mu     sync.Mutex
	prev   Counters
	prevAt time.Time
	primed bool
}

func NewRateTracker() *RateTracker {
	return &RateTracker{}
}

// Observe computes rates from the elapsed wall time since the previous
// observation. Both loops call this with their own sample; the internal
// timestamp keeps the baseline consistent regardless of which loop ticked
// last.
func (t *RateTracker) Observe(cur Counters, at time.Time) (send, recv float64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var elapsed time.Duration
	if t.primed {
		elapsed = at.Sub(t.prevAt)
	}

	send, recv, ok = t.update(cur, elapsed)
	t.prevAt = at

	return send, recv, ok
}

// Update computes rates over an explicit elapsed interval. The previous
// counters are replaced exactly once per call regardless of outcome: a
// degraded result must not double-count traffic on the next tick.
func (t *RateTracker) Update(cur Counters, elapsed time.Duration) (send, recv float64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.update(cur, elapsed)
}

func (t *RateTracker) update(cur Counters, elapsed time.Duration) (send, recv float64, ok bool) {
	prev := t.prev
	primed := t.primed
	t.prev = cur
	t.primed = true

	// First-ever sample has no baseline; a zero or negative interval would
	// mean the scheduler drifted, and a counter going backwards means the
	// kernel reset it. All three degrade to unavailable.
	if !primed || elapsed <= 0 {
		return 0, 0, false
	}
	if cur.BytesSent < prev.BytesSent || cur.BytesRecv < prev.BytesRecv {
		return 0, 0, false
	}

	secs := elapsed.Seconds()
	send = float64(cur.BytesSent-prev.BytesSent) / secs
	recv = float64(cur.BytesRecv-prev.BytesRecv) / secs

	return send, recv, true
}
