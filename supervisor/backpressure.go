package supervisor

import "sync/atomic"

// Backpressure is a high/low-water-mark gate on active session count,
// grounded on module/conn_limiter.go's pattern of a small stateful gate
// struct consulted once per incoming connection. Once active sessions
// reach high, new connections are refused until the count drops below
// low (or to zero), preventing the worker pool from accepting more sessions than
// it can service without its read loops starving each other.
type Backpressure struct {
	active int64
	high   int64
	low    int64
	tripped atomic.Bool
}

// NewBackpressure builds a gate with the given high and low water
// marks. low must not exceed high; a zero high disables the gate.
func NewBackpressure(high, low int64) *Backpressure {
	return &Backpressure{high: high, low: low}
}

// Allow reports whether a new session may be admitted right now.
func (b *Backpressure) Allow() bool {
	if b.high <= 0 {
		return true
	}
	return !b.tripped.Load()
}

// Enter records one more active session, tripping the gate if the high
// water mark is reached.
func (b *Backpressure) Enter() {
	n := atomic.AddInt64(&b.active, 1)
	if b.high > 0 && n >= b.high {
		b.tripped.Store(true)
	}
}

// Leave records a session ending, clearing the gate once the count
// falls below the low water mark or reaches zero.
func (b *Backpressure) Leave() {
	n := atomic.AddInt64(&b.active, -1)
	if n < b.low || n <= 0 {
		b.tripped.Store(false)
	}
}

// Active returns the current session count, used to feed the
// Backpressure metric.
func (b *Backpressure) Active() int64 { return atomic.LoadInt64(&b.active) }

// Ratio returns Active/high as a float in [0,1], or 0 if the gate is
// disabled.
func (b *Backpressure) Ratio() float64 {
	if b.high <= 0 {
		return 0
	}
	return float64(b.Active()) / float64(b.high)
}
