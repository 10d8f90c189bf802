package routines

import "sync/atomic"

// Metrics holds the opt-in counters enabled by [WithMetrics]. All fields
// are atomic so they can be read from any goroutine concurrently with the
// Runtime — unlike the scheduler itself, metrics reads are not part of
// the single-logical-thread contract.
type Metrics struct {
	spawned           atomic.Uint64
	completed         atomic.Uint64
	workersCreated    atomic.Uint64
	workersReused     atomic.Uint64
	messagesSent      atomic.Uint64
	messagesDelivered atomic.Uint64
}

func newMetrics() *Metrics {
	return &Metrics{}
}

// MetricsSnapshot is a point-in-time copy of a Runtime's counters.
type MetricsSnapshot struct {
	Spawned           uint64
	Completed         uint64
	WorkersCreated    uint64
	WorkersReused     uint64
	MessagesSent      uint64
	MessagesDelivered uint64
}

func (m *Metrics) snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Spawned:           m.spawned.Load(),
		Completed:         m.completed.Load(),
		WorkersCreated:    m.workersCreated.Load(),
		WorkersReused:     m.workersReused.Load(),
		MessagesSent:      m.messagesSent.Load(),
		MessagesDelivered: m.messagesDelivered.Load(),
	}
}

// Metrics returns a snapshot of the Runtime's counters, and false if
// [WithMetrics] was not enabled at construction.
func (rt *Runtime) Metrics() (MetricsSnapshot, bool) {
	if rt.metrics == nil {
		return MetricsSnapshot{}, false
	}
	return rt.metrics.snapshot(), true
}
