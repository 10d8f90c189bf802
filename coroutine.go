package routines

// State is the lifecycle state of a [Coroutine].
type State int32

const (
	StateCompleted State = iota
	StateSuspended
	StateRunning
	StateBlockedSend
	StateBlockedRecv
	StateBlockedJoin
)

func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateBlockedSend:
		return "blocked-send"
	case StateBlockedRecv:
		return "blocked-recv"
	case StateBlockedJoin:
		return "blocked-join"
	default:
		return "unknown"
	}
}

// Coroutine is a cooperative task spawned by [Runtime.Spawn]. The zero value
// is not usable; a Coroutine is only ever obtained from Spawn.
type Coroutine struct {
	rt         *Runtime
	id         uint64
	entrypoint func(any)
	arg        any
	state      State

	// resume is the rendezvous channel this coroutine's backing goroutine
	// parks on between transfers. Exactly one send ever wakes it at a time.
	resume chan struct{}
	// worker is the backing goroutine currently running this coroutine. Set
	// when spawned, reassigned to the idle pool once the coroutine
	// completes and the next runner releases it.
	worker *worker

	// joinQueue holds coroutines parked in Join on this one.
	joinQueue coroutineQueue

	// message is set while blocked inside a blocking Send: it points at
	// this coroutine's own pending message node, so a force-Suspend can
	// detach it (clearing the sender) without disturbing the message.
	message *message

	// queue is the coroutineQueue this coroutine currently sits in (the
	// ready queue, a Queue's receiver list, or a join queue), or nil.
	queue      *coroutineQueue
	prev, next *Coroutine
}

// ID returns a value unique among coroutines spawned by the same Runtime.
// Intended for logging and debugging, not for equality checks — compare
// *Coroutine pointers directly for that.
func (c *Coroutine) ID() uint64 {
	if c == nil {
		violate(ReasonNilCoroutine, "ID")
	}
	return c.id
}

// State reports the coroutine's current lifecycle state.
func (c *Coroutine) State() State {
	if c == nil {
		violate(ReasonNilCoroutine, "State")
	}
	return c.state
}
