// Package routines provides a cooperative coroutine runtime with
// synchronous message passing, for a single operating-system thread.
//
// # Architecture
//
// The runtime is built around a [Runtime] that owns the process-wide
// scheduling state: the currently running coroutine (if any), the ready
// queue, a one-slot "just exited" coroutine awaiting stack release, and a
// pool of reusable coroutine backing goroutines (the stack pool). A
// [Coroutine] is a cooperative task: it has an entrypoint, an opaque
// argument, a lifecycle state ([State]), intrusive links for whichever
// coroutine queue currently holds it, and a join queue of coroutines
// waiting for it to complete. A [Queue] is a FIFO of opaque messages,
// plus a FIFO of coroutines parked waiting to receive from it.
//
// At most one coroutine runs at any instant; the runtime never performs
// preemption, work stealing, or multi-core parallelism. Every suspension
// point is explicit: [Runtime.Yield], [Runtime.Join], blocking
// [Runtime.Suspend] of self, [Runtime.Send] when nobody is waiting,
// [Runtime.Wait], [Runtime.Recv], and [Runtime.Call]. In addition, any send
// ([Runtime.Send], [Runtime.SignalMsg], [Runtime.Post], [Runtime.Call])
// that finds a receiver already parked hands control straight to that
// receiver, leaving the sender on the ready queue.
//
// # Context switching
//
// Each [Coroutine] is backed by a real goroutine, and a context switch is
// a rendezvous over a pair of unbuffered channels: the coroutine currently
// running parks itself on its own channel and wakes exactly one target by
// signalling its channel. Because only the signalled side is ever
// unblocked, the "at most one coroutine runs" invariant holds by
// construction, with no locking required anywhere in the scheduler.
//
// # Messaging
//
// [Runtime.Send], [Runtime.SignalMsg], [Runtime.Post], [Runtime.Call],
// [Runtime.Wait], [Runtime.Recv], and [Runtime.Read] implement the four
// public send/receive modes (blocking/non-blocking send, blocking/
// non-blocking receive) over two internal primitives: send (which
// performs a direct hand-off to a parked receiver, or else enqueues and
// optionally blocks the sender) and recv (which parks on the queue's
// receiver list if empty, or dequeues immediately).
//
// # Usage
//
//	rt := routines.New()
//	defer rt.Close()
//
//	q := rt.QueueCreate()
//	defer rt.QueueDestroy(q)
//
//	rt.Spawn(func(arg any) {
//		msg := rt.Wait(q)
//		fmt.Println("received:", msg)
//	}, nil)
//
//	rt.SignalMsg(q, "hello")
//
// # Error Types
//
// Contract violations — a nil queue, a nil coroutine, `Join` on a
// completed coroutine, calling a blocking operation outside a coroutine, a
// coroutine or queue passed to the wrong [Runtime] — panic with a
// [ContractViolation], never return a Go error. Graceful unparks (a
// destroyed queue, a force-suspended receiver) return a nil payload and nil
// reply queue; no error object crosses that path.
//
// # Logging
//
// [WithLogger] installs a structured [Logger]; the default is disabled and
// costs nothing. Once enabled, coroutine lifecycle transitions (spawn,
// join, suspend, resume, destroy, completion) and queue lifecycle (create,
// destroy) log at Debug, the per-transfer and per-rendezvous trace events
// log at Trace, and every [ContractViolation] logs at Error before it
// panics, except those raised by a nil [Coroutine]'s ID/State methods and
// by the internal double-queue-membership check, which have no Runtime to
// log through. [NewStumpyLogger] adapts a github.com/joeycumines/logiface logger
// backed by github.com/joeycumines/stumpy to the [Logger] interface.
package routines
