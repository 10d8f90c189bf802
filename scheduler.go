package routines

// worker is a backing goroutine that runs coroutines on behalf of a
// Runtime. Workers are reused across coroutines: a worker that finishes
// running one coroutine waits to be handed the next, rather than exiting.
type worker struct {
	assign chan *Coroutine
}

// Runtime owns all cooperative-scheduling state: the currently running
// coroutine (if any), the ready queue, the coroutine that just exited and
// is awaiting its worker's release, and the pool of idle workers.
//
// A Runtime is not safe for concurrent use from multiple goroutines at
// once — it models a single logical OS thread. Exactly one goroutine may
// be "inside" the Runtime (as the host, or as the currently running
// coroutine) at any instant; the scheduler itself relies on this to stay
// lock-free.
type Runtime struct {
	current *Coroutine

	readyQueue coroutineQueue
	exited     *Coroutine

	idleWorkers []*worker
	rootResume  chan struct{}

	nextID uint64

	logger           Logger
	metrics          *Metrics
	allowNestedSpawn bool
}

// New constructs a Runtime. The returned Runtime has no coroutines; call
// [Runtime.Spawn] from the host goroutine to start one.
func New(opts ...Option) *Runtime {
	cfg := resolveOptions(opts)

	rt := &Runtime{
		rootResume:       make(chan struct{}),
		logger:           cfg.logger,
		allowNestedSpawn: cfg.allowNestedSpawn,
	}
	if cfg.metricsEnabled {
		rt.metrics = newMetrics()
	}
	for i := 0; i < cfg.stackPoolSize; i++ {
		rt.idleWorkers = append(rt.idleWorkers, rt.newWorker())
	}
	return rt
}

// Close stops every currently idle worker goroutine. It does not touch
// coroutines that are running, ready, blocked, or suspended — those keep
// their backing goroutines, which return to the idle pool only when the
// coroutine completes. Close is
// a best-effort cleanup for a Runtime the host is done with, not a
// forceful shutdown of in-flight work.
func (rt *Runtime) Close() {
	for _, w := range rt.idleWorkers {
		close(w.assign)
	}
	rt.idleWorkers = nil
}

// Self returns the coroutine currently running, or nil if called from the
// host rather than from within a coroutine.
func (rt *Runtime) Self() *Coroutine {
	return rt.current
}

func (rt *Runtime) newWorker() *worker {
	w := &worker{assign: make(chan *Coroutine)}
	go rt.workerLoop(w)
	return w
}

func (rt *Runtime) workerLoop(w *worker) {
	for co := range w.assign {
		<-co.resume
		co.entrypoint(co.arg)
		rt.finishCurrent(co, w)
	}
}

func (rt *Runtime) acquireWorker() *worker {
	n := len(rt.idleWorkers)
	if n == 0 {
		if rt.metrics != nil {
			rt.metrics.workersCreated.Add(1)
		}
		return rt.newWorker()
	}
	w := rt.idleWorkers[n-1]
	rt.idleWorkers = rt.idleWorkers[:n-1]
	if rt.metrics != nil {
		rt.metrics.workersReused.Add(1)
	}
	return w
}

func (rt *Runtime) releaseWorker(w *worker) {
	rt.idleWorkers = append(rt.idleWorkers, w)
}

// Spawn starts task as a new coroutine, running it immediately: control
// transfers to the new coroutine before Spawn returns, and the spawning
// context (host or coroutine) resumes only once the new coroutine yields,
// blocks, or completes.
func (rt *Runtime) Spawn(task func(any), arg any) *Coroutine {
	if task == nil {
		rt.violate(ReasonNilTask, "Spawn")
	}
	if rt.current != nil && !rt.allowNestedSpawn {
		rt.violate(ReasonNestedSpawnDisabled, "Spawn")
	}

	rt.nextID++
	co := &Coroutine{
		rt:         rt,
		id:         rt.nextID,
		entrypoint: task,
		arg:        arg,
		resume:     make(chan struct{}),
	}
	co.worker = rt.acquireWorker()
	co.worker.assign <- co

	if rt.metrics != nil {
		rt.metrics.spawned.Add(1)
	}
	rt.logger.Event(LevelDebug, "coroutine spawned", "id", co.id)

	rt.transfer(&rt.readyQueue, StateRunning, co)
	return co
}

// Yield suspends the current coroutine to the back of the ready queue and
// transfers to the next ready coroutine. If no other coroutine is ready,
// the caller is the one dequeued and it simply keeps running; a
// coroutine's Yield never hands control back to the host. Valid from the
// host too, in which case it is a no-op unless a coroutine is ready to run.
func (rt *Runtime) Yield() {
	rt.transfer(&rt.readyQueue, StateRunning, nil)
}

// Join blocks the current coroutine until coroutine completes.
func (rt *Runtime) Join(coroutine *Coroutine) {
	if rt.current == nil {
		rt.violate(ReasonNoCurrentCoroutine, "Join")
	}
	if coroutine == nil {
		rt.violate(ReasonNilCoroutine, "Join")
	}
	if coroutine.rt != rt {
		rt.violate(ReasonForeignRuntime, "Join: coroutine %d", coroutine.id)
	}
	if coroutine == rt.current {
		rt.violate(ReasonJoinSelf, "Join")
	}
	if coroutine.state == StateCompleted {
		rt.violate(ReasonJoinCompleted, "coroutine %d", coroutine.id)
	}
	rt.logger.Event(LevelDebug, "coroutine join", "id", rt.current.id, "target", coroutine.id)
	rt.transfer(&coroutine.joinQueue, StateBlockedJoin, nil)
}

// Suspend removes coroutine from whatever it is doing — the ready queue,
// a message queue's receiver list, or a blocking send — and parks it
// indefinitely. If coroutine was receiving, it later wakes (if resumed)
// with a nil message and nil reply queue. Suspending the current
// coroutine blocks until something resumes it.
func (rt *Runtime) Suspend(coroutine *Coroutine) {
	if coroutine == nil {
		rt.violate(ReasonNilCoroutine, "Suspend")
	}
	if coroutine.rt != rt {
		rt.violate(ReasonForeignRuntime, "Suspend: coroutine %d", coroutine.id)
	}
	rt.detach(coroutine)
	coroutine.state = StateSuspended
	rt.logger.Event(LevelDebug, "coroutine suspended", "id", coroutine.id)

	if coroutine == rt.current {
		rt.transfer(nil, StateSuspended, nil)
	}
}

// Resume makes a suspended (or otherwise blocked) coroutine ready again,
// without transferring control to it immediately.
func (rt *Runtime) Resume(coroutine *Coroutine) {
	if coroutine == nil {
		rt.violate(ReasonNilCoroutine, "Resume")
	}
	if coroutine.rt != rt {
		rt.violate(ReasonForeignRuntime, "Resume: coroutine %d", coroutine.id)
	}
	if coroutine == rt.current {
		rt.violate(ReasonResumeSelf, "Resume")
	}
	if coroutine.state == StateCompleted {
		rt.violate(ReasonResumeCompleted, "coroutine %d", coroutine.id)
	}
	rt.logger.Event(LevelDebug, "coroutine resumed", "id", coroutine.id)
	rt.detach(coroutine)
	rt.wake(coroutine)
}

// Destroy force-suspends coroutine and releases every coroutine blocked
// on Join for it, without ever resuming coroutine itself. Destroying the
// currently running coroutine parks it permanently — like Suspend of
// self, its backing goroutine never regains control, since nothing will
// resume it afterward. That goroutine is intentionally abandoned rather
// than reclaimed.
func (rt *Runtime) Destroy(coroutine *Coroutine) {
	if coroutine == nil {
		rt.violate(ReasonNilCoroutine, "Destroy")
	}
	if coroutine.rt != rt {
		rt.violate(ReasonForeignRuntime, "Destroy: coroutine %d", coroutine.id)
	}
	rt.logger.Event(LevelDebug, "coroutine destroyed", "id", coroutine.id)
	// Joiners are released before the suspend, because suspending the
	// current coroutine never returns here.
	for {
		joined := coroutine.joinQueue.dequeue()
		if joined == nil {
			break
		}
		rt.wake(joined)
	}
	rt.Suspend(coroutine)
}

// detach removes coroutine from any queue/message it is currently a
// member of, without changing its state. Shared by Suspend and Resume.
func (rt *Runtime) detach(coroutine *Coroutine) {
	if coroutine.message != nil {
		coroutine.message.sender = nil
		coroutine.message = nil
	}
	if coroutine.queue != nil {
		coroutine.queue.remove(coroutine)
	}
}

// wake marks coroutine ready and enqueues it, without transferring
// control. Used internally for every wakeup where the caller already
// knows the coroutine isn't current and isn't completed (join-queue
// wakeups, destroyed-queue wakeups, delivered-message sender wakeups).
func (rt *Runtime) wake(coroutine *Coroutine) {
	rt.detach(coroutine)
	coroutine.state = StateRunning
	rt.readyQueue.enqueue(coroutine)
}

// finishCurrent runs when co's entrypoint returns: it releases every
// coroutine joined on co, marks co completed, and transfers control to
// the next ready coroutine (or back to the host), leaving w to be
// recycled by whichever context resumes next.
func (rt *Runtime) finishCurrent(co *Coroutine, w *worker) {
	rt.logger.Event(LevelDebug, "coroutine completed", "id", co.id)

	for {
		joined := co.joinQueue.dequeue()
		if joined == nil {
			break
		}
		rt.wake(joined)
	}

	if rt.metrics != nil {
		rt.metrics.completed.Add(1)
	}

	co.worker = w
	co.state = StateCompleted
	rt.exited = co

	next := rt.readyQueue.dequeue()
	rt.current = next

	if next != nil {
		next.state = StateRunning
		next.resume <- struct{}{}
	} else {
		rt.rootResume <- struct{}{}
	}
}

// transfer is the scheduler's single context-switch primitive. If the
// current coroutine exists, it is moved into selfQueue (if non-nil) with
// state selfState. Control then passes to target, or to the next ready
// coroutine if target is nil, or to the host if the ready queue is empty.
//
// Each side of the switch is a goroutine parking on its own channel and
// waking the other side's: the coroutine being suspended (or the host,
// via rootResume) blocks on its own channel until transferred back to,
// while the target is woken by a send on its channel. Because a send only
// proceeds once its receiver is ready to receive, and every participant
// immediately parks again after handing off, at most one side is ever
// runnable, with no lock required anywhere in this exchange.
func (rt *Runtime) transfer(selfQueue *coroutineQueue, selfState State, target *Coroutine) {
	if rt.logger.Enabled(LevelTrace) {
		rt.traceTransfer(selfState, target)
	}

	self := rt.current
	if self != nil {
		self.state = selfState
		if selfQueue != nil {
			selfQueue.enqueue(self)
		}
	}

	if target == nil {
		target = rt.readyQueue.dequeue()
	}
	rt.current = target

	if self == nil && target == nil {
		// Host yielding (or otherwise transferring) with nothing runnable:
		// there is nobody to hand off to and nobody to park.
		return
	}

	if target == self {
		// self was the only entry in selfQueue, so the dequeue above just
		// handed it straight back: yielding with nothing else ready. A
		// save/long-jump pair resumes its own context for free here; a
		// channel rendezvous can't send and receive with itself, so this
		// is the one case transfer must special-case as a no-op.
		self.state = StateRunning
		rt.releaseExited()
		return
	}

	var targetWake chan struct{}
	if target != nil {
		target.state = StateRunning
		targetWake = target.resume
	} else {
		targetWake = rt.rootResume
	}

	var selfWake chan struct{}
	if self != nil {
		selfWake = self.resume
	} else {
		selfWake = rt.rootResume
	}

	targetWake <- struct{}{}
	<-selfWake

	rt.releaseExited()
}

// traceTransfer emits the Trace-level "coroutine transfer" event. Split out
// of transfer and called only once rt.logger.Enabled(LevelTrace) is known
// true, so the fields (and the id/state lookups that build them) are never
// constructed on the default, disabled-logger path.
func (rt *Runtime) traceTransfer(selfState State, target *Coroutine) {
	fields := make([]any, 0, 6)
	if rt.current != nil {
		fields = append(fields, "from", rt.current.id, "to_state", selfState.String())
	}
	if target != nil {
		fields = append(fields, "target", target.id)
	}
	rt.logger.Event(LevelTrace, "coroutine transfer", fields...)
}

// releaseExited returns the just-completed coroutine's worker to the idle
// pool, if one is pending. Called from the resumed side of every transfer.
func (rt *Runtime) releaseExited() {
	if rt.exited == nil {
		return
	}
	rt.releaseWorker(rt.exited.worker)
	rt.exited.worker = nil
	rt.exited = nil
}
