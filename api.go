package routines

// sendPrimitive is the common send path: if a receiver is already parked
// on the queue, the message is handed off and control transfers to that
// receiver directly; otherwise the message is appended, blocking the
// caller only if sender is non-nil.
func (rt *Runtime) sendPrimitive(q *Queue, payload any, sender *Coroutine, replyQueue *Queue) {
	server := q.recvQueue.dequeue()
	if server != nil {
		q.enqueueMessage(payload, nil, replyQueue)
		rt.transfer(&rt.readyQueue, StateRunning, server)
		return
	}
	q.enqueueMessage(payload, sender, replyQueue)
}

// recvPrimitive is the common receive path: park on the queue's receiver
// list if nothing is pending, then take the head message.
func (rt *Runtime) recvPrimitive(q *Queue) (payload any, replyQueue *Queue) {
	if !q.pending() {
		rt.transfer(&q.recvQueue, StateBlockedRecv, nil)
	}
	return q.dequeueMessage()
}

// Send delivers message to q, blocking the current coroutine until a
// receiver takes it. Use [Runtime.SignalMsg] for a non-blocking send.
func (rt *Runtime) Send(q *Queue, message any) {
	if rt.current == nil {
		rt.violate(ReasonNoCurrentCoroutine, "Send")
	}
	if q == nil {
		rt.violate(ReasonNilQueue, "Send")
	}
	if q.rt != rt {
		rt.violate(ReasonForeignRuntime, "Send: queue")
	}
	rt.sendPrimitive(q, message, rt.current, nil)
}

// SignalMsg delivers message to q without blocking, whether or not a
// receiver is waiting. Unlike the other send/receive operations, SignalMsg
// may be called from the host thread as well as from a coroutine: an outer
// poll loop has no current coroutine of its own, but still needs to wake
// whatever is parked waiting for an external event. See
// [Runtime.Wait]/[Runtime.Recv] on the receiving side.
func (rt *Runtime) SignalMsg(q *Queue, message any) {
	if q == nil {
		rt.violate(ReasonNilQueue, "SignalMsg")
	}
	if q.rt != rt {
		rt.violate(ReasonForeignRuntime, "SignalMsg: queue")
	}
	rt.sendPrimitive(q, message, nil, nil)
}

// Post delivers message to sendQueue without blocking, recording
// replyQueue as where a later reply should go (paired with
// [Runtime.Recv] on the receiving side).
func (rt *Runtime) Post(sendQueue *Queue, message any, replyQueue *Queue) {
	if rt.current == nil {
		rt.violate(ReasonNoCurrentCoroutine, "Post")
	}
	if sendQueue == nil {
		rt.violate(ReasonNilQueue, "Post")
	}
	if sendQueue.rt != rt {
		rt.violate(ReasonForeignRuntime, "Post: send queue")
	}
	if replyQueue != nil && replyQueue.rt != rt {
		rt.violate(ReasonForeignRuntime, "Post: reply queue")
	}
	rt.sendPrimitive(sendQueue, message, nil, replyQueue)
}

// Wait blocks the current coroutine until a message is available on q,
// then returns it.
func (rt *Runtime) Wait(q *Queue) any {
	if rt.current == nil {
		rt.violate(ReasonNoCurrentCoroutine, "Wait")
	}
	if q == nil {
		rt.violate(ReasonNilQueue, "Wait")
	}
	if q.rt != rt {
		rt.violate(ReasonForeignRuntime, "Wait: queue")
	}
	payload, _ := rt.recvPrimitive(q)
	return payload
}

// Recv blocks the current coroutine until a message is available on
// recvQueue, returning both the message and the reply queue supplied by
// the sender (via [Runtime.Post] or [Runtime.Call]), if any.
func (rt *Runtime) Recv(recvQueue *Queue) (message any, replyQueue *Queue) {
	if rt.current == nil {
		rt.violate(ReasonNoCurrentCoroutine, "Recv")
	}
	if recvQueue == nil {
		rt.violate(ReasonNilQueue, "Recv")
	}
	if recvQueue.rt != rt {
		rt.violate(ReasonForeignRuntime, "Recv: queue")
	}
	return rt.recvPrimitive(recvQueue)
}

// Read returns the next pending message on q without blocking, or nil if
// none is available.
func (rt *Runtime) Read(q *Queue) any {
	if rt.current == nil {
		rt.violate(ReasonNoCurrentCoroutine, "Read")
	}
	if q == nil {
		rt.violate(ReasonNilQueue, "Read")
	}
	if q.rt != rt {
		rt.violate(ReasonForeignRuntime, "Read: queue")
	}
	if !q.pending() {
		return nil
	}
	payload, _ := rt.recvPrimitive(q)
	return payload
}

// Call sends message to sendQueue and blocks until a reply arrives on
// replyQueue, returning it. This is the request/response counterpart to a
// server coroutine's [Runtime.Recv]/[Runtime.Post] (or
// [Runtime.SignalMsg]) pair.
func (rt *Runtime) Call(sendQueue *Queue, message any, replyQueue *Queue) any {
	if rt.current == nil {
		rt.violate(ReasonNoCurrentCoroutine, "Call")
	}
	if sendQueue == nil {
		rt.violate(ReasonNilQueue, "Call")
	}
	if replyQueue == nil {
		rt.violate(ReasonNilQueue, "Call reply queue")
	}
	if sendQueue.rt != rt {
		rt.violate(ReasonForeignRuntime, "Call: send queue")
	}
	if replyQueue.rt != rt {
		rt.violate(ReasonForeignRuntime, "Call: reply queue")
	}
	rt.sendPrimitive(sendQueue, message, nil, replyQueue)
	reply, _ := rt.recvPrimitive(replyQueue)
	return reply
}
