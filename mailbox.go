package routines

// message is one entry in a Queue's pending-message list. sender is
// non-nil only while the sender is parked inside a blocking Send —
// SignalMsg, Post, and Call's send half all leave it nil.
type message struct {
	payload    any
	sender     *Coroutine
	replyQueue *Queue
	next       *message
}

// Queue is a message-passing queue. At any instant it holds either pending
// messages or parked receivers, never both — every send either completes a
// waiting recv directly or appends to the message list; every recv either
// takes the head message immediately or parks.
type Queue struct {
	rt        *Runtime
	head      *message
	tail      *message
	recvQueue coroutineQueue
}

func (q *Queue) pending() bool {
	return q.head != nil
}

func (q *Queue) enqueueMessage(payload any, sender *Coroutine, replyQueue *Queue) {
	m := &message{payload: payload, sender: sender, replyQueue: replyQueue}
	if q.tail != nil {
		q.tail.next = m
	} else {
		q.head = m
	}
	q.tail = m

	if q.rt.metrics != nil {
		q.rt.metrics.messagesSent.Add(1)
	}
	if q.rt.logger.Enabled(LevelTrace) {
		q.rt.logger.Event(LevelTrace, "message enqueued", "blocking", sender != nil)
	}

	if sender != nil {
		sender.message = m
		q.rt.transfer(nil, StateBlockedSend, nil)
	}
}

func (q *Queue) dequeueMessage() (payload any, replyQueue *Queue) {
	m := q.head
	if m == nil {
		return nil, nil
	}
	payload = m.payload
	replyQueue = m.replyQueue
	if m.sender != nil {
		q.rt.wake(m.sender)
	}
	q.head = m.next
	if q.head == nil {
		q.tail = nil
	}
	if q.rt.metrics != nil {
		q.rt.metrics.messagesDelivered.Add(1)
	}
	if q.rt.logger.Enabled(LevelTrace) {
		q.rt.logger.Event(LevelTrace, "message delivered")
	}
	return payload, replyQueue
}

// QueueCreate creates a new, empty message queue.
func (rt *Runtime) QueueCreate() *Queue {
	q := &Queue{rt: rt}
	rt.logger.Event(LevelDebug, "queue created")
	return q
}

// QueueDestroy discards every pending message and resumes every parked
// receiver. Resumed receivers see a nil payload and nil reply queue, as
// though the queue had simply been force-suspended out from under them.
func (rt *Runtime) QueueDestroy(q *Queue) {
	if q == nil {
		rt.violate(ReasonNilQueue, "QueueDestroy")
	}
	if q.rt != rt {
		rt.violate(ReasonForeignRuntime, "QueueDestroy: queue")
	}
	rt.logger.Event(LevelDebug, "queue destroyed")
	for q.pending() {
		q.dequeueMessage()
	}
	for {
		server := q.recvQueue.dequeue()
		if server == nil {
			break
		}
		rt.wake(server)
	}
}
