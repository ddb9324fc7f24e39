package core

import "sync"

// Outbox is the bounded outbound queue for one client. The registry enqueues
// lines under its lock, so TrySend never blocks; a single drain goroutine on
// the transport side consumes Lines and writes them to the socket in order.
type Outbox struct {
	lines chan string
	once  sync.Once
}

// NewOutbox creates an outbox holding at most capacity undelivered lines.
func NewOutbox(capacity int) *Outbox {
	if capacity <= 0 {
		capacity = 1
	}
	return &Outbox{lines: make(chan string, capacity)}
}

// TrySend enqueues line without blocking. It reports false when the queue is
// full or already closed; the caller treats that as a drop for this recipient.
func (o *Outbox) TrySend(line string) (ok bool) {
	defer func() {
		// Sending on a closed channel panics; a closed outbox is a drop.
		if recover() != nil {
			ok = false
		}
	}()

	select {
	case o.lines <- line:
		return true
	default:
		return false
	}
}

// Lines exposes the consumer side for the drain goroutine.
func (o *Outbox) Lines() <-chan string {
	return o.lines
}

// Close stops the outbox. Lines already enqueued remain readable; idempotent.
func (o *Outbox) Close() {
	o.once.Do(func() {
		close(o.lines)
	})
}
