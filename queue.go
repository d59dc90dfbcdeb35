package procmesh

import "sync"

// unboundedQueue is the single concurrency primitive behind every
// channel topology: a growable FIFO guarded by a mutex, with producer
// and consumer liveness tracked so both sides of the spec.md §4.1
// Delivered/Empty/Disconnected contract can be answered.
//
// Thread safety: safe for concurrent push/tryPop/pop/releaseProducer/
// closeConsumer from any number of goroutines.
type unboundedQueue[T any] struct {
	mu             sync.Mutex
	cond           *sync.Cond
	items          []T
	producers      int
	consumerClosed bool
}

func newUnboundedQueue[T any](producers int) *unboundedQueue[T] {
	q := &unboundedQueue[T]{producers: producers}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues v. It fails (returns false) once the consumer side has
// released its endpoint; the caller is expected to surface the message
// back to the sender in that case.
func (q *unboundedQueue[T]) push(v T) bool {
	q.mu.Lock()
	if q.consumerClosed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.cond.Signal()
	return true
}

// releaseProducer drops one producer handle. Once the count reaches
// zero, any blocked pop and every subsequent tryPop/pop report
// Disconnected once the backlog drains.
func (q *unboundedQueue[T]) releaseProducer() {
	q.mu.Lock()
	q.producers--
	q.mu.Unlock()
	q.cond.Broadcast()
}

// closeConsumer marks the consumer side released, causing subsequent
// push calls to fail.
func (q *unboundedQueue[T]) closeConsumer() {
	q.mu.Lock()
	q.consumerClosed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// tryPop is the nonblocking receive used by the polling run loops.
func (q *unboundedQueue[T]) tryPop() (T, RecvOutcome) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked(false)
}

// pop is the blocking receive used by the Asynchronous run loop.
func (q *unboundedQueue[T]) pop() (T, RecvOutcome) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && q.producers > 0 {
		q.cond.Wait()
	}
	return q.popLocked(true)
}

// popLocked assumes q.mu is held. blocking indicates whether the caller
// already waited for data, so an empty-and-live queue can only happen
// in the nonblocking path.
func (q *unboundedQueue[T]) popLocked(blocking bool) (T, RecvOutcome) {
	if len(q.items) > 0 {
		v := q.items[0]
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
		return v, Delivered
	}
	var zero T
	if blocking || q.producers == 0 {
		return zero, Disconnected
	}
	return zero, Empty
}
