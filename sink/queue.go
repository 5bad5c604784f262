package sink

import (
	"context"
	"log"
	"sync"
)

// Queue drains batches of records to a Sink on its own worker goroutine so
// the frame pump never waits on store latency.  Push is non blocking, when
// the queue is full the batch is dropped with a warning.
type Queue struct {
	// batches buffers pending record batches for the worker
	batches chan []Record
	// sink receives the drained batches
	sink Sink
	// done is closed once the worker has drained and exited
	done chan struct{}
	// mu guards closed so Push and Close can race safely
	mu sync.Mutex
	// closed marks the queue shut, later pushes drop their batch
	closed bool
}

// NewQueue creates a queue draining to the given sink, buffering up to size
// pending batches, and starts its worker
func NewQueue(sink Sink, size int) *Queue {

	q := &Queue{
		batches: make(chan []Record, size),
		sink:    sink,
		done:    make(chan struct{}),
	}

	go q.worker()

	return q
}

// Push enqueues a batch of records without blocking.  An empty batch is
// ignored, a full queue drops the batch with a warning and a closed queue
// does the same.
func (q *Queue) Push(records []Record) {

	if len(records) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		log.Printf("sink queue closed, dropping %d records", len(records))
		return
	}

	select {
	case q.batches <- records:
	default:
		log.Printf("sink queue full, dropping %d records", len(records))
	}
}

// Close stops accepting batches, waits for the worker to drain the queue
// and returns.  Close may be called more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.batches)
	}
	q.mu.Unlock()

	<-q.done
}

// worker drains the queue to the sink.  Write failures are logged and the
// batch is dropped, per frame logging is best effort.
func (q *Queue) worker() {

	defer close(q.done)

	for batch := range q.batches {
		if err := q.sink.Write(context.Background(), batch); err != nil {
			log.Printf("sink write failed, dropping %d records: %v", len(batch), err)
		}
	}
}
