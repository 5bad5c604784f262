package sink

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// captureSink records every batch written to it
type captureSink struct {
	mu      sync.Mutex
	batches [][]Record
	err     error
	block   chan struct{}
}

func (c *captureSink) Write(ctx context.Context, records []Record) error {

	if c.block != nil {
		<-c.block
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	c.batches = append(c.batches, records)
	return nil
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batches)
}

func record(trackID int64, frame int) Record {
	return Record{
		TrackID:    trackID,
		ClassName:  "person",
		Confidence: 0.9,
		X1:         10, Y1: 10, X2: 50, Y2: 90,
		FrameIndex: frame,
	}
}

// TestQueueDrains covers pushed batches reaching the sink in order
func TestQueueDrains(t *testing.T) {

	capture := &captureSink{}
	q := NewQueue(capture, 8)

	q.Push([]Record{record(1, 1)})
	q.Push([]Record{record(1, 2), record(2, 2)})
	q.Close()

	if got := capture.count(); got != 2 {
		t.Fatalf("got %d batches, want 2", got)
	}

	if got := capture.batches[1]; len(got) != 2 || got[0].FrameIndex != 2 {
		t.Errorf("second batch got %v, want two records of frame 2", got)
	}
}

// TestQueuePushNeverBlocks covers Push dropping batches once the buffer is
// full while the sink is stalled
func TestQueuePushNeverBlocks(t *testing.T) {

	capture := &captureSink{block: make(chan struct{})}
	q := NewQueue(capture, 1)

	done := make(chan struct{})

	go func() {
		// worker is stalled on the first batch, the second fills the
		// buffer and the rest must be dropped without blocking
		for i := 0; i < 10; i++ {
			q.Push([]Record{record(1, i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Push blocked on a full queue")
	}

	close(capture.block)
	q.Close()
}

// TestQueuePushAfterClose covers Push on a closed queue dropping the batch
// instead of panicking, and Close being safe to call again
func TestQueuePushAfterClose(t *testing.T) {

	capture := &captureSink{}
	q := NewQueue(capture, 8)

	q.Push([]Record{record(1, 1)})
	q.Close()

	q.Push([]Record{record(2, 2)})
	q.Close()

	if got := capture.count(); got != 1 {
		t.Errorf("got %d batches, want 1", got)
	}
}

// TestQueueDropsOnWriteError covers write failures being swallowed, a
// failing sink must not stop the worker
func TestQueueDropsOnWriteError(t *testing.T) {

	capture := &captureSink{err: errors.New("endpoint unreachable")}
	q := NewQueue(capture, 8)

	q.Push([]Record{record(1, 1)})
	q.Push([]Record{record(1, 2)})
	q.Close()

	if got := capture.count(); got != 0 {
		t.Errorf("got %d batches, want 0", got)
	}
}

// TestQueueIgnoresEmptyBatch covers empty pushes not reaching the sink
func TestQueueIgnoresEmptyBatch(t *testing.T) {

	capture := &captureSink{}
	q := NewQueue(capture, 8)

	q.Push(nil)
	q.Push([]Record{})
	q.Close()

	if got := capture.count(); got != 0 {
		t.Errorf("got %d batches, want 0", got)
	}
}

// TestMultiSink covers fan out to several sinks with the first error
// reported after all writes are attempted
func TestMultiSink(t *testing.T) {

	good := &captureSink{}
	bad := &captureSink{err: errors.New("boom")}
	late := &captureSink{}

	m := Multi{good, bad, late}

	err := m.Write(context.Background(), []Record{record(1, 1)})

	if err == nil {
		t.Errorf("expected error from failing sink")
	}
	if good.count() != 1 {
		t.Errorf("first sink got %d batches, want 1", good.count())
	}
	if late.count() != 1 {
		t.Errorf("sink after the failing one got %d batches, want 1", late.count())
	}
}
