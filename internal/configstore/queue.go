package configstore

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

type saveJob struct {
	version uint64
	token   string
	doc     *nav.Document
}

// saveQueue delivers jobs to one worker in push order. push never blocks, so
// a commit can not stall behind a slow server.
type saveQueue struct {
	mu      sync.Mutex
	pending []saveJob
	closed  bool

	wake chan struct{}
	done chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

func newSaveQueue(handle func(context.Context, saveJob)) *saveQueue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &saveQueue{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	go q.run(handle)
	return q
}

func (q *saveQueue) push(job saveJob) {
	q.mu.Lock()
	q.pending = append(q.pending, job)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *saveQueue) run(handle func(context.Context, saveJob)) {
	defer close(q.done)
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		closed := q.closed
		q.mu.Unlock()

		for _, job := range batch {
			if q.ctx.Err() != nil {
				return
			}
			handle(q.ctx, job)
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		select {
		case <-q.wake:
		case <-q.ctx.Done():
			return
		}
	}
}

// close drains the queue. When ctx expires first the remaining jobs are abandoned.
func (q *saveQueue) close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}

	select {
	case <-q.done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-q.done
		return ctx.Err()
	}
}
