// Package batch runs analysis tasks in fixed-size concurrent groups with
// a pause between groups, keeping the submission analyzer under the AI
// gateway's effective throughput. One queue instance is shared by the
// whole process and injected where needed.
package batch

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Result is the settled outcome of one enqueued task.
type Result struct {
	Value any
	Err   error
}

// Task is one unit of queued work.
type Task func() (any, error)

type queued struct {
	run  Task
	done chan Result
}

// Queue drains tasks in groups of GroupSize. Tasks inside a group run
// concurrently and settle independently; a failing task is logged and
// resolved with its own error without cancelling its siblings. Groups are
// strictly sequential with GroupDelay between them. There is no priority
// and no cancellation: once enqueued, a task runs.
type Queue struct {
	groupSize  int
	groupDelay time.Duration
	log        zerolog.Logger

	mu      sync.Mutex
	pending []queued
	running bool
}

// New builds a queue. groupSize must be at least 1.
func New(groupSize int, groupDelay time.Duration, log zerolog.Logger) *Queue {
	if groupSize < 1 {
		groupSize = 1
	}
	return &Queue{
		groupSize:  groupSize,
		groupDelay: groupDelay,
		log:        log,
	}
}

// Enqueue adds a task and returns a channel that receives exactly one
// Result when that task settles. The drain loop starts lazily on the
// first enqueue and exits when the queue empties.
func (q *Queue) Enqueue(task Task) <-chan Result {
	done := make(chan Result, 1)

	q.mu.Lock()
	q.pending = append(q.pending, queued{run: task, done: done})
	start := !q.running
	if start {
		q.running = true
	}
	q.mu.Unlock()

	if start {
		go q.drain()
	}
	return done
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		n := q.groupSize
		if n > len(q.pending) {
			n = len(q.pending)
		}
		group := q.pending[:n]
		q.pending = q.pending[n:]
		q.mu.Unlock()

		q.log.Info().Int("group_size", len(group)).Msg("Processing analysis group")

		var wg sync.WaitGroup
		for _, item := range group {
			wg.Add(1)
			go func(item queued) {
				defer wg.Done()
				item.done <- q.runOne(item.run)
			}(item)
		}
		wg.Wait()

		// Re-check after the group settles: tasks enqueued while the
		// group ran still get the inter-group pause.
		q.mu.Lock()
		more := len(q.pending) > 0
		q.mu.Unlock()
		if more {
			q.log.Debug().Dur("delay", q.groupDelay).Msg("Pausing before next group")
			time.Sleep(q.groupDelay)
		}
	}
}

// runOne executes a task, converting panics and errors into a settled
// Result so the rest of the group is never torn down.
func (q *Queue) runOne(task Task) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error().Interface("panic", r).Msg("Batch task panicked")
			res = Result{Err: fmt.Errorf("batch: task panicked: %v", r)}
		}
	}()

	value, err := task()
	if err != nil {
		q.log.Error().Err(err).Msg("Batch task failed")
		return Result{Err: err}
	}
	return Result{Value: value}
}
