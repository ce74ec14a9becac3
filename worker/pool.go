// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package worker provides a bounded pool of compute goroutines for CPU-heavy
// jobs such as chain construction and cracking walks.
package worker

import (
	"sync"

	"github.com/btcsuite/btclog"
)

// log is a logger that is initialized with no output filters.  This means the
// package will not perform any logging by default until the caller requests
// it.
var log btclog.Logger

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// Disable logging by default until the package user requests it.
func init() {
	log = btclog.Disabled
}

// queueFactor sets the pool's high-water mark: once more than queueFactor
// jobs per worker are queued, Submit blocks the caller until a worker drains
// the backlog.
const queueFactor = 2

// Task is a handle to a submitted job.  Wait blocks until the job has run
// and returns its result.  Jobs are not cancellable once started.
type Task struct {
	fn     func() (any, error)
	result any
	err    error
	done   chan struct{}
}

// Wait blocks until the task has completed and returns the job's result and
// error.  It may be called from multiple goroutines and repeatedly.
func (t *Task) Wait() (any, error) {
	<-t.done
	return t.result, t.err
}

// Pool is a fixed-size set of compute workers fed from a bounded queue.
type Pool struct {
	jobs chan *Task
	wg   sync.WaitGroup

	mtx    sync.Mutex
	closed bool
}

// New creates a pool with the given number of compute workers and starts
// them.  A worker count below one is treated as one.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		jobs: make(chan *Task, workers*queueFactor),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	log.Debugf("Compute pool started with %d workers", workers)
	return p
}

// worker runs queued jobs until the queue is closed.
func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for task := range p.jobs {
		task.result, task.err = task.fn()
		close(task.done)
	}
	log.Tracef("Compute worker %d done", id)
}

// Submit queues fn for execution on the pool and returns a handle to its
// completion.  When the queue is at its high-water mark, Submit blocks the
// caller until a worker frees a slot.  Submitting to a closed pool panics,
// matching the invariant that owners close the pool only after all producers
// have stopped.
func (p *Pool) Submit(fn func() (any, error)) *Task {
	task := &Task{fn: fn, done: make(chan struct{})}
	p.jobs <- task
	return task
}

// MapOrdered runs fn for every index in 0 through n-1 on the pool and
// returns the results in index order regardless of the order in which the
// workers finished them.  The first error encountered is returned along with
// the partial results; remaining jobs still run to completion since started
// jobs cannot be cancelled.
func (p *Pool) MapOrdered(n int, fn func(i int) (any, error)) ([]any, error) {
	tasks := make([]*Task, n)
	for i := 0; i < n; i++ {
		i := i
		tasks[i] = p.Submit(func() (any, error) {
			return fn(i)
		})
	}

	results := make([]any, n)
	var firstErr error
	for i, task := range tasks {
		result, err := task.Wait()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		results[i] = result
	}
	return results, firstErr
}

// Close stops the workers after the queued jobs have drained and blocks
// until they have exited.  No jobs may be submitted once Close has been
// called.
func (p *Pool) Close() {
	p.mtx.Lock()
	if p.closed {
		p.mtx.Unlock()
		return
	}
	p.closed = true
	p.mtx.Unlock()

	close(p.jobs)
	p.wg.Wait()
	log.Debugf("Compute pool stopped")
}
