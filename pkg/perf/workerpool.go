// Package perf provides concurrency utilities for matrix execution
package perf

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// WorkerPool runs independent tasks concurrently. The release matrix
// fans out one task per platform; tasks share no state, so the pool does
// no coordination beyond bounding concurrency.
type WorkerPool struct {
	maxWorkers int
	taskQueue  chan func()
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	stopped    atomic.Bool
	activeJobs atomic.Int32

	// queueMu serializes queue sends against the close in Stop, so a
	// Submit racing Stop can never send on a closed channel.
	queueMu sync.RWMutex
}

// NewWorkerPool creates a pool with the given concurrency bound.
func NewWorkerPool(maxWorkers int) (*WorkerPool, error) {
	if maxWorkers <= 0 {
		return nil, fmt.Errorf("maxWorkers must be positive, got %d", maxWorkers)
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		maxWorkers: maxWorkers,
		taskQueue:  make(chan func(), maxWorkers*2),
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Start starts the workers.
func (p *WorkerPool) Start() {
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	// Workers drain the queue until it closes, so tasks accepted just
	// before Stop still run.
	for task := range p.taskQueue {
		p.activeJobs.Add(1)
		func() {
			defer p.activeJobs.Add(-1)
			defer func() {
				// A panicking task must not take the worker down
				// with it; the other platforms keep running.
				_ = recover()
			}()
			task()
		}()
	}
}

// Submit queues a task. Returns false if the pool is stopped, the task
// is nil, or the queue is full. Safe to call concurrently with Stop.
func (p *WorkerPool) Submit(task func()) bool {
	if task == nil {
		return false
	}

	p.queueMu.RLock()
	defer p.queueMu.RUnlock()
	if p.stopped.Load() {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.taskQueue <- task:
		return true
	default:
		return false
	}
}

// Batch submits all tasks and waits for them to complete.
func (p *WorkerPool) Batch(tasks []func()) error {
	if len(tasks) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		t := task
		if !p.Submit(func() {
			defer wg.Done()
			t()
		}) {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("failed to submit task to worker pool")
		}
	}

	wg.Wait()
	return nil
}

// Stop stops the pool gracefully: no new submissions, already-queued
// tasks drain, then the workers exit. Safe to call multiple times.
func (p *WorkerPool) Stop() {
	if !p.stopped.CompareAndSwap(false, true) {
		return
	}
	p.cancel()

	// The write lock waits out any Submit holding the read lock, so the
	// queue only closes once no send can be in flight.
	p.queueMu.Lock()
	close(p.taskQueue)
	p.queueMu.Unlock()

	p.wg.Wait()
}

// ActiveJobs returns the number of currently running tasks.
func (p *WorkerPool) ActiveJobs() int {
	return int(p.activeJobs.Load())
}
