package perf_test

import (
	"sync/atomic"
	"testing"

	"github.com/release-ci-toolkit/release-runner/pkg/perf"
)

func TestNewWorkerPoolValidation(t *testing.T) {
	if _, err := perf.NewWorkerPool(0); err == nil {
		t.Error("zero workers must be rejected")
	}
	if _, err := perf.NewWorkerPool(-1); err == nil {
		t.Error("negative workers must be rejected")
	}
}

func TestBatchRunsAllTasks(t *testing.T) {
	pool, err := perf.NewWorkerPool(2)
	if err != nil {
		t.Fatal(err)
	}
	pool.Start()
	defer pool.Stop()

	var count atomic.Int32
	tasks := make([]func(), 4)
	for i := range tasks {
		tasks[i] = func() { count.Add(1) }
	}

	if err := pool.Batch(tasks); err != nil {
		t.Fatalf("Batch() failed: %v", err)
	}
	if got := count.Load(); got != 4 {
		t.Errorf("ran %d tasks, want 4", got)
	}
}

func TestBatchEmpty(t *testing.T) {
	pool, err := perf.NewWorkerPool(1)
	if err != nil {
		t.Fatal(err)
	}
	pool.Start()
	defer pool.Stop()

	if err := pool.Batch(nil); err != nil {
		t.Errorf("empty batch should succeed, got %v", err)
	}
}

func TestSubmitAfterStop(t *testing.T) {
	pool, err := perf.NewWorkerPool(1)
	if err != nil {
		t.Fatal(err)
	}
	pool.Start()
	pool.Stop()

	if pool.Submit(func() {}) {
		t.Error("submit after stop must be rejected")
	}
}

func TestSubmitNilTask(t *testing.T) {
	pool, err := perf.NewWorkerPool(1)
	if err != nil {
		t.Fatal(err)
	}
	pool.Start()
	defer pool.Stop()

	if pool.Submit(nil) {
		t.Error("nil task must be rejected")
	}
}

func TestPanicDoesNotKillPool(t *testing.T) {
	pool, err := perf.NewWorkerPool(1)
	if err != nil {
		t.Fatal(err)
	}
	pool.Start()
	defer pool.Stop()

	var ran atomic.Bool
	tasks := []func(){
		func() { panic("task panic") },
		func() { ran.Store(true) },
	}
	if err := pool.Batch(tasks); err != nil {
		t.Fatalf("Batch() failed: %v", err)
	}
	if !ran.Load() {
		t.Error("tasks after a panicking task should still run")
	}
}

func TestConcurrentSubmitAndStop(t *testing.T) {
	pool, err := perf.NewWorkerPool(2)
	if err != nil {
		t.Fatal(err)
	}
	pool.Start()

	// A submitter racing Stop must be refused cleanly, never panic on a
	// closed queue.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			pool.Submit(func() {})
		}
	}()

	pool.Stop()
	<-done
}

func TestStopDrainsQueuedTasks(t *testing.T) {
	pool, err := perf.NewWorkerPool(1)
	if err != nil {
		t.Fatal(err)
	}
	pool.Start()

	var count atomic.Int32
	for i := 0; i < 3; i++ {
		if !pool.Submit(func() { count.Add(1) }) {
			t.Fatal("submit should succeed on a running pool")
		}
	}

	pool.Stop()
	if got := count.Load(); got != 3 {
		t.Errorf("ran %d tasks after Stop, want 3", got)
	}
}

func TestStopIdempotent(t *testing.T) {
	pool, err := perf.NewWorkerPool(1)
	if err != nil {
		t.Fatal(err)
	}
	pool.Start()
	pool.Stop()
	pool.Stop()
}
