package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countJob struct {
	counter *atomic.Int64
	err     error
}

type countResult struct {
	err error
}

func (r *countResult) Err() error { return r.err }

func (j *countJob) Execute(_ context.Context) Result {
	j.counter.Add(1)
	return &countResult{err: j.err}
}

func TestPool_RunsAllJobs(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(4)
	pool.Start(context.Background())

	const jobs = 20
	for i := 0; i < jobs; i++ {
		pool.Submit(context.Background(), &countJob{counter: &counter})
	}
	results := pool.Wait()

	if counter.Load() != jobs {
		t.Errorf("executed %d jobs, want %d", counter.Load(), jobs)
	}
	if len(results) != jobs {
		t.Errorf("collected %d results, want %d", len(results), jobs)
	}
}

func TestPool_LargeBatchFromOneGoroutine(t *testing.T) {
	// Batches far exceed the channel buffers; submitting everything before
	// Wait must not block on undrained results.
	var counter atomic.Int64
	pool := NewPool(4)
	pool.Start(context.Background())

	const jobs = 200
	done := make(chan []Result, 1)
	go func() {
		for i := 0; i < jobs; i++ {
			pool.Submit(context.Background(), &countJob{counter: &counter})
		}
		done <- pool.Wait()
	}()

	select {
	case results := <-done:
		if len(results) != jobs {
			t.Errorf("collected %d results, want %d", len(results), jobs)
		}
		if counter.Load() != jobs {
			t.Errorf("executed %d jobs, want %d", counter.Load(), jobs)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("pool blocked with submissions outstanding")
	}
}

func TestPool_CollectsErrors(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(2)
	pool.Start(context.Background())

	pool.Submit(context.Background(), &countJob{counter: &counter})
	pool.Submit(context.Background(), &countJob{counter: &counter, err: errors.New("boom")})
	results := pool.Wait()

	failed := 0
	for _, r := range results {
		if r.Err() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failed result, got %d", failed)
	}
}

func TestPool_MinimumOneWorker(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(0)
	pool.Start(context.Background())

	pool.Submit(context.Background(), &countJob{counter: &counter})
	pool.Wait()

	if counter.Load() != 1 {
		t.Error("expected job to run with clamped worker count")
	}
}

func TestPool_CancelStopsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var counter atomic.Int64
	pool := NewPool(1)
	pool.Start(ctx)

	pool.Submit(ctx, &countJob{counter: &counter})
	cancel()
	// Submissions after cancellation are dropped rather than queued
	pool.Submit(ctx, &countJob{counter: &counter})

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not shut down after cancellation")
	}
}
