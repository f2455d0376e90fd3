// Package worker provides the per-post concurrency primitives: a bounded
// pool for upstream annotation/linking work and a per-host rate limiter
// for external services.
package worker

import (
	"context"
	"sync"
)

// Job is one independent unit of per-post work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	Err() error
}

// Pool runs jobs across a fixed number of workers. Jobs never share
// mutable state; any serialization (such as merging into the master graph)
// is the job implementations' concern.
//
// Results are collected continuously while jobs run, so callers may submit
// an arbitrarily large batch from a single goroutine before calling Wait
// without the bounded channels backing up.
type Pool struct {
	workers int
	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup

	collected []Result
	drained   chan struct{}
}

// NewPool creates a pool with the given number of workers (minimum 1)
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers),
		results: make(chan Result, workers),
		drained: make(chan struct{}),
	}
}

// Start launches the workers and the result collector
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				select {
				case p.results <- job.Execute(ctx):
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Only the collector touches collected until drained is closed
	go func() {
		for r := range p.results {
			p.collected = append(p.collected, r)
		}
		close(p.drained)
	}()
}

// Submit queues a job. Blocks when the queue is full.
func (p *Pool) Submit(ctx context.Context, job Job) {
	select {
	case p.jobs <- job:
	case <-ctx.Done():
	}
}

// Wait closes the queue, waits for the workers to drain it, and returns
// every result in completion order.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
	<-p.drained
	return p.collected
}
