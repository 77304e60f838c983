// Package workpool implements the work-splitter concurrency primitive of
// the arithmetic core: a callable work(start, end) applied to disjoint
// sub-ranges of [0, n) by a fixed-size pool, enabled only once n crosses a
// caller-supplied threshold. It is the array/exponentiation analogue of the
// runtime's own WorkerPool (internal/concurrency in the teacher tree),
// narrowed from a job-queue/result-channel design to a range splitter and
// rebuilt on golang.org/x/sync/errgroup for the join instead of a
// hand-rolled sync.WaitGroup plus context.
package workpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Func is a unit of range-parallel work over the half-open interval
// [start, end).
type Func func(start, end int) error

// Split applies fn to n items. If n is at or below threshold, fn runs
// inline over the whole range on the calling goroutine (no suspension
// point, matching §5: "no other operation suspends"). Above threshold, n is
// partitioned into contiguous chunks, one per worker, and each chunk is
// run in parallel; Split blocks until every chunk completes or one
// returns an error, matching §5's unsupported cancellation of
// work-splitter tasks: once started, callers wait for completion.
func Split(n, threshold int, fn Func) error {
	if n <= threshold || n <= 1 {
		return fn(0, n)
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (n + workers - 1) / workers
	g, _ := errgroup.WithContext(context.Background())
	for start := 0; start < n; start += chunk {
		start := start
		end := start + chunk
		if end > n {
			end = n
		}
		g.Go(func() error {
			return fn(start, end)
		})
	}
	return g.Wait()
}

// Collector gathers partial products from parallel expProd/prod work in
// arrival order and lets the driver combine them once every contributor has
// reported, matching §5: "partial products ... are collected into a
// thread-safe sequence and combined by the driver in arrival order (valid
// because the group is abelian)".
type Collector[T any] struct {
	ch   chan T
	n    int
	errs chan error
}

// NewCollector allocates a Collector sized for n contributors.
func NewCollector[T any](n int) *Collector[T] {
	return &Collector[T]{ch: make(chan T, n), n: n, errs: make(chan error, n)}
}

// Submit records one contributor's partial result.
func (c *Collector[T]) Submit(v T) { c.ch <- v }

// SubmitError records one contributor's failure.
func (c *Collector[T]) SubmitError(err error) { c.errs <- err }

// Drain blocks until all n contributors have reported, returning their
// values in arrival order, or the first error observed.
func (c *Collector[T]) Drain() ([]T, error) {
	out := make([]T, 0, c.n)
	for i := 0; i < c.n; i++ {
		select {
		case v := <-c.ch:
			out = append(out, v)
		case err := <-c.errs:
			return nil, err
		}
	}
	return out, nil
}
