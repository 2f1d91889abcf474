// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0
//
// Adapted from the workerpool package of github.com/ajroetker/go-highway
// (hwy/contrib/workerpool): persistent workers, atomic index hand-out and
// chunked ranges, reshaped around region tasks.

package fastimage

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of persistent worker goroutines shared by every
// execution that is handed the pool. Workers are spawned once by NewPool and
// live until Close.
//
// Usage:
//
//	pool := fastimage.NewPool(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	engine := fastimage.NewEngine(pool)
//	for _, b := range buffers {
//	    engine.Apply(b, fastimage.Negative(), fastimage.InPlace)
//	}
//
// Close must not be called while a Run is in flight.
type Pool struct {
	workers   int
	workC     chan workItem
	closeOnce sync.Once
	closed    atomic.Bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// NewPool creates a pool of n workers. If n <= 0, GOMAXPROCS is used.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: n,
		workC:   make(chan workItem, n*2),
	}
	for range n {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int { return p.workers }

// Close shuts down the pool. Pending work completes first.
// Calling Close multiple times is safe; a closed pool runs work on the caller.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// Run executes every task and blocks until all of them have returned.
// Tasks are handed out to workers one at a time, so long tasks do not hold
// back the remaining ones.
func (p *Pool) Run(tasks []func()) {
	p.ParallelFor(len(tasks), func(i int) { tasks[i]() })
}

// ParallelFor calls fn for each index in [0, n) and blocks until all calls
// have returned. Indices are claimed atomically by the workers.
func (p *Pool) ParallelFor(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := min(p.workers, n)
	if workers == 1 || p.closed.Load() {
		for i := range n {
			fn(i)
		}
		return
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					i := int(next.Add(1)) - 1
					if i >= n {
						return
					}
					fn(i)
				}
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelRange splits [0, n) into contiguous chunks, one per worker, and
// calls fn(start, end) for each chunk.
func (p *Pool) ParallelRange(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(p.workers, n)
	chunk := (n + workers - 1) / workers
	p.ParallelFor((n+chunk-1)/chunk, func(i int) {
		start := i * chunk
		fn(start, min(start+chunk, n))
	})
}
