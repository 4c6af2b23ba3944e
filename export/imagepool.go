// Copyright 2024 The kxgraphics Authors. All rights reserved.

package export

import (
	"runtime"
	"sync"
)

// imagePool runs image-encode jobs on a bounded set of goroutines,
// joined before Write returns. Image discovery (and the index each
// image occupies in the emitted document) happens synchronously on
// the traversal goroutine; only the CPU-bound encode step itself
// runs on the pool. Results are merged back into the document
// single-threadedly after Wait, so output byte layout never depends
// on worker completion order.
type imagePool struct {
	jobs chan func()
	wg   sync.WaitGroup
}

// newImagePool starts a pool sized to the host's available
// parallelism.
func newImagePool() *imagePool {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	p := &imagePool{jobs: make(chan func())}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *imagePool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Submit enqueues fn to run on a pool worker. It blocks until a
// worker accepts the job.
func (p *imagePool) Submit(fn func()) { p.jobs <- fn }

// Wait closes the pool to new submissions and blocks until every
// submitted job has returned.
func (p *imagePool) Wait() {
	close(p.jobs)
	p.wg.Wait()
}
