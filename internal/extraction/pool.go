// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"runtime"
	"sync"
)

// Pool is a fixed set of goroutines draining a task queue. One pool serves
// every batch of a run.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
	size  int
	once  sync.Once
}

// NewPool starts size workers; size <= 0 uses one worker per CPU.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{tasks: make(chan func()), size: size}
	p.wg.Add(size)
	for range size {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Submit hands task to the next idle worker, blocking while all are busy.
// Submit must not be called after Close.
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

// Close stops accepting tasks and waits for running ones to finish.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.tasks) })
	p.wg.Wait()
}
