package worker

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/panics"
)

// Task is a unit of work producing R
type Task[R any] func(ctx context.Context) R

// Outcome is the settled result of one task.
// Seq is the order in which the task was accepted by Submit.
// Panic is set when the task panicked; Value is then the zero R.
type Outcome[R any] struct {
	Seq   int
	Value R
	Panic *panics.Recovered
}

type queued[R any] struct {
	seq  int
	task Task[R]
}

// Pool runs tasks on a fixed number of workers bound to a parent context.
// A panicking task is reported in its Outcome and does not stop its worker.
type Pool[R any] struct {
	workers   int
	queue     chan queued[R]
	outcomes  chan Outcome[R]
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu   sync.Mutex
	next int
}

// NewPool creates a pool whose tasks are cancelled when ctx is
func NewPool[R any](ctx context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[R]{
		workers:  workers,
		queue:    make(chan queued[R], workers*2),
		outcomes: make(chan Outcome[R], workers*2),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the workers
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool[R]) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case item, ok := <-p.queue:
			if !ok {
				return
			}
			out := Outcome[R]{Seq: item.seq}
			var catcher panics.Catcher
			catcher.Try(func() { out.Value = item.task(p.ctx) })
			out.Panic = catcher.Recovered()

			select {
			case p.outcomes <- out:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a task and returns its sequence number.
// ok is false if the pool was cancelled first.
func (p *Pool[R]) Submit(task Task[R]) (seq int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return -1, false
	case p.queue <- queued[R]{seq: p.next, task: task}:
		seq = p.next
		p.next++
		return seq, true
	}
}

// Outcomes returns the channel outcomes arrive on.
// It is closed once Close has been called and every worker has exited.
func (p *Pool[R]) Outcomes() <-chan Outcome[R] {
	return p.outcomes
}

// Close stops accepting tasks; workers exit after draining the queue
func (p *Pool[R]) Close() {
	close(p.queue)
	go func() {
		p.wg.Wait()
		p.closeOutcomes()
	}()
}

// Wait closes the pool and collects every outcome
func (p *Pool[R]) Wait() []Outcome[R] {
	p.Close()

	var outcomes []Outcome[R]
	for out := range p.outcomes {
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// Shutdown cancels in-flight tasks and stops the workers
func (p *Pool[R]) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeOutcomes()
}

func (p *Pool[R]) closeOutcomes() {
	p.closeOnce.Do(func() {
		close(p.outcomes)
	})
}
