package worker

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"github.com/baharkarakas/bank-ledger/internal/metrics"
)

type task func()

// Pool runs fire-and-forget jobs on a fixed number of goroutines.
type Pool struct {
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	jobs   chan task
	log    *zap.Logger
}

func NewPool(n, queue int, log *zap.Logger) *Pool {
	if n < 1 {
		n = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pool{jobs: make(chan task, queue), log: log.Named("worker")}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
				p.run(job)
			}
		}()
	}
	return p
}

// run keeps a panicking job from killing its worker.
func (p *Pool) run(job task) {
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error("job panicked", zap.Any("panic", rec), zap.ByteString("stack", debug.Stack()))
		}
	}()
	job()
}

// TrySubmit enqueues f without blocking. It returns false when the queue is
// full or the pool is stopped.
func (p *Pool) TrySubmit(f task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- f:
		metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
		return true
	default:
		metrics.WorkerDropped.Inc()
		return false
	}
}

// Stop rejects new jobs and waits for queued ones to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
