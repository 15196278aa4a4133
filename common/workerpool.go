package common

import (
	"errors"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/housepower/cohortcmp/log"
)

const (
	StateRunning uint32 = 0
	StateStopped uint32 = 1
)

var (
	MaxWorkersDefault int = MaxInt(2*runtime.NumCPU(), 10)

	ErrPoolStopped = errors.New("worker pool already stopped")
)

// WorkerPool runs submitted tasks on a fixed number of goroutines. Submit
// blocks once the queue is full.
type WorkerPool struct {
	submitted uint64
	finished  uint64
	workers   int

	tasks chan func()
	idle  *sync.Cond
	once  sync.Once
	state uint32
	sync.Mutex
}

// NewWorkerPool starts workers goroutines fed by a queue of queueSize tasks.
// Non positive sizes fall back to MaxWorkersDefault and twice the workers.
func NewWorkerPool(workers int, queueSize int) *WorkerPool {
	if workers <= 0 {
		workers = MaxWorkersDefault
	}
	if queueSize <= 0 {
		queueSize = 2 * workers
	}
	w := &WorkerPool{
		workers: workers,
		tasks:   make(chan func(), queueSize),
	}
	w.idle = sync.NewCond(w)
	for i := 0; i < workers; i++ {
		go w.work()
	}
	return w
}

func (w *WorkerPool) work() {
	for fn := range w.tasks {
		runTask(fn)
		w.Lock()
		w.finished++
		if w.submitted == w.finished {
			w.idle.Broadcast()
		}
		w.Unlock()
	}
}

func runTask(fn func()) {
	defer func() {
		if err := recover(); err != nil {
			log.Logger.Errorf("task panic: %v\n%v", err, string(debug.Stack()))
		}
	}()
	fn()
}

func (w *WorkerPool) Workers() int {
	return w.workers
}

// Submit queues fn. It fails once the pool is stopped.
func (w *WorkerPool) Submit(fn func()) error {
	if atomic.LoadUint32(&w.state) == StateStopped {
		return ErrPoolStopped
	}
	w.Lock()
	w.submitted++
	w.Unlock()

	w.tasks <- fn
	return nil
}

// Pending is the number of tasks queued or running.
func (w *WorkerPool) Pending() uint64 {
	w.Lock()
	defer w.Unlock()
	return w.submitted - w.finished
}

// Wait blocks until every submitted task has finished.
func (w *WorkerPool) Wait() {
	w.Lock()
	defer w.Unlock()
	for w.submitted != w.finished {
		w.idle.Wait()
	}
}

// Close rejects new tasks, waits for the queued ones and stops the workers.
func (w *WorkerPool) Close() {
	atomic.StoreUint32(&w.state, StateStopped)
	w.Wait()
	w.once.Do(func() {
		close(w.tasks)
	})
}
