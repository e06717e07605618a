// File: internal/concurrency/executor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor dispatches tasks to one worker goroutine per logical processor.
// Each worker locks its OS thread, pins it and optionally sets its priority
// before taking tasks. A worker whose pin or priority request is refused
// keeps running unpinned; the refusal shows in Stats.

package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"github.com/momentics/hwtopo/api"
	"go.uber.org/zap"
)

// ErrExecutorClosed is returned by Submit after Close.
var ErrExecutorClosed = api.NewError(api.ErrCodeEngineClosed, "executor closed")

// TaskFunc is a unit of work. lp is the logical processor of the worker
// running it.
type TaskFunc func(lp int)

// Pinner applies affinity and priority to the calling thread.
// *facade.Engine implements it.
type Pinner interface {
	PinThreadToCore(lp int) error
	SetThreadPriority(p api.ThreadPriority) error
}

// Config parameterizes an Executor.
type Config struct {
	// LogicalProcessors gets one worker each.
	LogicalProcessors []int
	// Priority is applied to every worker thread when SetPriority is true.
	Priority    api.ThreadPriority
	SetPriority bool
	Logger      *zap.Logger
}

// Executor manages the pinned workers.
type Executor struct {
	pinner Pinner
	cfg    Config
	log    *zap.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	tasks  *queue.Queue
	closed bool
	wg     sync.WaitGroup

	// statistics
	totalTasks     atomic.Int64
	completedTasks atomic.Int64
	pinned         atomic.Int64
	prioritized    atomic.Int64
}

// NewExecutor starts the workers and returns once every worker has applied
// its pinning and priority.
func NewExecutor(p Pinner, cfg Config) (*Executor, error) {
	if len(cfg.LogicalProcessors) == 0 {
		return nil, api.NewError(api.ErrCodeInvalidParameter, "executor needs at least one logical processor")
	}
	if cfg.SetPriority && !cfg.Priority.Valid() {
		return nil, api.Errorf(api.ErrCodeInvalidParameter, "invalid thread priority %d", int(cfg.Priority))
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	e := &Executor{
		pinner: p,
		cfg:    cfg,
		log:    log.Named("executor"),
		tasks:  queue.New(),
	}
	e.cond = sync.NewCond(&e.mu)

	var ready sync.WaitGroup
	for _, lp := range cfg.LogicalProcessors {
		ready.Add(1)
		e.wg.Add(1)
		go e.run(lp, &ready)
	}
	ready.Wait()
	return e, nil
}

// Submit enqueues a task, returning ErrExecutorClosed if the executor is
// closed.
func (e *Executor) Submit(task TaskFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrExecutorClosed
	}
	e.tasks.Add(task)
	e.totalTasks.Add(1)
	e.cond.Signal()
	return nil
}

// NumWorkers returns the number of workers.
func (e *Executor) NumWorkers() int {
	return len(e.cfg.LogicalProcessors)
}

// Close stops accepting tasks, lets the workers drain the queue and waits
// for them to exit.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()
	e.wg.Wait()
}

// Stats returns basic executor metrics.
func (e *Executor) Stats() map[string]int64 {
	total := e.totalTasks.Load()
	completed := e.completedTasks.Load()
	return map[string]int64{
		"total_tasks":         total,
		"completed_tasks":     completed,
		"pending_tasks":       total - completed,
		"num_workers":         int64(e.NumWorkers()),
		"pinned_workers":      e.pinned.Load(),
		"prioritized_workers": e.prioritized.Load(),
	}
}

func (e *Executor) next() (TaskFunc, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.tasks.Length() == 0 && !e.closed {
		e.cond.Wait()
	}
	if e.tasks.Length() == 0 {
		return nil, false
	}
	return e.tasks.Remove().(TaskFunc), true
}

// run never unlocks its OS thread: the runtime discards the thread when the
// worker exits, so a changed affinity or priority cannot leak to other
// goroutines.
func (e *Executor) run(lp int, ready *sync.WaitGroup) {
	defer e.wg.Done()
	runtime.LockOSThread()

	if err := e.pinner.PinThreadToCore(lp); err != nil {
		e.log.Warn("worker left unpinned", zap.Int("lp", lp), zap.Error(err))
	} else {
		e.pinned.Add(1)
	}
	if e.cfg.SetPriority {
		if err := e.pinner.SetThreadPriority(e.cfg.Priority); err != nil {
			e.log.Warn("worker priority refused", zap.Int("lp", lp),
				zap.Stringer("priority", e.cfg.Priority), zap.Error(err))
		} else {
			e.prioritized.Add(1)
		}
	}
	ready.Done()

	for {
		task, ok := e.next()
		if !ok {
			return
		}
		task(lp)
		e.completedTasks.Add(1)
	}
}
