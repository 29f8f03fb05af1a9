// Package executor runs tasks in the background and reports their outcome
// through runtime futures.
package executor

import (
	"context"
	"errors"
	"log/slog"
	goRuntime "runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"able/valuecore/pkg/runtime"
)

// ErrClosed completes futures submitted to a closed executor.
var ErrClosed = errors.New("executor: closed")

// Task is a unit of work whose result completes a future. On success the
// returned Value is handed to the future; on error it is released.
type Task func(ctx context.Context) (runtime.Value, error)

// Executor abstracts the scheduling strategy. RunFuture returns a future the
// caller owns one reference to.
type Executor interface {
	RunFuture(task Task) *runtime.Future
	Flush()
	PendingTasks() int
}

type executorBase struct {
	logger *slog.Logger
}

func (b *executorBase) safeInvoke(ctx context.Context, task Task) (result runtime.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result.Release()
			b.logger.Error("task panicked", "panic", r)
			err = runtime.NewFutureError("panic: %v", r)
		}
	}()
	if task == nil {
		return runtime.None(), runtime.NewFutureError("nil task")
	}
	return task(withLogger(ctx, b.logger))
}

func (b *executorBase) applyOutcome(future *runtime.Future, result runtime.Value, err error) {
	if err != nil {
		result.Release()
		b.logger.Debug("task failed", "error", err)
		future.MarkCompletedWithError(err)
		return
	}
	future.MarkCompleted(result)
}

// GoroutineExecutor runs each task on its own goroutine. With MaxWorkers set,
// tasks beyond the limit wait for a free slot.
type GoroutineExecutor struct {
	executorBase
	sem     *semaphore.Weighted
	pending atomic.Int64
}

func NewGoroutineExecutor(cfg Config) *GoroutineExecutor {
	cfg = cfg.withDefaults()
	exec := &GoroutineExecutor{executorBase: executorBase{logger: cfg.Logger}}
	if cfg.MaxWorkers > 0 {
		exec.sem = semaphore.NewWeighted(int64(cfg.MaxWorkers))
	}
	return exec
}

func (e *GoroutineExecutor) RunFuture(task Task) *runtime.Future {
	return e.RunFutureContext(context.Background(), task)
}

// RunFutureContext is RunFuture with a context handed to the task. A context
// that ends while the task waits for a worker slot fails the future. A nil
// context is treated as context.Background().
func (e *GoroutineExecutor) RunFutureContext(ctx context.Context, task Task) *runtime.Future {
	if ctx == nil {
		ctx = context.Background()
	}
	future := runtime.NewFuture()
	// The executor keeps its own reference until the outcome is applied, so
	// the caller may drop the future at any time.
	held := future.Retain()
	e.pending.Add(1)
	go e.runTask(ctx, held, task)
	return future
}

func (e *GoroutineExecutor) runTask(ctx context.Context, future *runtime.Future, task Task) {
	defer e.pending.Add(-1)
	defer future.Release()
	if e.sem != nil {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			e.applyOutcome(future, runtime.None(), err)
			return
		}
		defer e.sem.Release(1)
	}
	result, err := e.safeInvoke(ctx, task)
	e.applyOutcome(future, result, err)
}

// Flush yields until every submitted task has finished.
func (e *GoroutineExecutor) Flush() {
	for e.pending.Load() > 0 {
		goRuntime.Gosched()
	}
}

func (e *GoroutineExecutor) PendingTasks() int {
	pending := e.pending.Load()
	if pending < 0 {
		return 0
	}
	return int(pending)
}

type serialTask struct {
	future *runtime.Future
	task   Task
}

// SerialExecutor runs tasks one at a time, in submission order, on a single
// worker goroutine. Tests use it for a deterministic schedule.
type SerialExecutor struct {
	executorBase

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []serialTask
	active bool
	closed bool
	done   chan struct{}
}

func NewSerialExecutor(cfg Config) *SerialExecutor {
	cfg = cfg.withDefaults()
	exec := &SerialExecutor{
		executorBase: executorBase{logger: cfg.Logger},
		done:         make(chan struct{}),
	}
	exec.cond = sync.NewCond(&exec.mu)
	go exec.loop()
	return exec
}

func (e *SerialExecutor) RunFuture(task Task) *runtime.Future {
	future := runtime.NewFuture()
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		e.logger.Debug("task rejected by closed serial executor")
		future.MarkCompletedWithError(ErrClosed)
		return future
	}
	e.queue = append(e.queue, serialTask{future: future.Retain(), task: task})
	e.cond.Broadcast()
	e.mu.Unlock()
	return future
}

func (e *SerialExecutor) loop() {
	defer close(e.done)
	for {
		task, ok := e.nextTask()
		if !ok {
			return
		}
		result, err := e.safeInvoke(context.Background(), task.task)
		e.applyOutcome(task.future, result, err)
		task.future.Release()

		e.mu.Lock()
		e.active = false
		e.cond.Broadcast()
		e.mu.Unlock()
	}
}

func (e *SerialExecutor) nextTask() (serialTask, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) == 0 && !e.closed {
		e.cond.Wait()
	}
	if len(e.queue) == 0 {
		return serialTask{}, false
	}
	task := e.queue[0]
	e.queue[0] = serialTask{}
	e.queue = e.queue[1:]
	e.active = true
	return task, true
}

// Flush blocks until the queue is empty and no task is running.
func (e *SerialExecutor) Flush() {
	e.mu.Lock()
	for len(e.queue) > 0 || e.active {
		e.cond.Wait()
	}
	e.mu.Unlock()
}

func (e *SerialExecutor) PendingTasks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.queue)
	if e.active {
		n++
	}
	return n
}

// Close stops accepting tasks. Already queued tasks still run; Close returns
// once the worker has drained them, so it must not be called from a task.
func (e *SerialExecutor) Close() {
	e.mu.Lock()
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()
	<-e.done
}
