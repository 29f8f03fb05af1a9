package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// FutureStatus is the observable lifecycle state of a Future.
type FutureStatus int

const (
	FuturePending FutureStatus = iota
	FutureCompleted
	FutureFailed
)

func (s FutureStatus) String() string {
	switch s {
	case FuturePending:
		return "pending"
	case FutureCompleted:
		return "completed"
	case FutureFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown_status_%d", int(s))
	}
}

// Future is a single-assignment result with callback fan-out. It moves from
// pending to exactly one terminal state, completed with a value or with a
// FutureError, and never leaves it.
type Future struct {
	Header

	mu        sync.Mutex
	completed atomic.Bool
	value     Value
	err       *FutureError
	callbacks []func()
}

func NewFuture() *Future {
	return &Future{}
}

// Completed is a single atomic load; it never blocks.
func (f *Future) Completed() bool { return f.completed.Load() }

func (f *Future) Status() FutureStatus {
	if !f.completed.Load() {
		return FuturePending
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return FutureFailed
	}
	return FutureCompleted
}

// Wait blocks until the future completes. A completed future returns
// without taking the lock.
func (f *Future) Wait() {
	if f.completed.Load() {
		return
	}
	done := make(chan struct{})
	f.AddCallback(func() { close(done) })
	<-done
}

// WaitContext is Wait with cancellation. The future itself is unaffected when
// ctx ends first; the registered wake-up callback simply fires into nothing.
func (f *Future) WaitContext(ctx context.Context) error {
	if f.completed.Load() {
		return nil
	}
	done := make(chan struct{})
	f.AddCallback(func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MarkCompleted stores v (adopting its reference) and fires the callbacks
// on the calling goroutine. Completing twice is a contract violation.
func (f *Future) MarkCompleted(v Value) {
	f.mu.Lock()
	if f.completed.Load() {
		f.mu.Unlock()
		v.Release()
		panic(&ContractViolation{Kind: ViolationDoubleCompletion, Op: "Future.MarkCompleted"})
	}
	f.value = v
	callbacks := f.seal()
	f.mu.Unlock()
	fire(callbacks)
}

// MarkCompletedWithError completes the future with err, wrapped in a
// FutureError unless it already is one.
func (f *Future) MarkCompletedWithError(err error) {
	if err == nil {
		err = &FutureError{Message: "future completed with nil error"}
	}
	fe := asFutureError(err)
	f.mu.Lock()
	if f.completed.Load() {
		f.mu.Unlock()
		panic(&ContractViolation{Kind: ViolationDoubleCompletion, Op: "Future.MarkCompletedWithError"})
	}
	f.err = fe
	callbacks := f.seal()
	f.mu.Unlock()
	fire(callbacks)
}

// seal flips the future to completed and detaches the callback list. Must be
// called with mu held; once completed is set no callback can be appended.
func (f *Future) seal() []func() {
	f.completed.Store(true)
	callbacks := f.callbacks
	f.callbacks = nil
	return callbacks
}

func fire(callbacks []func()) {
	for _, cb := range callbacks {
		cb()
	}
}

// AddCallback runs cb once the future completes. If it already has, cb runs
// immediately on the calling goroutine with no lock held.
func (f *Future) AddCallback(cb func()) {
	if cb == nil {
		return
	}
	f.mu.Lock()
	if f.completed.Load() {
		f.mu.Unlock()
		cb()
		return
	}
	f.callbacks = append(f.callbacks, cb)
	f.mu.Unlock()
}

// Value returns a new reference to the result, or the FutureError the future
// failed with. Calling it before completion is a contract violation; Wait first.
func (f *Future) Value() (Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.completed.Load() {
		panic(&ContractViolation{Kind: ViolationNotCompleted, Op: "Future.Value"})
	}
	if f.err != nil {
		return Value{}, f.err
	}
	return f.value.Clone(), nil
}

// HasError reports whether the future failed. Pending futures report false.
func (f *Future) HasError() bool {
	if !f.completed.Load() {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err != nil
}

// Error returns the failure, nil while pending or when completed with a value.
func (f *Future) Error() *FutureError {
	if !f.completed.Load() {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Retain hands out another owner, for producers that must keep the future
// alive while a task runs.
func (f *Future) Retain() *Future {
	Retain(f)
	return f
}

func (f *Future) Release() { Release(f) }

func (f *Future) dispose() {
	f.mu.Lock()
	v := f.value.Take()
	f.callbacks = nil
	f.mu.Unlock()
	v.Release()
}

func (f *Future) String() string {
	if !f.completed.Load() {
		return "Future(pending)"
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return fmt.Sprintf("Future(error: %s)", f.err.Error())
	}
	return fmt.Sprintf("Future(%s)", f.value)
}
