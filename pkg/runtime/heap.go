package runtime

import "sync/atomic"

// Header is the reference count embedded in every heap-backed payload. The
// zero Header accounts for exactly one owner, so a freshly built block is
// owned by whoever constructed it.
type Header struct {
	// extra holds owners beyond the first; -1 means the block was released.
	extra atomic.Int64
}

func (h *Header) header() *Header { return h }

// UseCount reports the number of live owners. It is 0 once the block has
// been released.
func (h *Header) UseCount() int64 {
	return h.extra.Load() + 1
}

// HeapObject is implemented by any type embedding Header.
type HeapObject interface {
	header() *Header
	UseCount() int64
}

// Disposer lets heap payloads defined outside this package (tensors, mostly)
// drop resources once the last owner releases them.
type Disposer interface {
	Dispose()
}

type disposer interface {
	dispose()
}

// Retain adds an owner to h.
func Retain(h HeapObject) {
	if h == nil {
		return
	}
	if h.header().extra.Add(1) <= 0 {
		panic(&ContractViolation{Kind: ViolationReleased, Op: "Retain"})
	}
}

// Release drops an owner from h, disposing the block when none remain.
func Release(h HeapObject) {
	if h == nil {
		return
	}
	remaining := h.header().extra.Add(-1)
	switch {
	case remaining > -1:
		return
	case remaining < -1:
		panic(&ContractViolation{Kind: ViolationReleased, Op: "Release"})
	}
	switch d := h.(type) {
	case disposer:
		d.dispose()
	case Disposer:
		d.Dispose()
	}
}

// UseCount reports the live owners of h; nil reports 0.
func UseCount(h HeapObject) int64 {
	if h == nil {
		return 0
	}
	return h.UseCount()
}
