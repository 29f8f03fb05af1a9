// Package tensor provides a small host-memory tensor satisfying
// runtime.TensorImpl. It exists so that interpreter values can carry real
// tensor handles without linking a numerics library; it does no arithmetic.
package tensor

import (
	"fmt"
	"sync/atomic"

	"able/valuecore/pkg/runtime"
)

// Dense is a contiguous float64 buffer with a shape.
type Dense struct {
	runtime.Header
	shape    []int64
	data     []float64
	device   runtime.Device
	disposed atomic.Bool
}

// New allocates a zero-filled tensor of the given shape on the CPU.
func New(shape ...int64) (*Dense, error) {
	n := int64(1)
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("tensor: negative dimension %d in shape %v", d, shape)
		}
		n *= d
	}
	return &Dense{
		shape:  append([]int64(nil), shape...),
		data:   make([]float64, n),
		device: runtime.CPU,
	}, nil
}

// FromData wraps data with the given shape. The element count must match.
func FromData(data []float64, shape ...int64) (*Dense, error) {
	t, err := New(shape...)
	if err != nil {
		return nil, err
	}
	if len(data) != len(t.data) {
		return nil, fmt.Errorf("tensor: %d values do not fill shape %v", len(data), shape)
	}
	copy(t.data, data)
	return t, nil
}

// Handle wraps t in a runtime.Tensor, handing over the caller's reference.
func (t *Dense) Handle() runtime.Tensor { return runtime.WrapTensor(t) }

func (t *Dense) Shape() []int64 { return t.shape }

func (t *Dense) Numel() int { return len(t.data) }

func (t *Dense) Data() []float64 { return t.data }

func (t *Dense) Device() runtime.Device { return t.device }

// Disposed reports whether the last owner released the tensor.
func (t *Dense) Disposed() bool { return t.disposed.Load() }

// Dispose frees the buffer once the last runtime reference is released.
func (t *Dense) Dispose() {
	t.data = nil
	t.disposed.Store(true)
}

func (t *Dense) String() string {
	return fmt.Sprintf("Tensor(shape=%v, device=%s)", t.shape, t.device)
}

// Of unwraps a runtime tensor produced by this package.
func Of(h runtime.Tensor) (*Dense, bool) {
	d, ok := h.Impl().(*Dense)
	return d, ok
}
