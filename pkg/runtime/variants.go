package runtime

import "fmt"

//-----------------------------------------------------------------------------
// Strings
//-----------------------------------------------------------------------------

// ConstantString is immutable text shared between Values.
type ConstantString struct {
	Header
	str string
}

func NewConstantString(s string) *ConstantString {
	return &ConstantString{str: s}
}

func (s *ConstantString) String() string { return s.str }

// Release drops the caller's reference.
func (s *ConstantString) Release() { Release(s) }

//-----------------------------------------------------------------------------
// Blobs
//-----------------------------------------------------------------------------

// Blob carries an arbitrary host payload behind a reference count.
type Blob struct {
	Header
	payload any
}

func NewBlob(payload any) *Blob {
	return &Blob{payload: payload}
}

// Payload returns the wrapped host value.
func (b *Blob) Payload() any { return b.payload }

func (b *Blob) Release() { Release(b) }

func (b *Blob) dispose() {
	if d, ok := b.payload.(Disposer); ok {
		d.Dispose()
	}
	b.payload = nil
}

func (b *Blob) String() string {
	return fmt.Sprintf("Blob(%T)", b.payload)
}

//-----------------------------------------------------------------------------
// Tensors
//-----------------------------------------------------------------------------

// TensorImpl is the storage the numerics library hands out. Implementations
// embed Header; they may implement Disposer to free buffers.
type TensorImpl interface {
	HeapObject
}

// Tensor is an owning handle to a TensorImpl. The zero Tensor is the
// undefined tensor.
type Tensor struct {
	impl TensorImpl
}

// WrapTensor adopts the caller's reference to impl.
func WrapTensor(impl TensorImpl) Tensor {
	return Tensor{impl: impl}
}

// UndefinedTensor returns the tensor with no storage.
func UndefinedTensor() Tensor { return Tensor{} }

func (t Tensor) Defined() bool { return t.impl != nil }

// Impl returns the borrowed storage, nil when undefined.
func (t Tensor) Impl() TensorImpl { return t.impl }

// Clone returns a second owning handle to the same storage.
func (t Tensor) Clone() Tensor {
	if t.impl != nil {
		Retain(t.impl)
	}
	return t
}

// Release drops this handle's reference and leaves it undefined.
func (t *Tensor) Release() {
	if t.impl != nil {
		Release(t.impl)
		t.impl = nil
	}
}

// UseCount reports the storage's live owners, 0 when undefined.
func (t Tensor) UseCount() int64 {
	return UseCount(t.impl)
}

func (t Tensor) String() string {
	if t.impl == nil {
		return "Tensor(undefined)"
	}
	if s, ok := t.impl.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("Tensor(%p)", t.impl)
}
