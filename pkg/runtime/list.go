package runtime

import (
	"fmt"
	"strings"
)

// List is the ordered-sequence heap block behind IntList, DoubleList,
// BoolList, TensorList and GenericList values. Lists holding owning elements
// (tensors, Values) take ownership of what is stored and release it on
// overwrite and disposal.
type List[T any] struct {
	Header
	elems []T
	kind  Kind
	drop  func(*T)
}

func NewIntList(elems ...int64) *List[int64] {
	return &List[int64]{elems: append([]int64(nil), elems...), kind: KindIntList}
}

func NewDoubleList(elems ...float64) *List[float64] {
	return &List[float64]{elems: append([]float64(nil), elems...), kind: KindDoubleList}
}

func NewBoolList(elems ...bool) *List[bool] {
	return &List[bool]{elems: append([]bool(nil), elems...), kind: KindBoolList}
}

// NewTensorList adopts the caller's reference to each tensor.
func NewTensorList(elems ...Tensor) *List[Tensor] {
	return &List[Tensor]{
		elems: append([]Tensor(nil), elems...),
		kind:  KindTensorList,
		drop:  func(t *Tensor) { t.Release() },
	}
}

// NewGenericList adopts the caller's reference to each element.
func NewGenericList(elems ...Value) *List[Value] {
	return &List[Value]{
		elems: append([]Value(nil), elems...),
		kind:  KindGenericList,
		drop:  func(v *Value) { v.Release() },
	}
}

// Kind reports the Value kind a Value wrapping this list carries.
func (l *List[T]) Kind() Kind { return l.kind }

func (l *List[T]) Len() int { return len(l.elems) }

// Get returns the element at i. Owning elements are borrowed, not retained.
func (l *List[T]) Get(i int) T {
	if i < 0 || i >= len(l.elems) {
		panic(&ContractViolation{
			Kind:    ViolationOutOfRange,
			Op:      l.kind.String() + ".Get",
			Message: fmt.Sprintf("index %d out of range [0,%d)", i, len(l.elems)),
		})
	}
	return l.elems[i]
}

// Set stores v at i, releasing the element it replaces.
func (l *List[T]) Set(i int, v T) {
	if i < 0 || i >= len(l.elems) {
		panic(&ContractViolation{
			Kind:    ViolationOutOfRange,
			Op:      l.kind.String() + ".Set",
			Message: fmt.Sprintf("index %d out of range [0,%d)", i, len(l.elems)),
		})
	}
	if l.drop != nil {
		l.drop(&l.elems[i])
	}
	l.elems[i] = v
}

func (l *List[T]) Append(v ...T) {
	l.elems = append(l.elems, v...)
}

// Reserve grows capacity so that n more elements fit without reallocating.
func (l *List[T]) Reserve(n int) {
	if cap(l.elems)-len(l.elems) >= n {
		return
	}
	grown := make([]T, len(l.elems), len(l.elems)+n)
	copy(grown, l.elems)
	l.elems = grown
}

// Elements returns the backing slice. It aliases the list; owning elements
// are borrowed.
func (l *List[T]) Elements() []T { return l.elems }

// Snapshot copies the elements into a fresh slice. Owning elements are
// borrowed, not retained.
func (l *List[T]) Snapshot() []T {
	return append([]T(nil), l.elems...)
}

// Clear releases every element and empties the list.
func (l *List[T]) Clear() {
	if l.drop != nil {
		for i := range l.elems {
			l.drop(&l.elems[i])
		}
	}
	l.elems = l.elems[:0]
}

func (l *List[T]) Release() { Release(l) }

func (l *List[T]) dispose() {
	l.Clear()
	l.elems = nil
}

func (l *List[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range l.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, e)
	}
	b.WriteByte(']')
	return b.String()
}
