package runtime

import "strings"

// Tuple is a fixed sequence of Values backed by a generic list block.
// Identity is the backing block; two tuples with equal elements are
// different tuples unless the caller compares them element-wise.
type Tuple struct {
	elems *List[Value]
}

// NewTuple adopts each element.
func NewTuple(elems ...Value) Tuple {
	return Tuple{elems: NewGenericList(elems...)}
}

// TupleFromList adopts the caller's reference to l.
func TupleFromList(l *List[Value]) Tuple {
	return Tuple{elems: l}
}

// Elements returns the shared backing list. It is borrowed; mutating it is
// visible to every Value referencing this tuple.
func (t Tuple) Elements() *List[Value] { return t.elems }

// TakeElements transfers the backing list to the caller and empties t.
func (t *Tuple) TakeElements() *List[Value] {
	l := t.elems
	t.elems = nil
	return l
}

func (t Tuple) Len() int {
	if t.elems == nil {
		return 0
	}
	return t.elems.Len()
}

// Get borrows element i.
func (t Tuple) Get(i int) Value {
	if t.elems == nil {
		panic(&ContractViolation{Kind: ViolationOutOfRange, Op: "Tuple.Get", Message: "empty tuple"})
	}
	return t.elems.Get(i)
}

func (t Tuple) Clone() Tuple {
	if t.elems != nil {
		Retain(t.elems)
	}
	return t
}

func (t *Tuple) Release() {
	if t.elems != nil {
		Release(t.elems)
		t.elems = nil
	}
}

func (t Tuple) UseCount() int64 {
	if t.elems == nil {
		return 0
	}
	return t.elems.UseCount()
}

func (t Tuple) String() string {
	var b strings.Builder
	b.WriteByte('(')
	if t.elems != nil {
		for i, e := range t.elems.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.String())
		}
		if len(t.elems.elems) == 1 {
			b.WriteByte(',')
		}
	}
	b.WriteByte(')')
	return b.String()
}
