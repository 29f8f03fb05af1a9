package runtime

import "fmt"

// TypeDescriptor is the class metadata an Object is laid out against. It is
// owned by the surrounding type registry; objects only reference it.
type TypeDescriptor interface {
	Name() string
	// AttributeSlot resolves an attribute name to its slot index.
	AttributeSlot(name string) (int, bool)
	NumAttributes() int
}

// Object is the attribute storage of a user-defined instance. Methods live on
// the type descriptor, never on the object.
//
// Slots are not synchronized; concurrent writers must coordinate.
type Object struct {
	Header
	typ   TypeDescriptor
	slots []Value
}

// NewObject allocates numSlots None-initialised slots.
func NewObject(typ TypeDescriptor, numSlots int) *Object {
	if numSlots < 0 {
		numSlots = 0
	}
	return &Object{typ: typ, slots: make([]Value, numSlots)}
}

// NewObjectFor sizes the object to the descriptor's current attribute count.
func NewObjectFor(typ TypeDescriptor) *Object {
	n := 0
	if typ != nil {
		n = typ.NumAttributes()
	}
	return NewObject(typ, n)
}

func (o *Object) Type() TypeDescriptor { return o.typ }

func (o *Object) Name() string {
	if o.typ == nil {
		return "<anonymous>"
	}
	return o.typ.Name()
}

// Slots borrows the slot sequence.
func (o *Object) Slots() []Value { return o.slots }

func (o *Object) NumSlots() int { return len(o.slots) }

// GetSlot borrows slot i. Reading past the end is a contract violation.
func (o *Object) GetSlot(i int) Value {
	v, err := o.LookupSlot(i)
	if err != nil {
		panic(err)
	}
	return v
}

// LookupSlot is the checked form of GetSlot.
func (o *Object) LookupSlot(i int) (Value, error) {
	if i < 0 || i >= len(o.slots) {
		return Value{}, &ContractViolation{
			Kind:    ViolationOutOfRange,
			Op:      "Object.GetSlot",
			Message: fmt.Sprintf("slot %d out of range for %s with %d slots", i, o.Name(), len(o.slots)),
		}
	}
	return o.slots[i], nil
}

// SetSlot stores v at i, adopting its reference and releasing the previous
// occupant. Indices past the end grow the object with None slots, which
// happens when the type gained attributes after the object was built.
func (o *Object) SetSlot(i int, v Value) {
	if i < 0 {
		panic(&ContractViolation{
			Kind:    ViolationOutOfRange,
			Op:      "Object.SetSlot",
			Message: fmt.Sprintf("negative slot %d", i),
		})
	}
	if i >= len(o.slots) {
		o.resize(i + 1)
	}
	o.slots[i].Release()
	o.slots[i] = v
}

func (o *Object) resize(n int) {
	if n <= len(o.slots) {
		return
	}
	grown := make([]Value, n)
	copy(grown, o.slots)
	o.slots = grown
}

// GetAttr borrows the named attribute. An attribute declared after the
// object was built and never assigned reports ErrOutOfRange.
func (o *Object) GetAttr(name string) (Value, error) {
	slot, err := o.attributeSlot(name)
	if err != nil {
		return Value{}, err
	}
	return o.LookupSlot(slot)
}

// SetAttr stores v under name, adopting its reference. On error v is released.
func (o *Object) SetAttr(name string, v Value) error {
	slot, err := o.attributeSlot(name)
	if err != nil {
		v.Release()
		return err
	}
	o.SetSlot(slot, v)
	return nil
}

func (o *Object) attributeSlot(name string) (int, error) {
	if o.typ == nil {
		return 0, &UnknownAttributeError{TypeName: o.Name(), Name: name}
	}
	slot, ok := o.typ.AttributeSlot(name)
	if !ok {
		return 0, &UnknownAttributeError{TypeName: o.Name(), Name: name}
	}
	return slot, nil
}

func (o *Object) Release() { Release(o) }

func (o *Object) dispose() {
	for i := range o.slots {
		o.slots[i].Release()
	}
	o.slots = nil
}

func (o *Object) String() string {
	return fmt.Sprintf("<%s object with %d slots>", o.Name(), len(o.slots))
}
