package runtime

import (
	"math"
)

// Value is the tagged union every interpreter datum is carried in. Scalars
// (Bool, Int, Double, Device) and the borrowed Scalar handle live inline;
// every other kind owns one reference to a heap block.
//
// Plain assignment of a Value copies the handle without touching the
// reference count, i.e. it borrows. Use Clone to take a second reference,
// Take to move ownership out, and Release to drop it. The zero Value is None.
type Value struct {
	kind   Kind
	bits   uint64
	opaque Scalar
	heap   HeapObject
}

//-----------------------------------------------------------------------------
// Constructors
//-----------------------------------------------------------------------------

func None() Value { return Value{} }

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.bits = 1
	}
	return v
}

func Int(i int64) Value { return Value{kind: KindInt, bits: uint64(i)} }

func Double(f float64) Value { return Value{kind: KindDouble, bits: math.Float64bits(f)} }

func FromDevice(d Device) Value { return Value{kind: KindDevice, bits: d.pack()} }

// FromScalar stores a borrowed numerics handle.
func FromScalar(s Scalar) Value { return Value{kind: KindScalar, opaque: s} }

// Str allocates a ConstantString holding s.
func Str(s string) Value { return FromConstantString(NewConstantString(s)) }

// The From* constructors below adopt the caller's reference to the block.

func FromConstantString(s *ConstantString) Value {
	return Value{kind: KindString, heap: s}
}

func FromTensor(t Tensor) Value {
	if t.impl == nil {
		return Value{kind: KindTensor}
	}
	return Value{kind: KindTensor, heap: t.impl}
}

func FromTuple(t Tuple) Value {
	if t.elems == nil {
		t.elems = NewGenericList()
	}
	return Value{kind: KindTuple, heap: t.elems}
}

// FromList wraps any of the typed lists; the Value kind follows the list.
func FromList[T any](l *List[T]) Value {
	return Value{kind: l.kind, heap: l}
}

func FromDict(d *Dict) Value { return Value{kind: KindGenericDict, heap: d} }

func FromObject(o *Object) Value { return Value{kind: KindObject, heap: o} }

func FromFuture(f *Future) Value { return Value{kind: KindFuture, heap: f} }

func FromBlob(b *Blob) Value { return Value{kind: KindBlob, heap: b} }

func IntList(xs []int64) Value { return FromList(NewIntList(xs...)) }

func DoubleList(xs []float64) Value { return FromList(NewDoubleList(xs...)) }

func BoolList(xs []bool) Value { return FromList(NewBoolList(xs...)) }

// TensorList adopts each tensor.
func TensorList(xs []Tensor) Value { return FromList(NewTensorList(xs...)) }

// GenericList adopts each element.
func GenericList(xs []Value) Value { return FromList(NewGenericList(xs...)) }

//-----------------------------------------------------------------------------
// Ownership
//-----------------------------------------------------------------------------

// Clone returns a Value sharing v's heap block with one more reference.
func (v Value) Clone() Value {
	if v.heap != nil {
		Retain(v.heap)
	}
	return v
}

// Take moves v out, leaving None behind. The reference count is unchanged.
func (v *Value) Take() Value {
	out := *v
	*v = Value{}
	return out
}

// Release drops v's reference, if any, and resets it to None.
func (v *Value) Release() {
	h := v.heap
	*v = Value{}
	if h != nil {
		Release(h)
	}
}

//-----------------------------------------------------------------------------
// Predicates
//-----------------------------------------------------------------------------

func (v Value) Kind() Kind { return v.kind }

func (v Value) Is(k Kind) bool { return v.kind == k }

// IsHeap reports whether v owns a heap block. An undefined tensor is a
// Tensor that owns nothing.
func (v Value) IsHeap() bool { return v.heap != nil }

// Heap returns the borrowed heap block, nil for inline kinds.
func (v Value) Heap() HeapObject { return v.heap }

func (v Value) IsNone() bool        { return v.kind == KindNone }
func (v Value) IsBool() bool        { return v.kind == KindBool }
func (v Value) IsInt() bool         { return v.kind == KindInt }
func (v Value) IsDouble() bool      { return v.kind == KindDouble }
func (v Value) IsTensor() bool      { return v.kind == KindTensor }
func (v Value) IsString() bool      { return v.kind == KindString }
func (v Value) IsTuple() bool       { return v.kind == KindTuple }
func (v Value) IsIntList() bool     { return v.kind == KindIntList }
func (v Value) IsDoubleList() bool  { return v.kind == KindDoubleList }
func (v Value) IsBoolList() bool    { return v.kind == KindBoolList }
func (v Value) IsTensorList() bool  { return v.kind == KindTensorList }
func (v Value) IsGenericList() bool { return v.kind == KindGenericList }
func (v Value) IsGenericDict() bool { return v.kind == KindGenericDict }
func (v Value) IsObject() bool      { return v.kind == KindObject }
func (v Value) IsFuture() bool      { return v.kind == KindFuture }
func (v Value) IsBlob() bool        { return v.kind == KindBlob }
func (v Value) IsDevice() bool      { return v.kind == KindDevice }
func (v Value) IsScalar() bool      { return v.kind == KindScalar }

//-----------------------------------------------------------------------------
// Inline accessors
//-----------------------------------------------------------------------------

func (v Value) expect(k Kind, op string) {
	if v.kind != k {
		panic(typeMismatch(op, k, v.kind))
	}
}

func (v Value) ToBool() bool {
	v.expect(KindBool, "ToBool")
	return v.bits != 0
}

func (v Value) ToInt() int64 {
	v.expect(KindInt, "ToInt")
	return int64(v.bits)
}

func (v Value) ToDouble() float64 {
	v.expect(KindDouble, "ToDouble")
	return math.Float64frombits(v.bits)
}

func (v Value) ToDevice() Device {
	v.expect(KindDevice, "ToDevice")
	return unpackDevice(v.bits)
}

func (v Value) ToScalar() Scalar {
	v.expect(KindScalar, "ToScalar")
	return v.opaque
}

//-----------------------------------------------------------------------------
// Heap accessors
//
// ToX is the const form: v is left unchanged and the caller receives a new
// reference it must release. TakeX is the move form: the caller inherits v's
// reference and v becomes None.
//-----------------------------------------------------------------------------

func shareHeap[T HeapObject](v Value, k Kind, op string) T {
	v.expect(k, op)
	h := v.heap.(T)
	Retain(h)
	return h
}

func takeHeap[T HeapObject](v *Value, k Kind, op string) T {
	v.expect(k, op)
	h := v.heap.(T)
	*v = Value{}
	return h
}

func (v Value) ToTensor() Tensor {
	v.expect(KindTensor, "ToTensor")
	if v.heap == nil {
		return Tensor{}
	}
	Retain(v.heap)
	return Tensor{impl: v.heap.(TensorImpl)}
}

func (v *Value) TakeTensor() Tensor {
	v.expect(KindTensor, "TakeTensor")
	h := v.heap
	*v = Value{}
	if h == nil {
		return Tensor{}
	}
	return Tensor{impl: h.(TensorImpl)}
}

func (v Value) ToConstantString() *ConstantString {
	return shareHeap[*ConstantString](v, KindString, "ToConstantString")
}

func (v *Value) TakeConstantString() *ConstantString {
	return takeHeap[*ConstantString](v, KindString, "TakeConstantString")
}

// ToStringRef returns the text of a String value without touching ownership.
func (v Value) ToStringRef() string {
	v.expect(KindString, "ToStringRef")
	return v.heap.(*ConstantString).str
}

func (v Value) ToTuple() Tuple {
	return Tuple{elems: shareHeap[*List[Value]](v, KindTuple, "ToTuple")}
}

func (v *Value) TakeTuple() Tuple {
	return Tuple{elems: takeHeap[*List[Value]](v, KindTuple, "TakeTuple")}
}

// ToTupleRef borrows the tuple's elements.
func (v Value) ToTupleRef() []Value {
	v.expect(KindTuple, "ToTupleRef")
	return v.heap.(*List[Value]).elems
}

func (v Value) ToIntList() *List[int64] {
	return shareHeap[*List[int64]](v, KindIntList, "ToIntList")
}

func (v *Value) TakeIntList() *List[int64] {
	return takeHeap[*List[int64]](v, KindIntList, "TakeIntList")
}

func (v Value) ToIntListRef() []int64 {
	v.expect(KindIntList, "ToIntListRef")
	return v.heap.(*List[int64]).elems
}

func (v Value) ToDoubleList() *List[float64] {
	return shareHeap[*List[float64]](v, KindDoubleList, "ToDoubleList")
}

func (v *Value) TakeDoubleList() *List[float64] {
	return takeHeap[*List[float64]](v, KindDoubleList, "TakeDoubleList")
}

func (v Value) ToDoubleListRef() []float64 {
	v.expect(KindDoubleList, "ToDoubleListRef")
	return v.heap.(*List[float64]).elems
}

func (v Value) ToBoolList() *List[bool] {
	return shareHeap[*List[bool]](v, KindBoolList, "ToBoolList")
}

func (v *Value) TakeBoolList() *List[bool] {
	return takeHeap[*List[bool]](v, KindBoolList, "TakeBoolList")
}

func (v Value) ToBoolListRef() []bool {
	v.expect(KindBoolList, "ToBoolListRef")
	return v.heap.(*List[bool]).elems
}

func (v Value) ToTensorList() *List[Tensor] {
	return shareHeap[*List[Tensor]](v, KindTensorList, "ToTensorList")
}

func (v *Value) TakeTensorList() *List[Tensor] {
	return takeHeap[*List[Tensor]](v, KindTensorList, "TakeTensorList")
}

func (v Value) ToTensorListRef() []Tensor {
	v.expect(KindTensorList, "ToTensorListRef")
	return v.heap.(*List[Tensor]).elems
}

func (v Value) ToGenericList() *List[Value] {
	return shareHeap[*List[Value]](v, KindGenericList, "ToGenericList")
}

func (v *Value) TakeGenericList() *List[Value] {
	return takeHeap[*List[Value]](v, KindGenericList, "TakeGenericList")
}

func (v Value) ToGenericListRef() []Value {
	v.expect(KindGenericList, "ToGenericListRef")
	return v.heap.(*List[Value]).elems
}

func (v Value) ToGenericDict() *Dict {
	return shareHeap[*Dict](v, KindGenericDict, "ToGenericDict")
}

func (v *Value) TakeGenericDict() *Dict {
	return takeHeap[*Dict](v, KindGenericDict, "TakeGenericDict")
}

func (v Value) ToObject() *Object {
	return shareHeap[*Object](v, KindObject, "ToObject")
}

func (v *Value) TakeObject() *Object {
	return takeHeap[*Object](v, KindObject, "TakeObject")
}

func (v Value) ToFuture() *Future {
	return shareHeap[*Future](v, KindFuture, "ToFuture")
}

func (v *Value) TakeFuture() *Future {
	return takeHeap[*Future](v, KindFuture, "TakeFuture")
}

func (v Value) ToBlob() *Blob {
	return shareHeap[*Blob](v, KindBlob, "ToBlob")
}

func (v *Value) TakeBlob() *Blob {
	return takeHeap[*Blob](v, KindBlob, "TakeBlob")
}
