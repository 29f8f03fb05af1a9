package runtime

import (
	"fmt"
	"strconv"
)

// IsSameIdentity is the interpreter's `is` comparison:
//  1. None is None.
//  2. Bools compare by value.
//  3. Tensors compare by storage pointer (two undefined tensors are the same).
//  4. An undefined tensor and None are the same.
//  5. Otherwise both sides must own the same heap block.
func (v Value) IsSameIdentity(other Value) bool {
	switch {
	case v.kind == KindNone && other.kind == KindNone:
		return true
	case v.kind == KindBool && other.kind == KindBool:
		return v.bits == other.bits
	case v.kind == KindTensor && other.kind == KindTensor:
		return v.heap == other.heap
	case v.kind == KindTensor && other.kind == KindNone:
		return v.heap == nil
	case v.kind == KindNone && other.kind == KindTensor:
		return other.heap == nil
	default:
		return v.heap != nil && other.heap != nil && v.heap == other.heap
	}
}

// String renders v for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "None"
	case KindBool:
		return strconv.FormatBool(v.bits != 0)
	case KindInt:
		return strconv.FormatInt(int64(v.bits), 10)
	case KindDouble:
		return strconv.FormatFloat(v.ToDouble(), 'g', -1, 64)
	case KindDevice:
		return unpackDevice(v.bits).String()
	case KindScalar:
		return fmt.Sprintf("Scalar(%v)", v.opaque)
	case KindString:
		return strconv.Quote(v.heap.(*ConstantString).str)
	case KindTensor:
		if v.heap == nil {
			return Tensor{}.String()
		}
		return Tensor{impl: v.heap.(TensorImpl)}.String()
	case KindTuple:
		return Tuple{elems: v.heap.(*List[Value])}.String()
	}
	if s, ok := v.heap.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("<%s>", v.kind)
}
