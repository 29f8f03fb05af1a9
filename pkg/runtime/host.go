package runtime

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
)

// FromHost wraps a host value. Collections are deep-wrapped: each element is
// converted to a Value and copy-inserted into a freshly allocated list or
// dict. Heap handles and Values passed in are retained, never consumed.
//
// []int64, []float64, []bool and []Tensor become the specialised list kinds;
// every other slice or array becomes a GenericList and every map a
// GenericDict.
func FromHost(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return None(), nil
	case Value:
		return x.Clone(), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint:
		return fromUnsigned(uint64(x))
	case uint64:
		return fromUnsigned(x)
	case float32:
		return Double(float64(x)), nil
	case float64:
		return Double(x), nil
	case string:
		return Str(x), nil
	case Device:
		return FromDevice(x), nil
	case Tensor:
		return FromTensor(x.Clone()), nil
	case Tuple:
		return FromTuple(x.Clone()), nil
	case *ConstantString:
		Retain(x)
		return FromConstantString(x), nil
	case *Object:
		Retain(x)
		return FromObject(x), nil
	case *Future:
		Retain(x)
		return FromFuture(x), nil
	case *Blob:
		Retain(x)
		return FromBlob(x), nil
	case *Dict:
		Retain(x)
		return FromDict(x), nil
	case *List[int64]:
		Retain(x)
		return FromList(x), nil
	case *List[float64]:
		Retain(x)
		return FromList(x), nil
	case *List[bool]:
		Retain(x)
		return FromList(x), nil
	case *List[Tensor]:
		Retain(x)
		return FromList(x), nil
	case *List[Value]:
		Retain(x)
		return FromList(x), nil
	case []int64:
		return IntList(x), nil
	case []float64:
		return DoubleList(x), nil
	case []bool:
		return BoolList(x), nil
	case []Tensor:
		l := NewTensorList()
		l.Reserve(len(x))
		for _, t := range x {
			l.Append(t.Clone())
		}
		return FromList(l), nil
	case []Value:
		l := NewGenericList()
		l.Reserve(len(x))
		for _, e := range x {
			l.Append(e.Clone())
		}
		return FromList(l), nil
	}
	return fromHostReflect(reflect.ValueOf(x))
}

func fromUnsigned(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("runtime: %d overflows Int", u)
	}
	return Int(int64(u)), nil
}

func fromHostReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return None(), nil
		}
		return FromHost(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return GenericList(nil), nil
		}
		l := NewGenericList()
		l.Reserve(rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := FromHost(rv.Index(i).Interface())
			if err != nil {
				l.Release()
				return Value{}, fmt.Errorf("runtime: element %d: %w", i, err)
			}
			l.Append(elem)
		}
		return FromList(l), nil
	case reflect.Map:
		d := NewDict()
		for _, key := range sortedMapKeys(rv) {
			k, err := FromHost(key.Interface())
			if err != nil {
				d.Release()
				return Value{}, fmt.Errorf("runtime: map key %v: %w", key, err)
			}
			if !IsHashableKind(k.Kind()) {
				kind := k.Kind()
				k.Release()
				d.Release()
				return Value{}, fmt.Errorf("runtime: map key of kind %s is not hashable", kind)
			}
			val, err := FromHost(rv.MapIndex(key).Interface())
			if err != nil {
				k.Release()
				d.Release()
				return Value{}, fmt.Errorf("runtime: map value for %v: %w", key, err)
			}
			d.InsertOrAssign(k, val)
		}
		return FromDict(d), nil
	case reflect.String:
		return Str(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fromUnsigned(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Double(rv.Float()), nil
	}
	return Value{}, fmt.Errorf("runtime: cannot convert %s to Value", rv.Type())
}

// sortedMapKeys orders string and integer keys so that dicts built from Go
// maps have a stable insertion order.
func sortedMapKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	switch rv.Type().Key().Kind() {
	case reflect.String:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) })
	case reflect.Float32, reflect.Float64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) })
	}
	return keys
}

// ToHost renders v as a plain Go value: nil, bool, int64, float64, string,
// Device, typed slices for the specialised lists, []any for generic lists and
// tuples, map[any]any for dicts. Tensors and other heap handles are returned
// as new references.
func ToHost(v Value) (any, error) {
	switch v.kind {
	case KindNone:
		return nil, nil
	case KindBool:
		return v.ToBool(), nil
	case KindInt:
		return v.ToInt(), nil
	case KindDouble:
		return v.ToDouble(), nil
	case KindString:
		return v.ToStringRef(), nil
	case KindDevice:
		return v.ToDevice(), nil
	case KindScalar:
		return v.opaque, nil
	case KindTensor:
		return v.ToTensor(), nil
	case KindIntList:
		return slices.Clone(v.ToIntListRef()), nil
	case KindDoubleList:
		return slices.Clone(v.ToDoubleListRef()), nil
	case KindBoolList:
		return slices.Clone(v.ToBoolListRef()), nil
	case KindTensorList:
		src := v.ToTensorListRef()
		out := make([]Tensor, len(src))
		for i, t := range src {
			out[i] = t.Clone()
		}
		return out, nil
	case KindGenericList, KindTuple:
		src := v.heap.(*List[Value]).elems
		out := make([]any, len(src))
		for i, e := range src {
			h, err := ToHost(e)
			if err != nil {
				releaseConverted(reflect.ValueOf(out[:i]))
				return nil, err
			}
			out[i] = h
		}
		return out, nil
	case KindGenericDict:
		entries := v.heap.(*Dict).entries
		out := make(map[any]any, len(entries))
		for _, e := range entries {
			k, err := ToHost(e.Key)
			if err != nil {
				releaseConverted(reflect.ValueOf(out))
				return nil, err
			}
			val, err := ToHost(e.Value)
			if err != nil {
				releaseConverted(reflect.ValueOf(k))
				releaseConverted(reflect.ValueOf(out))
				return nil, err
			}
			out[k] = val
		}
		return out, nil
	case KindObject:
		return v.ToObject(), nil
	case KindFuture:
		return v.ToFuture(), nil
	case KindBlob:
		return v.ToBlob(), nil
	}
	return nil, &ContractViolation{Kind: ViolationTypeMismatch, Op: "ToHost", Actual: v.kind, Message: fmt.Sprintf("no host rendering for %s", v.kind)}
}
