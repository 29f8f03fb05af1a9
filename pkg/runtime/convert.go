package runtime

import (
	"fmt"
	"reflect"
)

// To converts v to the host type T, panicking with a TypeMismatch
// ContractViolation when v's kind cannot produce a T. v is left unchanged;
// heap handles in the result are new references.
//
// Supported targets: Go integer and float kinds, bool, string, Value, Tensor,
// Device, Tuple, the heap handle types, pointers as optionals (None → nil),
// slices and maps (deep copies of list and dict values) and `any`.
func To[T any](v Value) T {
	out, err := TryTo[T](v)
	if err != nil {
		panic(err)
	}
	return out
}

// TryTo is the checked form of To. On error nothing is retained.
func TryTo[T any](v Value) (out T, err error) {
	rv, err := convertChecked(v, typeFor[T]())
	if err != nil {
		return out, err
	}
	if res, ok := rv.Interface().(T); ok {
		out = res
	}
	return out, nil
}

// TakeAs is the move form of To and v becomes None. Handle targets (Value,
// Tensor, Tuple and the heap pointer types) inherit v's reference. Other
// targets are converted first and v's reference is then released.
func TakeAs[T any](v *Value) T {
	if take, ok := takers[typeFor[T]()]; ok {
		if res, ok := take(v).(T); ok {
			return res
		}
		var zero T
		return zero
	}
	out := To[T](*v)
	v.Release()
	return out
}

// ToOptional returns nil for None and a pointer to the converted value otherwise.
func ToOptional[T any](v Value) *T {
	if v.IsNone() {
		return nil
	}
	out := To[T](v)
	return &out
}

type converter func(Value) any

var converters map[reflect.Type]converter

var takers = map[reflect.Type]func(*Value) any{
	typeFor[Value]():           func(v *Value) any { return v.Take() },
	typeFor[Tensor]():          func(v *Value) any { return v.TakeTensor() },
	typeFor[Tuple]():           func(v *Value) any { return v.TakeTuple() },
	typeFor[*ConstantString](): func(v *Value) any { return v.TakeConstantString() },
	typeFor[*Object]():         func(v *Value) any { return v.TakeObject() },
	typeFor[*Future]():         func(v *Value) any { return v.TakeFuture() },
	typeFor[*Blob]():           func(v *Value) any { return v.TakeBlob() },
	typeFor[*Dict]():           func(v *Value) any { return v.TakeGenericDict() },
	typeFor[*List[int64]]():    func(v *Value) any { return v.TakeIntList() },
	typeFor[*List[float64]]():  func(v *Value) any { return v.TakeDoubleList() },
	typeFor[*List[bool]]():     func(v *Value) any { return v.TakeBoolList() },
	typeFor[*List[Tensor]]():   func(v *Value) any { return v.TakeTensorList() },
	typeFor[*List[Value]]():    func(v *Value) any { return v.TakeGenericList() },
}

func init() {
	converters = map[reflect.Type]converter{
		typeFor[int64]():   func(v Value) any { return v.ToInt() },
		typeFor[int]():     func(v Value) any { return int(v.ToInt()) },
		typeFor[int32]():   func(v Value) any { return int32(v.ToInt()) },
		typeFor[int16]():   func(v Value) any { return int16(v.ToInt()) },
		typeFor[int8]():    func(v Value) any { return int8(v.ToInt()) },
		typeFor[uint]():    func(v Value) any { return uint(v.ToInt()) },
		typeFor[uint64]():  func(v Value) any { return uint64(v.ToInt()) },
		typeFor[uint32]():  func(v Value) any { return uint32(v.ToInt()) },
		typeFor[uint16]():  func(v Value) any { return uint16(v.ToInt()) },
		typeFor[uint8]():   func(v Value) any { return uint8(v.ToInt()) },
		typeFor[float64](): func(v Value) any { return v.ToDouble() },
		typeFor[float32](): func(v Value) any { return float32(v.ToDouble()) },
		typeFor[bool]():    func(v Value) any { return v.ToBool() },
		typeFor[string]():  func(v Value) any { return v.ToStringRef() },
		typeFor[Value]():   func(v Value) any { return v.Clone() },
		typeFor[Tensor]():  func(v Value) any { return v.ToTensor() },
		typeFor[Device]():  func(v Value) any { return v.ToDevice() },
		typeFor[Tuple]():   func(v Value) any { return v.ToTuple() },

		typeFor[*ConstantString](): func(v Value) any { return v.ToConstantString() },
		typeFor[*Object]():         func(v Value) any { return v.ToObject() },
		typeFor[*Future]():         func(v Value) any { return v.ToFuture() },
		typeFor[*Blob]():           func(v Value) any { return v.ToBlob() },
		typeFor[*Dict]():           func(v Value) any { return v.ToGenericDict() },
		typeFor[*List[int64]]():    func(v Value) any { return v.ToIntList() },
		typeFor[*List[float64]]():  func(v Value) any { return v.ToDoubleList() },
		typeFor[*List[bool]]():     func(v Value) any { return v.ToBoolList() },
		typeFor[*List[Tensor]]():   func(v Value) any { return v.ToTensorList() },
		typeFor[*List[Value]]():    func(v Value) any { return v.ToGenericList() },
	}
	anyType := typeFor[any]()
	converters[anyType] = func(v Value) any {
		out, err := ToHost(v)
		if err != nil {
			panic(err)
		}
		return out
	}
}

// convertChecked is convertReflect with accessor violations returned as
// errors, so callers can release whatever they already built.
func convertChecked(v Value, target reflect.Type) (rv reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			cv, ok := AsViolation(r)
			if !ok {
				panic(r)
			}
			rv, err = reflect.Value{}, cv
		}
	}()
	return convertReflect(v, target)
}

func convertReflect(v Value, target reflect.Type) (reflect.Value, error) {
	if conv, ok := converters[target]; ok {
		out := reflect.New(target).Elem()
		if res := conv(v); res != nil {
			out.Set(reflect.ValueOf(res))
		}
		return out, nil
	}
	switch target.Kind() {
	case reflect.Pointer:
		if v.IsNone() {
			return reflect.Zero(target), nil
		}
		elem, err := convertReflect(v, target.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	case reflect.Slice:
		return convertSlice(v, target)
	case reflect.Map:
		return convertMap(v, target)
	}
	return reflect.Value{}, &ContractViolation{
		Kind:    ViolationTypeMismatch,
		Op:      "To",
		Actual:  v.kind,
		Message: fmt.Sprintf("unsupported conversion target %s", target),
	}
}

// convertSlice deep-copies a list value: the source block may be shared by
// other Values, so elements are converted one by one rather than aliased.
func convertSlice(v Value, target reflect.Type) (reflect.Value, error) {
	var elems []Value
	switch v.kind {
	case KindGenericList, KindTuple:
		elems = v.heap.(*List[Value]).elems
	case KindIntList:
		for _, x := range v.heap.(*List[int64]).elems {
			elems = append(elems, Int(x))
		}
	case KindDoubleList:
		for _, x := range v.heap.(*List[float64]).elems {
			elems = append(elems, Double(x))
		}
	case KindBoolList:
		for _, x := range v.heap.(*List[bool]).elems {
			elems = append(elems, Bool(x))
		}
	case KindTensorList:
		for _, t := range v.heap.(*List[Tensor]).elems {
			elems = append(elems, FromTensor(t))
		}
	default:
		return reflect.Value{}, typeMismatch(fmt.Sprintf("To[%s]", target), KindGenericList, v.kind)
	}
	out := reflect.MakeSlice(target, len(elems), len(elems))
	for i, e := range elems {
		ev, err := convertChecked(e, target.Elem())
		if err != nil {
			releaseConverted(out.Slice(0, i))
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

func convertMap(v Value, target reflect.Type) (reflect.Value, error) {
	if v.kind != KindGenericDict {
		return reflect.Value{}, typeMismatch(fmt.Sprintf("To[%s]", target), KindGenericDict, v.kind)
	}
	entries := v.heap.(*Dict).entries
	out := reflect.MakeMapWithSize(target, len(entries))
	for _, e := range entries {
		kv, err := convertChecked(e.Key, target.Key())
		if err != nil {
			releaseConverted(out)
			return reflect.Value{}, err
		}
		ev, err := convertChecked(e.Value, target.Elem())
		if err != nil {
			releaseConverted(kv)
			releaseConverted(out)
			return reflect.Value{}, err
		}
		out.SetMapIndex(kv, ev)
	}
	return out, nil
}

// releaseConverted drops every reference held by a conversion result,
// walking into slices, maps, pointers and interfaces.
func releaseConverted(rv reflect.Value) {
	if !rv.IsValid() {
		return
	}
	switch rv.Kind() {
	case reflect.Interface:
		if !rv.IsNil() {
			releaseConverted(rv.Elem())
		}
		return
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return
		}
	}
	if rv.CanInterface() {
		switch x := rv.Interface().(type) {
		case Value:
			x.Release()
			return
		case Tensor:
			x.Release()
			return
		case Tuple:
			x.Release()
			return
		case HeapObject:
			Release(x)
			return
		}
	}
	switch rv.Kind() {
	case reflect.Pointer:
		releaseConverted(rv.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			releaseConverted(rv.Index(i))
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			releaseConverted(iter.Key())
			releaseConverted(iter.Value())
		}
	}
}

// typeFor returns the reflect.Type for T (equivalent to reflect.TypeFor,
// which is unavailable before Go 1.22).
func typeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
