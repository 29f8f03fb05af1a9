// Package ctybridge converts between runtime values and go-cty values, the
// representation HCL configuration decodes into.
package ctybridge

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"able/valuecore/pkg/runtime"
)

// FromCty converts v into an owned runtime Value. Integral numbers that fit
// in an int64 become Int, other numbers Double. Maps and objects become
// dicts keyed by attribute name, in cty's sorted key order.
func FromCty(v cty.Value) (runtime.Value, error) {
	v, _ = v.UnmarkDeep()
	return fromCty(v, cty.Path{})
}

func fromCty(v cty.Value, path cty.Path) (runtime.Value, error) {
	if !v.IsKnown() {
		return runtime.Value{}, path.NewErrorf("unknown value cannot be converted")
	}
	if v.IsNull() {
		return runtime.None(), nil
	}

	ty := v.Type()
	switch {
	case ty == cty.Bool:
		return runtime.Bool(v.True()), nil

	case ty == cty.String:
		return runtime.Str(v.AsString()), nil

	case ty == cty.Number:
		return numberFromCty(v, path)

	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		list := runtime.NewGenericList()
		list.Reserve(v.LengthInt())
		idx := int64(0)
		for it := v.ElementIterator(); it.Next(); idx++ {
			_, elem := it.Element()
			conv, err := fromCty(elem, path.Index(cty.NumberIntVal(idx)))
			if err != nil {
				list.Release()
				return runtime.Value{}, err
			}
			list.Append(conv)
		}
		return runtime.FromList(list), nil

	case ty.IsMapType() || ty.IsObjectType():
		dict := runtime.NewDict()
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			name := key.AsString()
			conv, err := fromCty(elem, path.GetAttr(name))
			if err != nil {
				dict.Release()
				return runtime.Value{}, err
			}
			dict.InsertOrAssign(runtime.Str(name), conv)
		}
		return runtime.FromDict(dict), nil

	default:
		return runtime.Value{}, path.NewErrorf("unsupported cty type %s", ty.FriendlyName())
	}
}

func numberFromCty(v cty.Value, path cty.Path) (runtime.Value, error) {
	bf := v.AsBigFloat()
	if bf.IsInt() {
		var i int64
		if err := gocty.FromCtyValue(v, &i); err == nil {
			return runtime.Int(i), nil
		}
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return runtime.Value{}, path.NewErrorf("number out of range: %s", err)
	}
	return runtime.Double(f), nil
}

// ToCty converts a borrowed runtime Value into a cty value. Lists and tuples
// become cty tuples so heterogeneous elements survive; dicts must be keyed
// by strings and become objects.
func ToCty(v runtime.Value) (cty.Value, error) {
	switch v.Kind() {
	case runtime.KindNone:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case runtime.KindBool:
		return cty.BoolVal(v.ToBool()), nil
	case runtime.KindInt:
		return cty.NumberIntVal(v.ToInt()), nil
	case runtime.KindDouble:
		f := v.ToDouble()
		if math.IsNaN(f) {
			return cty.NilVal, fmt.Errorf("ctybridge: NaN has no cty representation")
		}
		return cty.NumberFloatVal(f), nil
	case runtime.KindString:
		return cty.StringVal(v.ToStringRef()), nil
	case runtime.KindIntList:
		return tupleOf(v.ToIntListRef(), func(x int64) (cty.Value, error) {
			return cty.NumberIntVal(x), nil
		})
	case runtime.KindDoubleList:
		return tupleOf(v.ToDoubleListRef(), func(x float64) (cty.Value, error) {
			return ToCty(runtime.Double(x))
		})
	case runtime.KindBoolList:
		return tupleOf(v.ToBoolListRef(), func(x bool) (cty.Value, error) {
			return cty.BoolVal(x), nil
		})
	case runtime.KindGenericList:
		return tupleOf(v.ToGenericListRef(), ToCty)
	case runtime.KindTuple:
		return tupleOf(v.ToTupleRef(), ToCty)
	case runtime.KindGenericDict:
		return objectOf(v.ToGenericDict())
	default:
		return cty.NilVal, fmt.Errorf("ctybridge: %s values have no cty representation", v.Kind())
	}
}

func tupleOf[T any](elems []T, conv func(T) (cty.Value, error)) (cty.Value, error) {
	if len(elems) == 0 {
		return cty.EmptyTupleVal, nil
	}
	out := make([]cty.Value, len(elems))
	for i, elem := range elems {
		cv, err := conv(elem)
		if err != nil {
			return cty.NilVal, fmt.Errorf("ctybridge: element %d: %w", i, err)
		}
		out[i] = cv
	}
	return cty.TupleVal(out), nil
}

func objectOf(d *runtime.Dict) (cty.Value, error) {
	defer d.Release()
	if d.Len() == 0 {
		return cty.EmptyObjectVal, nil
	}
	attrs := make(map[string]cty.Value, d.Len())
	for _, entry := range d.Entries() {
		if !entry.Key.IsString() {
			return cty.NilVal, fmt.Errorf("ctybridge: object keys must be strings, got %s", entry.Key.Kind())
		}
		name := entry.Key.ToStringRef()
		cv, err := ToCty(entry.Value)
		if err != nil {
			return cty.NilVal, fmt.Errorf("ctybridge: attribute %q: %w", name, err)
		}
		attrs[name] = cv
	}
	return cty.ObjectVal(attrs), nil
}
