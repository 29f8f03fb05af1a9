package runtime

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromHostCollections(t *testing.T) {
	v, err := FromHost(map[string]any{
		"b": 1,
		"a": []any{true, "x"},
		"c": []int64{7, 8},
	})
	if err != nil {
		t.Fatalf("FromHost: %v", err)
	}
	defer v.Release()
	if !v.IsGenericDict() {
		t.Fatalf("kind = %s", v.Kind())
	}
	d := v.ToGenericDict()
	defer d.Release()
	if got := dictKeys(d); got[0] != `"a"` || got[1] != `"b"` || got[2] != `"c"` {
		t.Fatalf("map keys should be inserted in sorted order, got %v", got)
	}
	if c, _ := d.Get(Str("c")); !c.IsIntList() {
		t.Fatalf("[]int64 should become an IntList, got %s", c.Kind())
	}

	host, err := ToHost(v)
	if err != nil {
		t.Fatalf("ToHost: %v", err)
	}
	want := map[any]any{
		"a": []any{true, "x"},
		"b": int64(1),
		"c": []int64{7, 8},
	}
	if diff := cmp.Diff(want, host); diff != "" {
		t.Fatalf("ToHost mismatch (-want +got):\n%s", diff)
	}
}

func TestFromHostScalars(t *testing.T) {
	cases := []struct {
		in   any
		kind Kind
	}{
		{nil, KindNone},
		{true, KindBool},
		{int8(-3), KindInt},
		{uint32(9), KindInt},
		{float32(1.5), KindDouble},
		{"s", KindString},
		{CPU, KindDevice},
		{(*int)(nil), KindNone},
		{[]float64{1}, KindDoubleList},
		{[]bool{true}, KindBoolList},
		{[2]string{"a", "b"}, KindGenericList},
	}
	for _, tc := range cases {
		v, err := FromHost(tc.in)
		if err != nil {
			t.Fatalf("FromHost(%#v): %v", tc.in, err)
		}
		if v.Kind() != tc.kind {
			t.Fatalf("FromHost(%#v) kind = %s, want %s", tc.in, v.Kind(), tc.kind)
		}
		v.Release()
	}
}

func TestFromHostErrors(t *testing.T) {
	if _, err := FromHost(uint64(math.MaxUint64)); err == nil {
		t.Fatalf("expected uint64 overflow error")
	}
	if _, err := FromHost(map[[1]int]int{{1}: 2}); err == nil {
		t.Fatalf("expected unhashable key error")
	}
	if _, err := FromHost(struct{}{}); err == nil {
		t.Fatalf("expected unsupported type error")
	}
}

func TestFromHostRetainsHandles(t *testing.T) {
	impl, tensor := newFakeTensor("h")
	defer tensor.Release()
	v, err := FromHost(tensor)
	if err != nil {
		t.Fatalf("FromHost(tensor): %v", err)
	}
	if impl.UseCount() != 2 {
		t.Fatalf("FromHost should retain the tensor, use count %d", impl.UseCount())
	}
	v.Release()

	obj := NewObject(nil, 0)
	defer obj.Release()
	ov, err := FromHost(obj)
	if err != nil {
		t.Fatalf("FromHost(obj): %v", err)
	}
	if obj.UseCount() != 2 {
		t.Fatalf("FromHost should retain the object, use count %d", obj.UseCount())
	}
	ov.Release()
}

func TestToHostTuple(t *testing.T) {
	v := FromTuple(NewTuple(Int(1), None(), Str("z")))
	defer v.Release()
	host, err := ToHost(v)
	if err != nil {
		t.Fatalf("ToHost: %v", err)
	}
	if diff := cmp.Diff([]any{int64(1), nil, "z"}, host); diff != "" {
		t.Fatalf("ToHost tuple mismatch (-want +got):\n%s", diff)
	}
}
