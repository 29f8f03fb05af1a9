package runtime

import (
	"math"
	"testing"
)

func dictKeys(d *Dict) []string {
	out := make([]string, 0, d.Len())
	for _, e := range d.Entries() {
		out = append(out, e.Key.String())
	}
	return out
}

func TestDictInsertAndGet(t *testing.T) {
	d := NewDict()
	defer d.Release()
	if !d.Insert(Str("a"), Int(1)) || !d.Insert(Int(2), Str("two")) || !d.Insert(None(), Bool(true)) {
		t.Fatalf("fresh inserts should succeed")
	}

	v, ok := d.Get(Str("a"))
	if !ok || v.ToInt() != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}
	if !d.Contains(Int(2)) || !d.Contains(None()) || d.Contains(Int(3)) {
		t.Fatalf("Contains mismatch")
	}

	key := Str("a")
	val := Str("ignored")
	keyBlock, valBlock := key.Heap(), val.Heap()
	Retain(keyBlock)
	Retain(valBlock)
	if d.Insert(key, val) {
		t.Fatalf("duplicate insert should not store")
	}
	if keyBlock.UseCount() != 1 || valBlock.UseCount() != 1 {
		t.Fatalf("rejected insert should release its arguments")
	}
	Release(keyBlock)
	Release(valBlock)

	v, _ = d.Get(Str("a"))
	if v.ToInt() != 1 {
		t.Fatalf("Insert must not overwrite, got %v", v)
	}
}

func TestDictInsertOrAssign(t *testing.T) {
	d := NewDict()
	defer d.Release()
	impl, tensor := newFakeTensor("old")
	d.InsertOrAssign(Str("k"), FromTensor(tensor))
	if d.InsertOrAssign(Str("k"), Int(5)) {
		t.Fatalf("assign to existing key should report no new entry")
	}
	if !impl.disposed {
		t.Fatalf("replaced value should be released")
	}
	if v, _ := d.Get(Str("k")); v.ToInt() != 5 || d.Len() != 1 {
		t.Fatalf("InsertOrAssign result = %v (len %d)", v, d.Len())
	}
}

func TestDictOrderAndErase(t *testing.T) {
	d := NewDict()
	defer d.Release()
	for _, k := range []string{"c", "a", "b", "d"} {
		d.Insert(Str(k), Str(k+"!"))
	}
	if got := dictKeys(d); len(got) != 4 || got[0] != `"c"` || got[3] != `"d"` {
		t.Fatalf("insertion order lost: %v", got)
	}
	if !d.Erase(Str("a")) || d.Erase(Str("a")) {
		t.Fatalf("Erase should succeed once")
	}
	got := dictKeys(d)
	want := []string{`"c"`, `"b"`, `"d"`}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order after erase = %v, want %v", got, want)
		}
	}
	if v, ok := d.Get(Str("d")); !ok || v.ToStringRef() != "d!" {
		t.Fatalf("lookup after erase = %v, %v", v, ok)
	}
}

func TestDictKeyEquality(t *testing.T) {
	d := NewDict()
	defer d.Release()
	d.Insert(Double(0), Str("zero"))
	if !d.Contains(Double(math.Copysign(0, -1))) {
		t.Fatalf("-0 and +0 should be the same key")
	}
	if d.Contains(Int(0)) {
		t.Fatalf("Int(0) and Double(0) are different keys")
	}

	_, ta := newFakeTensor("a")
	_, tb := newFakeTensor("b")
	ka := FromTensor(ta)
	kb := FromTensor(tb)
	defer kb.Release()
	d.Insert(ka.Clone(), Int(1))
	if !d.Contains(ka) || d.Contains(kb) {
		t.Fatalf("tensor keys compare by identity")
	}
	ka.Release()

	expectViolation(t, ErrTypeMismatch, func() {
		key := IntList([]int64{1})
		defer key.Release()
		d.Contains(key)
	})
	if IsHashableKind(KindGenericList) || !IsHashableKind(KindString) {
		t.Fatalf("IsHashableKind classification wrong")
	}
}

func TestDictReleaseDisposesEntries(t *testing.T) {
	impl, tensor := newFakeTensor("v")
	d := NewDict()
	d.Insert(Str("t"), FromTensor(tensor))
	v := FromDict(d)
	c := v.Clone()
	v.Release()
	if impl.disposed {
		t.Fatalf("dict still owned by clone")
	}
	c.Release()
	if !impl.disposed {
		t.Fatalf("dict release should release its values")
	}
}

func TestListBounds(t *testing.T) {
	l := NewDoubleList(1.5, 2.5)
	defer l.Release()
	expectViolation(t, ErrOutOfRange, func() { l.Get(2) })
	expectViolation(t, ErrOutOfRange, func() { l.Set(-1, 0) })
	l.Set(0, 9)
	l.Append(3.5)
	snap := l.Snapshot()
	snap[0] = 0
	if l.Get(0) != 9 || l.Len() != 3 {
		t.Fatalf("Snapshot must copy, list is %v", l)
	}
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("Clear should empty the list")
	}
	if l.Kind() != KindDoubleList {
		t.Fatalf("kind = %s", l.Kind())
	}
}
