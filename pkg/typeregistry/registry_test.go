package typeregistry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"able/valuecore/pkg/runtime"

	"github.com/google/go-cmp/cmp"
)

func TestDefineAndLookup(t *testing.T) {
	reg := New()
	point, err := reg.Define("Point", "x", "y")
	if err != nil {
		t.Fatalf("Define returned error: %v", err)
	}
	got, ok := reg.Lookup("Point")
	if !ok || got != point {
		t.Fatalf("Lookup(Point) = %v, %v", got, ok)
	}
	if _, err := reg.Define("Point"); err == nil {
		t.Fatalf("expected redefinition to fail")
	}
	if slot, ok := point.AttributeSlot("y"); !ok || slot != 1 {
		t.Fatalf("AttributeSlot(y) = %d, %v, want 1, true", slot, ok)
	}
	if _, ok := point.AttributeSlot("z"); ok {
		t.Fatalf("expected z to be unknown")
	}
}

func TestNamesSorted(t *testing.T) {
	reg := New()
	for _, name := range []string{"b", "c", "a"} {
		if _, err := reg.Define(name); err != nil {
			t.Fatalf("Define(%s): %v", name, err)
		}
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, reg.Names()); diff != "" {
		t.Fatalf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestMustLookupPanicsOnMissing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustLookup to panic")
		}
	}()
	New().MustLookup("Missing")
}

func TestInstantiateAttributes(t *testing.T) {
	reg := New()
	if _, err := reg.Define("Point", "x", "y"); err != nil {
		t.Fatalf("Define: %v", err)
	}
	obj, err := reg.Instantiate("Point")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	defer obj.Release()

	if obj.NumSlots() != 2 {
		t.Fatalf("NumSlots = %d, want 2", obj.NumSlots())
	}
	if err := obj.SetAttr("y", runtime.Int(3)); err != nil {
		t.Fatalf("SetAttr: %v", err)
	}
	v, err := obj.GetAttr("y")
	if err != nil || v.ToInt() != 3 {
		t.Fatalf("GetAttr(y) = %v, %v", v, err)
	}
	if x := obj.GetSlot(0); !x.IsNone() {
		t.Fatalf("unassigned slot = %v, want None", x)
	}
	err = obj.SetAttr("nope", runtime.Int(1))
	if !errors.Is(err, runtime.ErrUnknownAttribute) {
		t.Fatalf("expected unknown attribute error, got %v", err)
	}
	if _, err := reg.Instantiate("Missing"); err == nil {
		t.Fatalf("expected error for unknown class")
	}
}

func TestAddAttributeGrowsExistingObjects(t *testing.T) {
	ct, err := NewClassType("Box", "a")
	if err != nil {
		t.Fatalf("NewClassType: %v", err)
	}
	obj := ct.Instantiate()
	defer obj.Release()

	slot, err := ct.AddAttribute("b")
	if err != nil || slot != 1 {
		t.Fatalf("AddAttribute = %d, %v", slot, err)
	}
	if _, err := obj.GetAttr("b"); !errors.Is(err, runtime.ErrOutOfRange) {
		t.Fatalf("expected out of range before assignment, got %v", err)
	}
	if err := obj.SetAttr("b", runtime.Str("hi")); err != nil {
		t.Fatalf("SetAttr(b): %v", err)
	}
	if obj.NumSlots() != 2 {
		t.Fatalf("NumSlots = %d, want 2", obj.NumSlots())
	}
	v, err := obj.GetAttr("b")
	if err != nil || v.ToStringRef() != "hi" {
		t.Fatalf("GetAttr(b) = %v, %v", v, err)
	}
	if _, err := ct.AddAttribute("a"); err == nil {
		t.Fatalf("expected duplicate attribute to fail")
	}
}

func TestInvokeMethod(t *testing.T) {
	ct, err := NewClassType("Counter", "n")
	if err != nil {
		t.Fatalf("NewClassType: %v", err)
	}
	err = ct.AddMethod("bump", func(self *runtime.Object, args []runtime.Value) (runtime.Value, error) {
		cur, err := self.GetAttr("n")
		if err != nil {
			return runtime.Value{}, err
		}
		next := runtime.Int(cur.ToInt() + args[0].ToInt())
		if err := self.SetAttr("n", next); err != nil {
			return runtime.Value{}, err
		}
		return next, nil
	})
	if err != nil {
		t.Fatalf("AddMethod: %v", err)
	}
	if err := ct.AddMethod("n", func(*runtime.Object, []runtime.Value) (runtime.Value, error) {
		return runtime.None(), nil
	}); err == nil {
		t.Fatalf("expected method shadowing an attribute to fail")
	}

	obj := ct.Instantiate()
	defer obj.Release()
	obj.SetSlot(0, runtime.Int(1))

	out, err := Invoke(obj, "bump", runtime.Int(4))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.ToInt() != 5 {
		t.Fatalf("bump returned %v, want 5", out)
	}
	if _, err := Invoke(obj, "missing"); err == nil {
		t.Fatalf("expected missing method error")
	}
	anon := runtime.NewObject(nil, 0)
	defer anon.Release()
	if _, err := Invoke(anon, "bump"); err == nil {
		t.Fatalf("expected error invoking on anonymous object")
	}
}

func TestLoadYAML(t *testing.T) {
	reg := New()
	err := reg.LoadYAML(strings.NewReader(`
classes:
  - name: Point
    attributes: [x, y]
  - name: Point3
    base: Point
    attributes: [z]
`))
	if err != nil {
		t.Fatalf("LoadYAML returned error: %v", err)
	}
	p3 := reg.MustLookup("Point3")
	if diff := cmp.Diff([]string{"x", "y", "z"}, p3.Attributes()); diff != "" {
		t.Fatalf("Point3 attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLValidation(t *testing.T) {
	reg := New()
	if _, err := reg.Define("Existing"); err != nil {
		t.Fatalf("Define: %v", err)
	}
	err := reg.LoadYAML(strings.NewReader(`
classes:
  - attributes: [a]
  - name: Existing
  - name: Child
    base: Ghost
  - name: Dup
    attributes: [a, a]
`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 4 {
		t.Fatalf("expected 4 issues, got %d: %v", len(verr.Issues), verr.Issues)
	}
	if !strings.Contains(verr.Error(), "unknown base Ghost") {
		t.Fatalf("error missing base issue: %v", verr)
	}
	if diff := cmp.Diff([]string{"Existing"}, reg.Names()); diff != "" {
		t.Fatalf("failed load must not register classes (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLRejectsUnknownFields(t *testing.T) {
	err := New().LoadYAML(strings.NewReader(`
classes:
  - name: Point
    fields: [x]
`))
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoadFileAndDump(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classes.yml")
	if err := os.WriteFile(path, []byte("classes:\n  - name: Pair\n    attributes: [first, second]\n"), 0o644); err != nil {
		t.Fatalf("write classes: %v", err)
	}
	reg := New()
	if err := reg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	data, err := reg.DumpYAML()
	if err != nil {
		t.Fatalf("DumpYAML: %v", err)
	}
	again := New()
	if err := again.LoadYAML(strings.NewReader(string(data))); err != nil {
		t.Fatalf("reload dumped yaml: %v", err)
	}
	if diff := cmp.Diff([]string{"first", "second"}, again.MustLookup("Pair").Attributes()); diff != "" {
		t.Fatalf("reloaded attributes mismatch (-want +got):\n%s", diff)
	}
	if err := reg.LoadFile(filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}
