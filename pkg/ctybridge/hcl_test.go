package ctybridge

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"able/valuecore/pkg/runtime"
)

func TestDecodeAttributes(t *testing.T) {
	src := []byte(`
workers = 4
name    = "pool-${suffix}"
ratio   = 0.75
tags    = ["a", "b"]
limits  = { cpu = 2 }
`)
	suffix := runtime.Str("east")
	defer suffix.Release()
	v, err := DecodeAttributes(src, "pool.hcl", map[string]runtime.Value{"suffix": suffix})
	if err != nil {
		t.Fatalf("DecodeAttributes returned error: %v", err)
	}
	defer v.Release()

	dict := v.ToGenericDict()
	defer dict.Release()
	var keys []string
	for _, e := range dict.Entries() {
		keys = append(keys, e.Key.ToStringRef())
	}
	if diff := cmp.Diff([]string{"workers", "name", "ratio", "tags", "limits"}, keys); diff != "" {
		t.Fatalf("attributes should keep source order (-want +got):\n%s", diff)
	}

	host, err := runtime.ToHost(v)
	if err != nil {
		t.Fatalf("ToHost: %v", err)
	}
	want := map[any]any{
		"workers": int64(4),
		"name":    "pool-east",
		"ratio":   0.75,
		"tags":    []any{"a", "b"},
		"limits":  map[any]any{"cpu": int64(2)},
	}
	if diff := cmp.Diff(want, host); diff != "" {
		t.Fatalf("decoded attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeAttributesErrors(t *testing.T) {
	if _, err := DecodeAttributes([]byte("x = "), "bad.hcl", nil); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := DecodeAttributes([]byte("block {\n}\n"), "blocks.hcl", nil); err == nil {
		t.Fatalf("expected blocks to be rejected")
	}
	if _, err := DecodeAttributes([]byte("x = missing\n"), "vars.hcl", nil); err == nil {
		t.Fatalf("expected unknown variable error")
	}
}

func TestEvalExpression(t *testing.T) {
	n := runtime.Int(20)
	v, err := EvalExpression("n * 2 + 2", map[string]runtime.Value{"n": n})
	if err != nil {
		t.Fatalf("EvalExpression returned error: %v", err)
	}
	if !v.IsInt() || v.ToInt() != 42 {
		t.Fatalf("EvalExpression = %v, want 42", v)
	}
	dev := runtime.FromDevice(runtime.CPU)
	if _, err := EvalExpression("d", map[string]runtime.Value{"d": dev}); err == nil {
		t.Fatalf("expected unconvertible variable to be rejected")
	}
}
