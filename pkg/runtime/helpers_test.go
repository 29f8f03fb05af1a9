package runtime

import (
	"errors"
	"testing"
)

type fakeTensor struct {
	Header
	name     string
	disposed bool
}

func (f *fakeTensor) Dispose() { f.disposed = true }

func (f *fakeTensor) String() string { return "fake(" + f.name + ")" }

func newFakeTensor(name string) (*fakeTensor, Tensor) {
	impl := &fakeTensor{name: name}
	return impl, WrapTensor(impl)
}

type fakeType struct {
	name  string
	attrs []string
}

func (f *fakeType) Name() string { return f.name }

func (f *fakeType) AttributeSlot(name string) (int, bool) {
	for i, attr := range f.attrs {
		if attr == name {
			return i, true
		}
	}
	return 0, false
}

func (f *fakeType) NumAttributes() int { return len(f.attrs) }

// expectViolation runs fn and fails unless it panics with a ContractViolation
// matching want.
func expectViolation(t *testing.T, want error, fn func()) *ContractViolation {
	t.Helper()
	var got *ContractViolation
	func() {
		defer func() {
			r := recover()
			cv, ok := AsViolation(r)
			if !ok {
				t.Fatalf("expected contract violation %v, got %v", want, r)
			}
			got = cv
		}()
		fn()
	}()
	if !errors.Is(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	return got
}
