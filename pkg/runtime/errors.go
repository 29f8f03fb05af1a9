package runtime

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against contract violations and lookup failures.
var (
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrDoubleCompletion = errors.New("future already completed")
	ErrOutOfRange       = errors.New("slot index out of range")
	ErrNotCompleted     = errors.New("future not completed")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrReleased         = errors.New("heap block already released")
)

// ViolationKind classifies unrecoverable contract violations.
type ViolationKind int

const (
	ViolationTypeMismatch ViolationKind = iota
	ViolationDoubleCompletion
	ViolationOutOfRange
	ViolationNotCompleted
	ViolationReleased
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationTypeMismatch:
		return "TypeMismatch"
	case ViolationDoubleCompletion:
		return "DoubleCompletion"
	case ViolationOutOfRange:
		return "OutOfRange"
	case ViolationNotCompleted:
		return "NotCompleted"
	case ViolationReleased:
		return "Released"
	default:
		return fmt.Sprintf("unknown_violation_%d", int(k))
	}
}

func (k ViolationKind) sentinel() error {
	switch k {
	case ViolationTypeMismatch:
		return ErrTypeMismatch
	case ViolationDoubleCompletion:
		return ErrDoubleCompletion
	case ViolationOutOfRange:
		return ErrOutOfRange
	case ViolationNotCompleted:
		return ErrNotCompleted
	case ViolationReleased:
		return ErrReleased
	default:
		return nil
	}
}

// ContractViolation is the panic payload for programmer errors: reading a
// Value through the wrong accessor, completing a future twice, reading a slot
// past the end. These are never returned as ordinary errors.
type ContractViolation struct {
	Kind     ViolationKind
	Op       string
	Expected Kind
	Actual   Kind
	Message  string
}

func (e *ContractViolation) Error() string {
	switch {
	case e.Kind == ViolationTypeMismatch && e.Message == "":
		return fmt.Sprintf("runtime: %s: expected %s, got %s", e.Op, e.Expected, e.Actual)
	case e.Message != "":
		return fmt.Sprintf("runtime: %s: %s", e.Op, e.Message)
	default:
		return fmt.Sprintf("runtime: %s: %s", e.Op, e.Kind.sentinel())
	}
}

func (e *ContractViolation) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func typeMismatch(op string, expected, actual Kind) *ContractViolation {
	return &ContractViolation{Kind: ViolationTypeMismatch, Op: op, Expected: expected, Actual: actual}
}

// AsViolation recovers a ContractViolation from a recovered panic value.
func AsViolation(recovered any) (*ContractViolation, bool) {
	cv, ok := recovered.(*ContractViolation)
	return cv, ok
}

// UnknownAttributeError reports a named attribute the type descriptor does not define.
type UnknownAttributeError struct {
	TypeName string
	Name     string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("runtime: %s has no attribute %q", e.TypeName, e.Name)
}

func (e *UnknownAttributeError) Is(target error) bool {
	return target == ErrUnknownAttribute
}

// FutureError is the failure payload carried by a future completed with an
// error. It is the only error at this layer meant to be caught by callers.
type FutureError struct {
	Message string
	Cause   error
}

// NewFutureError builds a FutureError with a formatted message.
func NewFutureError(format string, args ...any) *FutureError {
	return &FutureError{Message: fmt.Sprintf(format, args...)}
}

func (e *FutureError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *FutureError) Unwrap() error { return e.Cause }

func asFutureError(err error) *FutureError {
	var fe *FutureError
	if errors.As(err, &fe) {
		return fe
	}
	return &FutureError{Message: err.Error(), Cause: err}
}
