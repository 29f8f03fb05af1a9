// Package runtime defines the dynamically typed Value every interpreter datum
// is carried in, the reference-counted heap blocks behind it (strings, lists,
// dicts, tuples, objects, blobs, tensors) and Future, the single-assignment
// result the interpreter uses for in-flight concurrent work.
//
// Heap blocks embed Header, an atomic reference count. Values own exactly one
// reference each: Clone adds one, Take moves it, Release drops it. Accessors
// come in pairs mirroring that split: ToX hands back a fresh reference and
// leaves the Value alone, TakeX transfers the Value's own reference.
//
// Reading a Value through the wrong accessor, completing a Future twice and
// reading a slot past the end are programmer errors and panic with a
// *ContractViolation. Failures of the work behind a Future are ordinary
// errors of type *FutureError.
package runtime
