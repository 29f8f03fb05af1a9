package typeregistry

import (
	"fmt"
	"sync"

	"able/valuecore/pkg/runtime"
)

// Method is a native method bound through a ClassType. self is borrowed;
// args are borrowed; the returned Value is owned by the caller.
type Method func(self *runtime.Object, args []runtime.Value) (runtime.Value, error)

// ClassType describes the layout of user-defined objects: an ordered list of
// attribute names (slot i holds attribute i) plus the methods of the class.
// Attributes can only be appended, so objects built before a new attribute
// was added stay valid and grow on first assignment.
type ClassType struct {
	name string

	mu         sync.RWMutex
	attributes []string
	slots      map[string]int
	methods    map[string]Method
}

// NewClassType creates a class with the given attributes in slot order.
func NewClassType(name string, attributes ...string) (*ClassType, error) {
	ct := &ClassType{
		name:    name,
		slots:   make(map[string]int, len(attributes)),
		methods: make(map[string]Method),
	}
	for _, attr := range attributes {
		if _, err := ct.AddAttribute(attr); err != nil {
			return nil, err
		}
	}
	return ct, nil
}

func (c *ClassType) Name() string { return c.name }

// AttributeSlot implements runtime.TypeDescriptor.
func (c *ClassType) AttributeSlot(name string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	slot, ok := c.slots[name]
	return slot, ok
}

func (c *ClassType) NumAttributes() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.attributes)
}

// Attributes returns the attribute names in slot order.
func (c *ClassType) Attributes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.attributes...)
}

// AddAttribute appends an attribute and returns its slot.
func (c *ClassType) AddAttribute(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("typeregistry: %s: empty attribute name", c.name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.slots[name]; exists {
		return 0, fmt.Errorf("typeregistry: %s: duplicate attribute %q", c.name, name)
	}
	if _, clash := c.methods[name]; clash {
		return 0, fmt.Errorf("typeregistry: %s: attribute %q shadows a method", c.name, name)
	}
	slot := len(c.attributes)
	c.attributes = append(c.attributes, name)
	c.slots[name] = slot
	return slot, nil
}

// AddMethod binds a native method to the class.
func (c *ClassType) AddMethod(name string, fn Method) error {
	if name == "" || fn == nil {
		return fmt.Errorf("typeregistry: %s: invalid method %q", c.name, name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, clash := c.slots[name]; clash {
		return fmt.Errorf("typeregistry: %s: method %q shadows an attribute", c.name, name)
	}
	c.methods[name] = fn
	return nil
}

func (c *ClassType) Method(name string) (Method, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.methods[name]
	return fn, ok
}

// Instantiate builds an object with one None slot per current attribute.
func (c *ClassType) Instantiate() *runtime.Object {
	return runtime.NewObjectFor(c)
}

// Invoke looks name up on obj's class and calls it.
func Invoke(obj *runtime.Object, name string, args ...runtime.Value) (runtime.Value, error) {
	if obj == nil {
		return runtime.Value{}, fmt.Errorf("typeregistry: invoke %q on nil object", name)
	}
	ct, ok := obj.Type().(*ClassType)
	if !ok || ct == nil {
		return runtime.Value{}, fmt.Errorf("typeregistry: %s is not a registered class", obj.Name())
	}
	fn, ok := ct.Method(name)
	if !ok {
		return runtime.Value{}, fmt.Errorf("typeregistry: %s has no method %q", ct.name, name)
	}
	return fn(obj, args)
}

func (c *ClassType) String() string {
	return fmt.Sprintf("class %s%v", c.name, c.Attributes())
}
