package di

import (
	"reflect"
	"sync"
)

// binding is the provider stored under one capability.
//
// factory is the caller's typed func() T erased to func() any. mu serialises
// the singleton check-then-construct so concurrent first resolutions build
// exactly one instance.
type binding struct {
	id        capabilityID
	lifecycle Lifecycle
	factory   func() any

	mu       sync.Mutex
	built    bool
	instance any
}

func newBinding(id capabilityID, lc Lifecycle, factory func() any) *binding {
	return &binding{id: id, lifecycle: lc, factory: factory}
}

// get returns the binding's value. constructed reports whether the factory ran.
func (b *binding) get() (v any, constructed bool, err error) {
	if b.lifecycle == Transient {
		v, err = b.construct()
		return v, err == nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.built {
		return b.instance, false, nil
	}
	v, err = b.construct()
	if err != nil {
		return nil, false, err
	}
	b.instance, b.built = v, true
	return v, true, nil
}

// construct runs the factory and converts a panic into ProviderPanicError.
func (b *binding) construct() (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v = nil
			err = ProviderPanicError{Key: b.id.name, Type: typeName(b.id.typ), Value: rec}
		}
	}()
	return b.factory(), nil
}

// Binding is a non-generic view of one registered capability.
//
// It erases the capability type so bindings of different types can be listed
// and resolved side by side, e.g. by a health check that warms every
// singleton. Resolve forwards to the registry, so a Binding obtained before a
// re-registration resolves through the newer provider.
type Binding struct {
	// Name is the key name.
	Name string

	// Type is the capability type.
	Type reflect.Type

	// Lifecycle is the provider's lifecycle at the time the view was taken.
	Lifecycle Lifecycle

	resolve func() (any, error)
}

// Resolve resolves the capability and returns it as any.
func (b Binding) Resolve() (any, error) {
	if b.resolve == nil {
		return nil, UnregisteredCapabilityError{Key: b.Name, Type: typeName(b.Type)}
	}
	return b.resolve()
}

// String renders the binding as name<type>.
func (b Binding) String() string { return b.Name + "<" + typeName(b.Type) + ">" }
