package di

import (
	"errors"
	"reflect"
	"sort"
	"sync"
)

// Registry maps capability keys to providers.
//
// A Registry is safe for concurrent use. The registry lock only guards the
// binding map; factories run outside it, so a factory may resolve other
// capabilities from the same registry.
//
// Expected usage:
//
//	reg := di.NewRegistry()
//	di.Register(reg, TokenKey, di.Transient, newToken)
//	tok, err := di.Resolve(reg, TokenKey)
type Registry struct {
	mu       sync.RWMutex
	bindings map[capabilityID]*binding

	log Logger
	obs Observer
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		bindings: make(map[capabilityID]*binding),
		log:      nopLogger{},
		obs:      nopObserver{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register binds key to factory with the given lifecycle.
//
// An existing binding for key is replaced, together with any singleton it had
// cached: last registration wins. It panics if r or factory is nil, key is
// the zero Key or lc is not a declared Lifecycle.
//
// A singleton factory may resolve other keys, but resolving its own key
// blocks forever.
func Register[T any](r *Registry, key Key[T], lc Lifecycle, factory func() T) {
	if factory == nil {
		panic("di: nil factory for " + key.String())
	}
	mustRegistry(r).store(newBinding(key.id(), mustLifecycle(lc), func() any { return factory() }), false)
}

// RegisterInstance binds key to an already constructed value as a singleton.
func RegisterInstance[T any](r *Registry, key Key[T], value T) {
	b := newBinding(key.id(), Singleton, func() any { return value })
	b.instance, b.built = value, true
	mustRegistry(r).store(b, false)
}

// TryRegister is Register for callers that treat double registration as a bug.
//
// It returns DuplicateCapabilityError, and leaves the existing binding
// untouched, when key is already bound.
func TryRegister[T any](r *Registry, key Key[T], lc Lifecycle, factory func() T) error {
	if factory == nil {
		panic("di: nil factory for " + key.String())
	}
	_, err := mustRegistry(r).store(newBinding(key.id(), mustLifecycle(lc), func() any { return factory() }), true)
	return err
}

// Resolve returns the capability bound to key.
//
// Singletons are built on first resolution and cached; transients are built on
// every call. When nothing is bound it returns UnregisteredCapabilityError and
// the zero T, which callers must not use.
func Resolve[T any](r *Registry, key Key[T]) (T, error) {
	var zero T
	v, err := mustRegistry(r).resolve(key.id())
	if err != nil {
		return zero, err
	}
	// The map key carries T, so v is a T or a nil interface value.
	t, _ := v.(T)
	return t, nil
}

// MustResolve returns the capability bound to key or panics with the
// resolution error.
func MustResolve[T any](r *Registry, key Key[T]) T {
	v, err := Resolve(r, key)
	if err != nil {
		panic(err)
	}
	return v
}

// Unregister removes the binding for key and reports whether one existed.
func Unregister[T any](r *Registry, key Key[T]) bool {
	r = mustRegistry(r)
	id := key.id()

	r.mu.Lock()
	_, ok := r.bindings[id]
	delete(r.bindings, id)
	r.mu.Unlock()

	if ok {
		r.log.Debugf("unregistered capability %s<%s>", id.name, typeName(id.typ))
		r.obs.Unregistered(id.name)
	}
	return ok
}

// Has reports whether key is bound.
func Has[T any](r *Registry, key Key[T]) bool {
	return mustRegistry(r).lookup(key.id()) != nil
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

// Reset drops every binding. It exists for test isolation.
//
// The observer sees one Unregistered event per dropped binding, in name
// order.
func (r *Registry) Reset() {
	r.mu.Lock()
	dropped := make([]capabilityID, 0, len(r.bindings))
	for id := range r.bindings {
		dropped = append(dropped, id)
	}
	r.bindings = make(map[capabilityID]*binding)
	r.mu.Unlock()

	sortIDs(dropped)
	r.log.Debugf("registry reset, %d bindings dropped", len(dropped))
	for _, id := range dropped {
		r.obs.Unregistered(id.name)
	}
}

// Bindings returns a type-erased view of every binding, sorted by name and
// then by type.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	out := make([]Binding, 0, len(r.bindings))
	for id, b := range r.bindings {
		id := id
		out = append(out, Binding{
			Name:      id.name,
			Type:      id.typ,
			Lifecycle: b.lifecycle,
			resolve:   func() (any, error) { return r.resolve(id) },
		})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return lessID(out[i].Name, out[i].Type, out[j].Name, out[j].Type)
	})
	return out
}

// Warm resolves every singleton binding so construction failures surface at
// bootstrap rather than on first use. All failures are joined.
func (r *Registry) Warm() error {
	var errs []error
	for _, b := range r.Bindings() {
		if b.Lifecycle != Singleton {
			continue
		}
		if _, err := b.Resolve(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) store(b *binding, strict bool) (replaced bool, err error) {
	if b.id.name == "" {
		panic("di: capability key name must not be empty (use NewKey)")
	}
	r.mu.Lock()
	_, replaced = r.bindings[b.id]
	if replaced && strict {
		r.mu.Unlock()
		return true, DuplicateCapabilityError{Key: b.id.name, Type: typeName(b.id.typ)}
	}
	r.bindings[b.id] = b
	r.mu.Unlock()

	r.log.Debugf("registered capability %s<%s> lifecycle=%s replaced=%t",
		b.id.name, typeName(b.id.typ), b.lifecycle, replaced)
	r.obs.Registered(b.id.name, b.lifecycle, replaced)
	return replaced, nil
}

func (r *Registry) lookup(id capabilityID) *binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bindings[id]
}

func (r *Registry) resolve(id capabilityID) (any, error) {
	b := r.lookup(id)
	if b == nil {
		err := UnregisteredCapabilityError{Key: id.name, Type: typeName(id.typ)}
		r.log.Debugf("resolve %s<%s>: not registered", id.name, typeName(id.typ))
		r.obs.Failed(id.name, err)
		return nil, err
	}

	v, constructed, err := b.get()
	if err != nil {
		r.log.Debugf("resolve %s<%s>: %v", id.name, typeName(id.typ), err)
		r.obs.Failed(id.name, err)
		return nil, err
	}
	r.obs.Resolved(id.name, b.lifecycle, constructed)
	return v, nil
}

func sortIDs(ids []capabilityID) {
	sort.Slice(ids, func(i, j int) bool {
		return lessID(ids[i].name, ids[i].typ, ids[j].name, ids[j].typ)
	})
}

// lessID orders capabilities by name and then by type name.
func lessID(an string, at reflect.Type, bn string, bt reflect.Type) bool {
	if an != bn {
		return an < bn
	}
	return typeName(at) < typeName(bt)
}

func mustRegistry(r *Registry) *Registry {
	if r == nil {
		panic("di: nil registry")
	}
	return r
}

func mustLifecycle(lc Lifecycle) Lifecycle {
	if !lc.Valid() {
		panic(InvalidLifecycleError{Value: lc.String()}.Error())
	}
	return lc
}
