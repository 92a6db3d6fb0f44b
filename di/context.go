package di

import "context"

type registryCtxKey struct{}

// NewContext returns a copy of ctx carrying r.
func NewContext(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryCtxKey{}, r)
}

// FromContext returns the registry carried by ctx, if any.
func FromContext(ctx context.Context) (*Registry, bool) {
	r, ok := ctx.Value(registryCtxKey{}).(*Registry)
	return r, ok && r != nil
}

// ResolveFrom resolves key from the registry carried by ctx.
//
// A context without a registry behaves like an empty registry and yields
// UnregisteredCapabilityError.
func ResolveFrom[T any](ctx context.Context, key Key[T]) (T, error) {
	r, ok := FromContext(ctx)
	if !ok {
		var zero T
		return zero, UnregisteredCapabilityError{Key: key.Name(), Type: typeName(key.Type())}
	}
	return Resolve(r, key)
}
