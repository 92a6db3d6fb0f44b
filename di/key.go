package di

import "reflect"

// Key identifies an abstract capability of type T.
//
// Keys are typically declared as package-level variables next to the
// capability interface they stand for:
//
//	var (
//		ClockKey = di.NewKey[Clock]("clock")
//		TokenKey = di.NewKey[TokenSource]("token")
//	)
//
// The registry identity of a key is the pair (name, T). Two keys that share a
// name but not a type are different capabilities.
type Key[T any] struct {
	name string
}

// NewKey returns the key for capability T under name.
//
// It panics if name is empty.
func NewKey[T any](name string) Key[T] {
	if name == "" {
		panic("di: capability key name must not be empty")
	}
	return Key[T]{name: name}
}

// Name returns the key's name.
func (k Key[T]) Name() string { return k.name }

// Type returns the capability type the key resolves to.
func (k Key[T]) Type() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// String renders the key as name<type>, e.g. clock<bootstrap.Clock>.
func (k Key[T]) String() string { return k.name + "<" + typeName(k.Type()) + ">" }

func (k Key[T]) id() capabilityID {
	return capabilityID{name: k.name, typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// capabilityID is the map key behind every binding.
type capabilityID struct {
	name string
	typ  reflect.Type
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
