package di

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrUnregisteredCapability matches every UnregisteredCapabilityError.
	ErrUnregisteredCapability = errors.New("di: unregistered capability")

	// ErrDuplicateCapability matches every DuplicateCapabilityError.
	ErrDuplicateCapability = errors.New("di: duplicate capability")

	// ErrProviderPanic matches every ProviderPanicError.
	ErrProviderPanic = errors.New("di: provider panicked")

	// ErrInvalidLifecycle matches every InvalidLifecycleError.
	ErrInvalidLifecycle = errors.New("di: invalid lifecycle")
)

// UnregisteredCapabilityError is returned by Resolve when no binding exists
// for the requested key.
//
// It is always recoverable: callers may register a fallback and resolve again,
// or propagate the error.
type UnregisteredCapabilityError struct {
	// Key is the requested key name.
	Key string

	// Type is the requested capability type, as reflect.Type.String().
	Type string
}

// Error implements the error interface.
func (e UnregisteredCapabilityError) Error() string {
	// Example: di: capability "clock" (bootstrap.Clock) not registered
	return "di: capability " + strconv.Quote(e.Key) + " (" + e.Type + ") not registered"
}

// Is reports whether target is ErrUnregisteredCapability.
func (e UnregisteredCapabilityError) Is(target error) bool { return target == ErrUnregisteredCapability }

// DuplicateCapabilityError is returned by TryRegister when the key is already
// bound. Register never returns it: plain registration overwrites.
type DuplicateCapabilityError struct {
	Key  string
	Type string
}

// Error implements the error interface.
func (e DuplicateCapabilityError) Error() string {
	// Example: di: capability "clock" (bootstrap.Clock) already registered
	return "di: capability " + strconv.Quote(e.Key) + " (" + e.Type + ") already registered"
}

// Is reports whether target is ErrDuplicateCapability.
func (e DuplicateCapabilityError) Is(target error) bool { return target == ErrDuplicateCapability }

// ProviderPanicError is returned by Resolve when the factory panicked.
//
// A singleton whose factory panicked is not cached; the next resolution runs
// the factory again.
type ProviderPanicError struct {
	Key  string
	Type string

	// Value is the recovered panic value.
	Value any
}

// Error implements the error interface.
func (e ProviderPanicError) Error() string {
	return "di: provider for " + strconv.Quote(e.Key) + " (" + e.Type + ") panicked: " + fmt.Sprint(e.Value)
}

// Is reports whether target is ErrProviderPanic.
func (e ProviderPanicError) Is(target error) bool { return target == ErrProviderPanic }

// Unwrap exposes the panic value when it is itself an error.
func (e ProviderPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// InvalidLifecycleError is returned by ParseLifecycle for unknown names.
type InvalidLifecycleError struct{ Value string }

// Error implements the error interface.
func (e InvalidLifecycleError) Error() string {
	return "di: invalid lifecycle " + strconv.Quote(e.Value) + " (want transient or singleton)"
}

// Is reports whether target is ErrInvalidLifecycle.
func (e InvalidLifecycleError) Is(target error) bool { return target == ErrInvalidLifecycle }
