// Package di provides a small, typed capability registry for Go.
//
// A Registry maps a capability key to a provider. Bootstrap code registers
// providers once, and any downstream code resolves them later without knowing
// which concrete implementation sits behind the key.
//
// Keys are typed tokens (Key[T]) so resolution never needs an unchecked cast:
// the identity of a key is its name plus its type, and Resolve[T] can only see
// bindings registered for the same T.
//
// Two lifecycles are supported:
//
//   - Transient: the factory runs on every resolution.
//   - Singleton: the factory runs once, on first resolution, and the cached
//     value is returned from then on.
//
// Resolving a key that was never registered is always an error
// (UnregisteredCapabilityError). It never silently yields a zero value.
//
// Quick start
//
//	var ClockKey = di.NewKey[Clock]("clock")
//
//	reg := di.NewRegistry()
//	di.Register(reg, ClockKey, di.Singleton, func() Clock { return systemClock{} })
//
//	clock, err := di.Resolve(reg, ClockKey)
//	if err != nil {
//		// handle missing wiring
//	}
//
// There is no package-level registry. Construct one in your composition root
// and pass it down explicitly, or carry it on a context with NewContext.
//
// Import
//
//	"github.com/sghaida/locator/di"
package di
