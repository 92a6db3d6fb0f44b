package di

import (
	"strconv"
	"strings"
)

// Lifecycle selects how a provider produces values.
type Lifecycle int

const (
	// Transient invokes the factory on every resolution.
	Transient Lifecycle = iota
	// Singleton invokes the factory once and caches the result.
	Singleton
)

// String returns "transient" or "singleton".
func (l Lifecycle) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	default:
		return "lifecycle(" + strconv.Itoa(int(l)) + ")"
	}
}

// Valid reports whether l is one of the declared lifecycles.
func (l Lifecycle) Valid() bool { return l == Transient || l == Singleton }

// ParseLifecycle parses a lifecycle name, ignoring case and surrounding space.
func ParseLifecycle(s string) (Lifecycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transient":
		return Transient, nil
	case "singleton":
		return Singleton, nil
	default:
		return 0, InvalidLifecycleError{Value: s}
	}
}
