package di

// Logger receives debug traces of registry activity.
//
// *logger.ZerologLogger from github.com/sghaida/locator/logger satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
}

// Observer is notified of registry activity, typically to export metrics.
//
// Implementations must be safe for concurrent use. Callbacks run on the
// caller's goroutine and must not call back into the registry.
type Observer interface {
	// Registered is called after a binding is stored. replaced is true when an
	// existing binding for the same key was overwritten.
	Registered(key string, lc Lifecycle, replaced bool)

	// Unregistered is called after a binding is removed.
	Unregistered(key string)

	// Resolved is called after a successful resolution. constructed is true
	// when the factory ran to produce the value.
	Resolved(key string, lc Lifecycle, constructed bool)

	// Failed is called when a resolution returns an error.
	Failed(key string, err error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes registry debug traces to l. A nil l keeps the default no-op logger.
func WithLogger(l Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithObserver attaches o to the registry. A nil o keeps the default no-op observer.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.obs = o
		}
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

type nopObserver struct{}

func (nopObserver) Registered(string, Lifecycle, bool) {}
func (nopObserver) Unregistered(string)                {}
func (nopObserver) Resolved(string, Lifecycle, bool)   {}
func (nopObserver) Failed(string, error)               {}
