// Package locator is a typed capability registry for Go.
//
// Code asks a registry for a capability by key and receives whatever
// implementation was registered for it, so call sites never name concrete
// types and tests can swap bindings without touching them.
//
// Layout:
//   - di: the registry, typed keys, lifecycles and errors
//   - bootstrap: installs bindings into a registry from a config file
//   - config: yaml, json and hcl bootstrap files with env overrides
//   - logger, metrics: zerolog and prometheus adapters for registry events
//   - cmd/locator: list, check and serve a configured registry
//   - examples/userservice: a service swapped for a mock at runtime
package locator
