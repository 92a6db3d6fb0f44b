// Command locatorgen generates typed capability keys and registry wiring for
// the di package.
//
// Hand-written wiring for a registry is the same three lines per capability:
// declare a di.Key, call di.Register with a lifecycle, and resolve the
// constructor's dependencies inside the factory. locatorgen writes those lines
// from a JSON description so the composition root stays short and the keys
// stay in sync with it.
//
// What locatorgen generates
//
//  1. Capability wiring (from *.inject.json)
//  2. Composition roots (from graph.json)
//
// A) Capability wiring (from *.inject.json)
//
// For each declared capability locatorgen emits:
//
//   - a typed key: <Name>Key = di.NewKey[T]("key")
//   - a di.Register call inside one wire function (default name Wire)
//   - a factory that calls the constructor with every required dependency
//     resolved from the same registry, in declaration order
//   - optional dependencies applied through a setter or a field when their
//     key is bound, with an optional default expression when it is not
//
// Example spec:
//
//	{
//	  "package": "users",
//	  "wireFunc": "Wire",
//	  "imports": {"extra": [{"path": "example.com/app/store"}]},
//	  "capabilities": [
//	    {"name": "DB", "key": "db", "type": "*store.DB", "constructor": "store.Open"},
//	    {
//	      "name": "Users", "key": "users", "type": "Service",
//	      "constructor": "newService", "lifecycle": "singleton",
//	      "requires": ["DB"],
//	      "optional": [
//	        {"key": "AuditKey", "apply": {"kind": "setter", "name": "SetAudit"}, "defaultExpr": "nopAudit{}"}
//	      ]
//	    }
//	  ]
//	}
//
// A requires or optional entry naming a capability of the same spec refers to
// its generated key; anything else is used verbatim as a Go key expression,
// e.g. "billing.InvoicesKey".
//
// B) Composition roots (from graph.json)
//
// Each root becomes a function that creates a registry, calls the listed wire
// functions in order and, when warm is set, builds every singleton before
// returning:
//
//	func BuildApp(opts ...di.Option) (*di.Registry, error)
//
// Later wire calls replace earlier bindings for the same key, so a graph can
// layer test or environment overrides over a base wiring.
//
// Config
//
// With "config": {"enabled": true} the wire function and roots take a config
// value (default type config.Config) and pass it as the first constructor
// argument. The config import is inferred from the package sources or the
// project go.mod when not given.
//
// Typical go:generate usage
//
//	//go:generate go run ../../cmd/locatorgen --spec specs/users.inject.json --out users.gen.go
//	//go:generate go run ../../cmd/locatorgen --graph specs/graph.json --out app.gen.go
//
// Generated files carry the input file name and its SHA-256 in their header.
// Imports already present in an existing output file are preserved.
package main
