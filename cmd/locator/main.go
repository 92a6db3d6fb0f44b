// Command locator inspects and serves a capability registry described by a
// bootstrap file.
//
// Usage:
//
//	locator list  -c locator.yaml   # print configured bindings
//	locator check -c locator.yaml   # resolve every binding, fail on broken wiring
//	locator serve -c locator.yaml   # warm singletons, expose /metrics until interrupted
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
