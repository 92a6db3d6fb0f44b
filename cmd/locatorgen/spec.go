package main

import (
	"go/token"
	"strings"

	"github.com/sghaida/locator/di"
)

// GoImport is one import line of a generated file.
type GoImport struct {
	Name string `json:"name,omitempty"` // optional alias
	Path string `json:"path"`
}

type Imports struct {
	DI     string `json:"di"`
	Config string `json:"config"`

	// Extra imports needed by capability types or constructors.
	Extra []GoImport `json:"extra"`
}

// ConfigSpec makes config optional.
// If Enabled=false (default), generated code does not import config, wire
// functions take no cfg parameter and constructors get no cfg argument.
type ConfigSpec struct {
	Enabled bool `json:"enabled"`

	// Optional: override inferred import path (e.g. "github.com/acme/proj/config")
	Import string `json:"import"`

	// Optional: override the parameter type (default "config.Config")
	Type string `json:"type"`

	// Optional: override the parameter name (default "cfg")
	ParamName string `json:"paramName"`
}

type OptionalApply struct {
	Kind string `json:"kind"` // "setter" | "field"
	Name string `json:"name"`
}

type OptionalDep struct {
	// Key names a capability of the same spec or is a Go key expression.
	Key   string        `json:"key"`
	Apply OptionalApply `json:"apply"`

	// Optional: emitted when the key is not bound, e.g. "nopAudit{}".
	DefaultExpr string `json:"defaultExpr"`

	KeyExpr string `json:"-"`
}

type CapabilitySpec struct {
	// Name is the Go identifier prefix; the key variable is <Name>Key.
	Name string `json:"name"`
	// Key is the registry name.
	Key         string `json:"key"`
	Type        string `json:"type"`
	Constructor string `json:"constructor"`
	Lifecycle   string `json:"lifecycle"` // "singleton" (default) | "transient"

	// Requires are passed to Constructor in order.
	Requires []string      `json:"requires"`
	Optional []OptionalDep `json:"optional"`

	KeyVar         string   `json:"-"`
	LifecycleConst string   `json:"-"`
	Args           []string `json:"-"`
}

type InjectSpec struct {
	Package  string `json:"package"`
	WireFunc string `json:"wireFunc"`

	Imports Imports    `json:"imports"`
	Config  ConfigSpec `json:"config"`

	Capabilities []CapabilitySpec `json:"capabilities"`
}

type WireStep struct {
	// Call is the wire function, e.g. "wire" or "users.Wire".
	Call       string `json:"call"`
	WithConfig bool   `json:"withConfig"`
}

type RootSpec struct {
	Name string     `json:"name"`
	Warm bool       `json:"warm"`
	Wire []WireStep `json:"wire"`
}

type GraphSpec struct {
	Package string `json:"package"`

	Imports Imports    `json:"imports"`
	Config  ConfigSpec `json:"config"`

	Roots []RootSpec `json:"roots"`
}

func applyConfigDefaults(c *ConfigSpec) {
	if c == nil {
		return
	}
	if c.Type == "" {
		c.Type = "config.Config"
	}
	if c.ParamName == "" {
		c.ParamName = "cfg"
	}
}

func validateInjectSpec(s *InjectSpec) {
	if strings.TrimSpace(s.Package) == "" {
		die("spec missing: package")
	}
	if s.WireFunc != "" && !token.IsIdentifier(s.WireFunc) {
		die("spec wireFunc " + quote(s.WireFunc) + " is not a Go identifier")
	}
	if len(s.Capabilities) == 0 {
		die("spec capabilities must be non-empty")
	}

	names := map[string]bool{}
	keys := map[string]bool{}
	for _, c := range s.Capabilities {
		if c.Name == "" || c.Key == "" || c.Type == "" || c.Constructor == "" {
			die("capability must have name/key/type/constructor")
		}
		if !token.IsIdentifier(c.Name) {
			die("capability name " + quote(c.Name) + " is not a Go identifier")
		}
		if names[c.Name] {
			die("duplicate capability name " + quote(c.Name))
		}
		names[c.Name] = true

		id := c.Key + "<" + c.Type + ">"
		if keys[id] {
			die("duplicate capability key " + id)
		}
		keys[id] = true

		if c.Lifecycle != "" {
			if _, err := di.ParseLifecycle(c.Lifecycle); err != nil {
				die("capability " + c.Name + ": " + err.Error())
			}
		}
		for _, r := range c.Requires {
			if strings.TrimSpace(r) == "" {
				die("capability " + c.Name + ": requires entries must be non-empty")
			}
		}
		for _, o := range c.Optional {
			if o.Key == "" || o.Apply.Kind == "" || o.Apply.Name == "" {
				die("optional dep must have key/apply{kind,name}")
			}
			if o.Apply.Kind != "setter" && o.Apply.Kind != "field" {
				die("optional.apply.kind must be 'setter' or 'field'")
			}
		}
	}
}

func validateGraphSpec(g *GraphSpec) {
	if strings.TrimSpace(g.Package) == "" {
		die("graph spec missing package")
	}
	if len(g.Roots) == 0 {
		die("graph spec roots must be non-empty")
	}
	seen := map[string]bool{}
	for _, r := range g.Roots {
		if !token.IsIdentifier(r.Name) {
			die("graph root name " + quote(r.Name) + " is not a Go identifier")
		}
		if seen[r.Name] {
			die("duplicate graph root " + quote(r.Name))
		}
		seen[r.Name] = true
		for _, w := range r.Wire {
			if strings.TrimSpace(w.Call) == "" {
				die("graph root " + r.Name + ": wire call must be non-empty")
			}
			if w.WithConfig && !g.Config.Enabled {
				die("graph root " + r.Name + ": " + w.Call + " takes config but config is disabled")
			}
		}
	}
}

// resolveCapabilities fills the generated fields: key variables, lifecycle
// constants and constructor arguments.
func resolveCapabilities(s *InjectSpec) {
	keyVars := make(map[string]string, len(s.Capabilities))
	for _, c := range s.Capabilities {
		keyVars[c.Name] = c.Name + "Key"
	}
	keyExpr := func(ref string) string {
		if v, ok := keyVars[ref]; ok {
			return v
		}
		return ref
	}

	for i := range s.Capabilities {
		c := &s.Capabilities[i]
		c.KeyVar = keyVars[c.Name]

		lc := di.Singleton
		if c.Lifecycle != "" {
			lc, _ = di.ParseLifecycle(c.Lifecycle)
		}
		c.LifecycleConst = lifecycleConst(lc)

		c.Args = c.Args[:0]
		if s.Config.Enabled {
			c.Args = append(c.Args, s.Config.ParamName)
		}
		for _, r := range c.Requires {
			c.Args = append(c.Args, "di.MustResolve(r, "+keyExpr(r)+")")
		}
		for j := range c.Optional {
			c.Optional[j].KeyExpr = keyExpr(c.Optional[j].Key)
		}
	}
}

func lifecycleConst(lc di.Lifecycle) string {
	if lc == di.Transient {
		return "di.Transient"
	}
	return "di.Singleton"
}

// typesUsePkgQualifier reports whether any capability type or default
// expression mentions the package qualifier "pkg.".
func typesUsePkgQualifier(caps []CapabilitySpec, pkg string) bool {
	for _, c := range caps {
		if mentionsPkg(c.Type, pkg) {
			return true
		}
		for _, o := range c.Optional {
			if mentionsPkg(o.DefaultExpr, pkg) {
				return true
			}
		}
	}
	return false
}

// mentionsPkg matches "pkg." only at an identifier boundary, so "runtime."
// does not count as "time.".
func mentionsPkg(s, pkg string) bool {
	needle := pkg + "."
	for i := 0; ; {
		j := strings.Index(s[i:], needle)
		if j < 0 {
			return false
		}
		at := i + j
		if at == 0 || !isIdentByte(s[at-1]) {
			return true
		}
		i = at + len(needle)
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
