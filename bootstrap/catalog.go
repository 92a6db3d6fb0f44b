// Package bootstrap turns a config.Config into registry bindings.
//
// A Catalog maps provider names ("system-clock", "uuid-token", ...) to
// Installers. Each configured binding names a provider, and Apply registers
// that provider's capability under the binding's key.
package bootstrap

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/sghaida/locator/config"
	"github.com/sghaida/locator/di"
	"github.com/sghaida/locator/logger"
)

// Installer registers one provider's capability into a registry.
//
// It hides the capability type behind a non-generic value so installers of
// different types can live in one Catalog.
type Installer struct {
	// Type is the capability type the installer binds.
	Type reflect.Type

	install func(r *di.Registry, name string, lc di.Lifecycle, params map[string]any) error
}

// Install builds the provider from params and registers it under name.
func (i Installer) Install(r *di.Registry, name string, lc di.Lifecycle, params map[string]any) error {
	if i.install == nil {
		return errors.New("bootstrap: empty installer")
	}
	return i.install(r, name, lc, params)
}

// Provider lifts a typed provider builder into an Installer. build validates
// params and returns the factory to register under di.NewKey[T](name).
func Provider[T any](build func(params map[string]any) (func() T, error)) Installer {
	return Installer{
		Type: reflect.TypeOf((*T)(nil)).Elem(),
		install: func(r *di.Registry, name string, lc di.Lifecycle, params map[string]any) error {
			factory, err := build(params)
			if err != nil {
				return err
			}
			di.Register(r, di.NewKey[T](name), lc, factory)
			return nil
		},
	}
}

// Catalog stores installers keyed by provider name.
type Catalog struct {
	mu         sync.RWMutex
	installers map[string]Installer
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{installers: make(map[string]Installer)}
}

// Add stores an installer under name. Provider names are unique.
func (c *Catalog) Add(name string, inst Installer) error {
	if name == "" {
		return errors.New("bootstrap: provider name is required")
	}
	if inst.install == nil {
		return fmt.Errorf("bootstrap: installer nil for %s", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.installers[name]; ok {
		return fmt.Errorf("bootstrap: provider already registered for %s", name)
	}
	c.installers[name] = inst
	return nil
}

// MustAdd is Add that panics on error, for package-level catalogs.
func (c *Catalog) MustAdd(name string, inst Installer) *Catalog {
	if err := c.Add(name, inst); err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the installer registered under name.
func (c *Catalog) Lookup(name string) (Installer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.installers[name]
	return inst, ok
}

// Names returns the provider names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.installers))
	for n := range c.installers {
		names = append(names, n)
	}
	c.mu.RUnlock()
	sort.Strings(names)
	return names
}

// UnknownProviderError is returned by Apply when a binding names a provider
// missing from the catalog.
type UnknownProviderError struct {
	Key      string
	Provider string
}

func (e UnknownProviderError) Error() string {
	return fmt.Sprintf("binding %q: unknown provider %q", e.Key, e.Provider)
}

// Apply installs every binding into r. It continues past failures and joins
// them, so one run reports every broken binding.
func Apply(r *di.Registry, c *Catalog, bindings []config.BindingConfig, log logger.Logger) error {
	if log == nil {
		log = logger.NopLogger{}
	}
	var errs []error
	for _, b := range bindings {
		inst, ok := c.Lookup(b.Provider)
		if !ok {
			errs = append(errs, UnknownProviderError{Key: b.Key, Provider: b.Provider})
			continue
		}
		lc, err := di.ParseLifecycle(b.Lifecycle)
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %q: %w", b.Key, err))
			continue
		}
		if err := inst.Install(r, b.Key, lc, b.Params); err != nil {
			errs = append(errs, fmt.Errorf("binding %q: %w", b.Key, err))
			continue
		}
		log.Debugw("capability bound", map[string]any{
			"key":       b.Key,
			"provider":  b.Provider,
			"type":      inst.Type.String(),
			"lifecycle": lc.String(),
		})
	}
	return errors.Join(errs...)
}

// Build creates a registry from cfg using catalog c.
func Build(cfg *config.Config, c *Catalog, log logger.Logger, opts ...di.Option) (*di.Registry, error) {
	r := di.NewRegistry(opts...)
	if err := Apply(r, c, cfg.Bindings, log); err != nil {
		return nil, err
	}
	return r, nil
}
