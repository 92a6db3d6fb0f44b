package bootstrap

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/locator/config"
	"github.com/sghaida/locator/di"
)

//
// -----------------------------------------------------------------------------
// Catalog
// -----------------------------------------------------------------------------

// TestCatalog_AddLookupNames verifies installers are stored, found and listed in order.
func TestCatalog_AddLookupNames(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	require.NoError(t, c.Add("b", Provider(newCounter)))
	require.NoError(t, c.Add("a", Provider(newStaticString)))

	inst, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf((*string)(nil)).Elem(), inst.Type)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b"}, c.Names())
}

// TestCatalog_AddErrors verifies duplicate, empty and nil installers are refused.
func TestCatalog_AddErrors(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	require.NoError(t, c.Add("x", Provider(newCounter)))

	assert.ErrorContains(t, c.Add("x", Provider(newCounter)), "already registered for x")
	assert.ErrorContains(t, c.Add("", Provider(newCounter)), "provider name is required")
	assert.ErrorContains(t, c.Add("y", Installer{}), "installer nil for y")
	assert.Panics(t, func() { c.MustAdd("x", Provider(newCounter)) })
}

// TestInstaller_Empty verifies a zero Installer fails instead of panicking.
func TestInstaller_Empty(t *testing.T) {
	t.Parallel()

	err := Installer{}.Install(di.NewRegistry(), "k", di.Singleton, nil)
	assert.Error(t, err)
}

// TestBuiltin_Names verifies the builtin catalog contents.
func TestBuiltin_Names(t *testing.T) {
	t.Parallel()

	want := []string{CounterProvider, StaticStringProvider, SystemClockProvider, UUIDTokenProvider}
	if diff := cmp.Diff(want, Builtin().Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

//
// -----------------------------------------------------------------------------
// Apply / Build
// -----------------------------------------------------------------------------

// TestApply_BuiltinBindings verifies configured bindings resolve with their lifecycles.
func TestApply_BuiltinBindings(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Bindings: []config.BindingConfig{
		{Key: "clock", Provider: SystemClockProvider, Lifecycle: "singleton", Params: map[string]any{"location": "UTC"}},
		{Key: "token", Provider: UUIDTokenProvider, Lifecycle: "transient", Params: map[string]any{"prefix": "req-"}},
		{Key: "instance-id", Provider: UUIDTokenProvider, Lifecycle: "singleton"},
		{Key: "counter", Provider: CounterProvider, Lifecycle: "singleton", Params: map[string]any{"start": "10"}},
		{Key: "greeting", Provider: StaticStringProvider, Lifecycle: "singleton", Params: map[string]any{"value": "hello"}},
	}}

	r, err := Build(cfg, Builtin(), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())

	clockKey := di.NewKey[Clock]("clock")
	tokenKey := di.NewKey[Token]("token")
	counterKey := di.NewKey[*Counter]("counter")

	clock := di.MustResolve(r, clockKey)
	assert.Equal(t, time.UTC, clock.Now().Location())
	assert.Same(t, clock, di.MustResolve(r, clockKey))

	t1 := di.MustResolve(r, tokenKey)
	t2 := di.MustResolve(r, tokenKey)
	assert.NotEqual(t, t1, t2)
	assert.Regexp(t, `^req-[0-9a-f-]{36}$`, string(t1))

	idKey := di.NewKey[Token]("instance-id")
	assert.Equal(t, di.MustResolve(r, idKey), di.MustResolve(r, idKey))

	counter := di.MustResolve(r, counterKey)
	assert.Equal(t, int64(11), counter.Next())
	assert.Equal(t, int64(11), di.MustResolve(r, counterKey).Value())

	assert.Equal(t, "hello", di.MustResolve(r, di.NewKey[string]("greeting")))
}

// TestApply_JoinsFailures verifies every broken binding is reported and good ones still install.
func TestApply_JoinsFailures(t *testing.T) {
	t.Parallel()

	r := di.NewRegistry()
	err := Apply(r, Builtin(), []config.BindingConfig{
		{Key: "a", Provider: "nope", Lifecycle: "singleton"},
		{Key: "b", Provider: StaticStringProvider, Lifecycle: "singleton"},
		{Key: "c", Provider: SystemClockProvider, Lifecycle: "singleton", Params: map[string]any{"location": "Mars/Olympus"}},
		{Key: "d", Provider: CounterProvider, Lifecycle: "sometimes"},
		{Key: "e", Provider: CounterProvider, Lifecycle: "singleton", Params: map[string]any{"bogus": 1}},
		{Key: "counter", Provider: CounterProvider, Lifecycle: "transient"},
	}, nil)
	require.Error(t, err)

	var upe UnknownProviderError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, "nope", upe.Provider)

	msg := err.Error()
	assert.Contains(t, msg, `binding "a": unknown provider "nope"`)
	assert.Contains(t, msg, `binding "b": params: value is required`)
	assert.Contains(t, msg, `binding "c": location`)
	assert.ErrorIs(t, err, di.ErrInvalidLifecycle)
	assert.Contains(t, msg, `binding "e": params`)

	assert.Equal(t, 1, r.Len())
	assert.True(t, di.Has(r, di.NewKey[*Counter]("counter")))
}

// TestBuild_Error verifies Build returns no registry when a binding fails.
func TestBuild_Error(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Bindings: []config.BindingConfig{{Key: "x", Provider: "missing", Lifecycle: "singleton"}}}
	r, err := Build(cfg, Builtin(), nil)
	assert.Nil(t, r)
	assert.Error(t, err)
}

// TestProvider_RegistersUnderTypedKey verifies custom providers bind under di.NewKey[T](name).
func TestProvider_RegistersUnderTypedKey(t *testing.T) {
	t.Parallel()

	type port int
	inst := Provider(func(map[string]any) (func() port, error) {
		return func() port { return 8080 }, nil
	})

	r := di.NewRegistry()
	require.NoError(t, inst.Install(r, "http-port", di.Singleton, nil))

	p, err := di.Resolve(r, di.NewKey[port]("http-port"))
	require.NoError(t, err)
	assert.Equal(t, port(8080), p)
}
