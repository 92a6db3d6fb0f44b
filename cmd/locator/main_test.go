package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/locator/bootstrap"
)

const goodConfig = `
logging:
  level: error
bindings:
  - key: clock
    provider: system-clock
    params:
      location: UTC
  - key: token
    provider: uuid-token
    lifecycle: transient
  - key: greeting
    provider: static-string
    params:
      value: hello
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, c *bootstrap.Catalog, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmdWith(c)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// explodingCatalog is the builtin catalog plus a provider whose factory always panics.
func explodingCatalog() *bootstrap.Catalog {
	return bootstrap.Builtin().MustAdd("exploding", bootstrap.Provider(func(map[string]any) (func() int, error) {
		return func() int { panic("dial tcp: connection refused") }, nil
	}))
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

//
// -----------------------------------------------------------------------------
// list
// -----------------------------------------------------------------------------

func TestList(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "locator.yaml", goodConfig)

	out, err := execute(t, bootstrap.Builtin(), "list", "-c", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^clock\s+bootstrap\.Clock\s+singleton$`, lines[0])
	assert.Regexp(t, `^greeting\s+string\s+singleton$`, lines[1])
	assert.Regexp(t, `^token\s+bootstrap\.Token\s+transient$`, lines[2])
}

func TestList_HCL(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "locator.hcl", `
logging {
  level = "error"
}

binding "counter" {
  provider = "counter"
  params   = { start = "3" }
}
`)

	out, err := execute(t, bootstrap.Builtin(), "list", "-c", path)
	require.NoError(t, err)
	assert.Regexp(t, `^counter\s+\*bootstrap\.Counter\s+singleton\n$`, out)
}

//
// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

func TestCheck_OK(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "locator.yaml", goodConfig)

	out, err := execute(t, bootstrap.Builtin(), "check", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   clock<bootstrap.Clock> singleton")
	assert.Contains(t, out, "ok   token<bootstrap.Token> transient")
}

func TestCheck_ReportsFailingFactory(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "locator.yaml", `
logging:
  level: error
bindings:
  - key: db
    provider: exploding
  - key: greeting
    provider: static-string
    params:
      value: hello
`)

	out, err := execute(t, explodingCatalog(), "check", "-c", path)
	require.Error(t, err)
	assert.EqualError(t, err, "1 of 2 bindings failed to resolve")
	assert.Contains(t, out, `FAIL db<int>: di: provider for "db" (int) panicked: dial tcp: connection refused`)
	assert.Contains(t, out, "ok   greeting<string> singleton")
}

func TestCheck_BadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "locator.yaml", `
bindings:
  - key: greeting
    provider: not-a-provider
`)

	_, err := execute(t, bootstrap.Builtin(), "check", "-c", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "not-a-provider"`)
}

func TestCheck_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := execute(t, bootstrap.Builtin(), "check", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

//
// -----------------------------------------------------------------------------
// serve
// -----------------------------------------------------------------------------

func TestServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "locator.yaml", goodConfig)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := serve(ctx, cmd, &options{cfgPath: path, catalog: bootstrap.Builtin()})
	assert.NoError(t, err)
}

func TestServe_FailsOnBrokenSingleton(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "locator.yaml", `
logging:
  level: error
bindings:
  - key: db
    provider: exploding
`)

	cmd := newRootCmdWith(explodingCatalog())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := serve(context.Background(), cmd, &options{cfgPath: path, catalog: explodingCatalog()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warm singletons")
}

func TestServe_ExposesMetrics(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	path := writeConfig(t, "locator.yaml", fmt.Sprintf(`
logging:
  level: error
metrics:
  enabled: true
  addr: %q
bindings:
  - key: greeting
    provider: static-string
    params:
      value: hello
`, addr))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- serve(ctx, cmd, &options{cfgPath: path, catalog: bootstrap.Builtin()}) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil || resp.StatusCode != http.StatusOK {
			return false
		}
		body = string(b)
		return true
	}, 5*time.Second, 20*time.Millisecond)

	assert.Contains(t, body, `locator_registrations_total{key="greeting",lifecycle="singleton",replaced="false"} 1`)
	assert.Contains(t, body, `locator_constructions_total{key="greeting",lifecycle="singleton"} 1`)
	assert.Contains(t, body, "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}
