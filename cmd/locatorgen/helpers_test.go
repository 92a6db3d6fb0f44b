package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type pkgHarness struct {
	t   *testing.T
	dir string
}

func newPkg(t *testing.T) *pkgHarness {
	t.Helper()
	return &pkgHarness{t: t, dir: t.TempDir()}
}

func (p *pkgHarness) write(rel, content string) string {
	p.t.Helper()
	path := filepath.Join(p.dir, rel)
	mustWriteFile(p.t, path, content)
	return path
}

func (p *pkgHarness) out(rel string) string {
	return filepath.Join(p.dir, rel)
}

func (p *pkgHarness) read(rel string) string {
	p.t.Helper()
	return mustReadString(p.t, filepath.Join(p.dir, rel))
}

func writeDISource(p *pkgHarness) {
	p.write("di.go", `package p
import di "example.com/proj/di"
var _ = di.NewRegistry`)
}

func writeConfigSource(p *pkgHarness) {
	p.write("cfg.go", `package p
import config "example.com/proj/config"
var _ = config.Config{}`)
}

func writeGoMod(p *pkgHarness) {
	p.write("go.mod", "module example.com/proj\n\ngo 1.22\n")
}

func assertHasImport(t *testing.T, out, imp string) {
	t.Helper()
	require.Contains(t, out, `"`+imp+`"`, "expected import %q", imp)
}

func assertNotHasImport(t *testing.T, out, imp string) {
	t.Helper()
	require.NotContains(t, out, `"`+imp+`"`, "did not expect import %q", imp)
}

func assertPanicContains(t *testing.T, fn func(), wantSubstr string) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic containing %q, got none", wantSubstr)
		require.Contains(t, toString(r), wantSubstr)
	}()
	fn()
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func mustReadString(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func assertContainsInOrder(t *testing.T, s string, parts ...string) {
	t.Helper()
	pos := 0
	for _, p := range parts {
		i := strings.Index(s[pos:], p)
		require.GreaterOrEqual(t, i, 0, "expected to find %q after pos=%d in:\n%s", p, pos, s)
		pos += i + len(p)
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	default:
		return fmt.Sprint(x)
	}
}
