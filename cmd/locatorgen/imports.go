package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// -------------------------
// Import inference
// -------------------------
//
// Rules:
//
// (1) Config is optional: only infer the config import if Config.Enabled=true.
// (2) Read imports from the non-generated .go files in the target package dir.
// (3) The di runtime path comes from the go.mod of the module containing
//     locatorgen, while project imports come from the nearest go.mod above the
//     output file.
//
// A package that already imports a di package (e.g. a fork) keeps it.

func inferImports(imp *Imports, cfg *ConfigSpec, outPath, what string) {
	pkgDir := filepath.Dir(outPath)
	scanned := scanPackageImports(pkgDir)

	if cfg.Enabled {
		if strings.TrimSpace(cfg.Import) != "" {
			imp.Config = strings.TrimSpace(cfg.Import)
		} else if strings.TrimSpace(imp.Config) == "" {
			if gi, ok := findImportByAliasOrSuffix(scanned, "config", "/config"); ok {
				imp.Config = gi.Path
			}
		}

		if strings.TrimSpace(imp.Config) == "" {
			imp.Config = projectConfigImport(pkgDir, what)
		}
	} else {
		imp.Config = ""
	}

	if strings.TrimSpace(imp.DI) == "" {
		if gi, ok := findImportByAliasOrSuffix(scanned, "di", "/di"); ok {
			imp.DI = gi.Path
		} else {
			imp.DI = inferDIRuntimeImport("di")
		}
	}
}

// projectConfigImport falls back to <pkg import>/config when the package has a
// ./config directory.
func projectConfigImport(pkgDir, what string) string {
	prefix := "cannot infer " + what + " imports.config: "
	modRoot, modPath, err := findModule(pkgDir)
	if err != nil {
		die(prefix + "config enabled but not imported in sources and cannot find project go.mod: " + err.Error())
	}
	pkgImport, perr := moduleImportPathForDir(modRoot, modPath, pkgDir)
	if perr != nil {
		die(prefix + "cannot compute project pkg import for " + filepath.ToSlash(pkgDir) + ": " + perr.Error())
	}
	if !dirExists(filepath.Join(pkgDir, "config")) {
		die(prefix + "config enabled but ./config directory not found in " + filepath.ToSlash(pkgDir) + " (and not imported in sources)")
	}
	return pkgImport + "/config"
}

// inferDIRuntimeImport computes the import path of the di runtime package from
// the go.mod of the module that contains this generator.
func inferDIRuntimeImport(runtimePkgRel string) string {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		die("cannot infer di runtime import: runtime.Caller failed")
	}

	modRoot, modPath, err := findModule(filepath.Dir(thisFile))
	if err != nil {
		die("cannot infer di runtime import: cannot find go.mod for generator module: " + err.Error())
	}

	if strings.TrimSpace(runtimePkgRel) == "" {
		runtimePkgRel = "di"
	}
	runtimeAbs := filepath.Join(modRoot, filepath.FromSlash(runtimePkgRel))
	if !dirExists(runtimeAbs) {
		die("cannot infer di runtime import: expected runtime package dir at " + filepath.ToSlash(runtimeAbs))
	}
	return modPath + "/" + filepath.ToSlash(runtimePkgRel)
}

// diImport returns the di import line. The alias is dropped when the path
// already ends in /di.
func diImport(path string) GoImport {
	if path == "di" || strings.HasSuffix(path, "/di") {
		return GoImport{Path: path}
	}
	return GoImport{Name: "di", Path: path}
}

// -------------------------
// go.mod helpers
// -------------------------

type cmdError struct{ msg string }

func (e *cmdError) Error() string { return e.msg }

func findModule(startDir string) (modRoot string, modPath string, err error) {
	dir := startDir
	for {
		gomod := filepath.Join(dir, "go.mod")
		if fileExists(gomod) {
			b, rerr := os.ReadFile(gomod)
			if rerr != nil {
				return "", "", rerr
			}
			for _, ln := range strings.Split(string(b), "\n") {
				ln = strings.TrimSpace(ln)
				if mod, ok := strings.CutPrefix(ln, "module "); ok {
					mod = strings.TrimSpace(mod)
					if mod == "" {
						return "", "", &cmdError{msg: "go.mod has empty module path at " + filepath.ToSlash(gomod)}
					}
					return dir, mod, nil
				}
			}
			return "", "", &cmdError{msg: "go.mod missing module directive at " + filepath.ToSlash(gomod)}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", "", &cmdError{msg: "could not find go.mod starting from " + filepath.ToSlash(startDir)}
}

func moduleImportPathForDir(modRoot, modPath, dir string) (string, error) {
	rel, err := filepath.Rel(modRoot, dir)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)

	if rel == "." {
		return modPath, nil
	}
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return "", &cmdError{msg: "directory is outside module root: dir=" + filepath.ToSlash(dir) + " modRoot=" + filepath.ToSlash(modRoot)}
	}
	return modPath + "/" + rel, nil
}

func dirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// -------------------------
// Source and output scanning
// -------------------------

// scanPackageImports reads imports from the hand-written .go files in pkgDir
// (skipping *_test.go and generated files). Aliases are kept.
func scanPackageImports(pkgDir string) []GoImport {
	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		return nil
	}

	var out []GoImport
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		if strings.Contains(name, ".gen.") || strings.HasSuffix(name, "_gen.go") {
			continue
		}
		out = append(out, parseImports(fset, filepath.Join(pkgDir, name))...)
	}
	return dedupeAndSortImports(out)
}

// readImportsFromExistingOut keeps imports added to a previous output file.
func readImportsFromExistingOut(outPath string) []GoImport {
	if strings.TrimSpace(outPath) == "" || !fileExists(outPath) {
		return nil
	}
	return parseImports(token.NewFileSet(), outPath)
}

func parseImports(fset *token.FileSet, path string) []GoImport {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	f, err := parser.ParseFile(fset, path, src, parser.ImportsOnly)
	if err != nil {
		return nil
	}
	out := make([]GoImport, 0, len(f.Imports))
	for _, imp := range f.Imports {
		gi := GoImport{Path: strings.Trim(imp.Path.Value, `"`)}
		if imp.Name != nil {
			gi.Name = imp.Name.Name
		}
		out = append(out, gi)
	}
	return out
}

// findImportByAliasOrSuffix prefers an alias match, then a path suffix match.
func findImportByAliasOrSuffix(imports []GoImport, preferAlias, preferSuffix string) (GoImport, bool) {
	if preferAlias != "" {
		for _, gi := range imports {
			if gi.Name == preferAlias {
				return gi, true
			}
		}
	}
	if preferSuffix != "" {
		for _, gi := range imports {
			if strings.HasSuffix(gi.Path, preferSuffix) {
				return gi, true
			}
		}
	}
	return GoImport{}, false
}

func dedupeAndSortImports(imps []GoImport) []GoImport {
	return mergeImports(imps)
}

// mergeImports unions import groups, dropping exact duplicates, sorted by path
// and then alias.
func mergeImports(groups ...[]GoImport) []GoImport {
	seen := map[GoImport]bool{}
	out := []GoImport{}
	for _, g := range groups {
		for _, gi := range g {
			if gi.Path == "" || seen[gi] {
				continue
			}
			seen[gi] = true
			out = append(out, gi)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Name < out[j].Name
		}
		return out[i].Path < out[j].Path
	})
	return out
}
