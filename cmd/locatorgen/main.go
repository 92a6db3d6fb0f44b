package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"go/format"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var specPath, graphPath, outPath string
	cmd := &cobra.Command{
		Use:           "locatorgen",
		Short:         "Generate typed keys and registry wiring",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return generate(specPath, graphPath, outPath)
		},
	}
	cmd.Flags().StringVar(&specPath, "spec", "", "path to *.inject.json")
	cmd.Flags().StringVar(&graphPath, "graph", "", "path to graph.json")
	cmd.Flags().StringVar(&outPath, "out", "", "output .gen.go file path")
	return cmd
}

func run(args []string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "locatorgen:", err)
		os.Exit(1)
	}
}

// generate routes to the inject or graph generator. Generation failures are
// raised as panics internally and returned here as errors.
func generate(specPath, graphPath, outPath string) (err error) {
	if strings.TrimSpace(outPath) == "" {
		return errors.New("missing --out")
	}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()

	switch {
	case specPath != "" && graphPath != "":
		return errors.New("use only one of --spec or --graph")
	case specPath != "":
		genInject(specPath, outPath)
		return nil
	case graphPath != "":
		genGraph(graphPath, outPath)
		return nil
	default:
		return errors.New("missing --spec or --graph")
	}
}

func genInject(specPath, outPath string) {
	raw := mustRead(specPath)

	var spec InjectSpec
	must(json.Unmarshal(raw, &spec))

	applyConfigDefaults(&spec.Config)
	validateInjectSpec(&spec)

	if spec.WireFunc == "" {
		spec.WireFunc = "Wire"
	}

	inferImports(&spec.Imports, &spec.Config, outPath, "inject")

	sort.Slice(spec.Capabilities, func(i, j int) bool { return spec.Capabilities[i].Name < spec.Capabilities[j].Name })
	resolveCapabilities(&spec)

	required := []GoImport{diImport(spec.Imports.DI)}
	if spec.Config.Enabled {
		required = append(required, GoImport{Name: "config", Path: spec.Imports.Config})
	}
	required = append(required, spec.Imports.Extra...)
	for _, std := range []string{"context", "time"} {
		if typesUsePkgQualifier(spec.Capabilities, std) {
			required = append(required, GoImport{Path: std})
		}
	}

	data := map[string]any{
		"Spec":     spec,
		"SpecName": filepath.Base(specPath),
		"SpecHash": sha256Hex(raw),
		"Imports":  mergeImports(required, readImportsFromExistingOut(outPath)),
	}
	writeFormatted(outPath, mustExecTemplate(injectTpl, data))
}

func genGraph(graphPath, outPath string) {
	raw := mustRead(graphPath)

	var g GraphSpec
	must(json.Unmarshal(raw, &g))

	applyConfigDefaults(&g.Config)
	validateGraphSpec(&g)

	inferImports(&g.Imports, &g.Config, outPath, "graph")

	// Wire steps keep their order: later registrations replace earlier ones.
	sort.Slice(g.Roots, func(i, j int) bool { return g.Roots[i].Name < g.Roots[j].Name })

	required := []GoImport{diImport(g.Imports.DI)}
	if g.Config.Enabled {
		required = append(required, GoImport{Name: "config", Path: g.Imports.Config})
	}
	for _, r := range g.Roots {
		if r.Warm {
			required = append(required, GoImport{Path: "fmt"})
			break
		}
	}
	required = append(required, g.Imports.Extra...)

	data := map[string]any{
		"G":         g,
		"GraphName": filepath.Base(graphPath),
		"GraphHash": sha256Hex(raw),
		"Imports":   mergeImports(required, readImportsFromExistingOut(outPath)),
	}
	writeFormatted(outPath, mustExecTemplate(graphTpl, data))
}

// -------------------------
// Misc helpers
// -------------------------

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func mustRead(path string) []byte {
	b, err := os.ReadFile(path)
	must(err)
	return b
}

func mustExecTemplate(tpl *template.Template, data any) []byte {
	var sb strings.Builder
	must(tpl.Execute(&sb, data))
	return []byte(sb.String())
}

// writeFormatted writes gofmt'd source. Unformattable source is still written
// so the failure can be inspected.
func writeFormatted(out string, src []byte) {
	fmtSrc, err := format.Source(src)
	if err != nil {
		_ = os.WriteFile(out, src, 0o644)
		die("gofmt/format failed: " + err.Error())
	}
	must(os.WriteFile(out, fmtSrc, 0o644))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func die(msg string) {
	panic(msg)
}

func quote(s string) string { return strconv.Quote(s) }
