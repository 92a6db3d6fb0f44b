package main

import (
	"strings"
	"text/template"
)

var tplFuncs = template.FuncMap{
	"join":  strings.Join,
	"apply": applyOptional,
}

// applyOptional renders the statement that hands an optional dependency to svc.
func applyOptional(o OptionalDep, expr string) string {
	if o.Apply.Kind == "setter" {
		return "svc." + o.Apply.Name + "(" + expr + ")"
	}
	return "svc." + o.Apply.Name + " = " + expr
}

var injectTpl = template.Must(template.New("inject").Funcs(tplFuncs).Parse(`// Code generated by locatorgen; DO NOT EDIT.
// Spec: {{ .SpecName }}
// Spec-SHA256: {{ .SpecHash }}

package {{ .Spec.Package }}

import (
{{- range .Imports }}
	{{ if .Name }}{{ .Name }} {{ end }}{{ printf "%q" .Path }}
{{- end }}
)

var (
{{- range .Spec.Capabilities }}
	{{ .KeyVar }} = di.NewKey[{{ .Type }}]({{ printf "%q" .Key }})
{{- end }}
)

// {{ .Spec.WireFunc }} registers the capabilities declared in {{ .SpecName }} into r.
{{- if .Spec.Config.Enabled }}
func {{ .Spec.WireFunc }}(r *di.Registry, {{ .Spec.Config.ParamName }} {{ .Spec.Config.Type }}) {
{{- else }}
func {{ .Spec.WireFunc }}(r *di.Registry) {
{{- end }}
{{- range .Spec.Capabilities }}
	di.Register(r, {{ .KeyVar }}, {{ .LifecycleConst }}, func() {{ .Type }} {
{{- if .Optional }}
		svc := {{ .Constructor }}({{ join .Args ", " }})
{{- range .Optional }}
		if di.Has(r, {{ .KeyExpr }}) {
			{{ apply . (printf "di.MustResolve(r, %s)" .KeyExpr) }}
{{- if .DefaultExpr }}
		} else {
			{{ apply . .DefaultExpr }}
{{- end }}
		}
{{- end }}
		return svc
{{- else }}
		return {{ .Constructor }}({{ join .Args ", " }})
{{- end }}
	})
{{- end }}
}
`))

var graphTpl = template.Must(template.New("graph").Funcs(tplFuncs).Parse(`// Code generated by locatorgen; DO NOT EDIT.
// Graph: {{ .GraphName }}
// Graph-SHA256: {{ .GraphHash }}

package {{ .G.Package }}

import (
{{- range .Imports }}
	{{ if .Name }}{{ .Name }} {{ end }}{{ printf "%q" .Path }}
{{- end }}
)
{{ range .G.Roots }}
// {{ .Name }} returns a new registry wired by {{ range $i, $w := .Wire }}{{ if $i }}, {{ end }}{{ $w.Call }}{{ else }}nothing{{ end }}.
{{- if $.G.Config.Enabled }}
func {{ .Name }}({{ $.G.Config.ParamName }} {{ $.G.Config.Type }}, opts ...di.Option) (*di.Registry, error) {
{{- else }}
func {{ .Name }}(opts ...di.Option) (*di.Registry, error) {
{{- end }}
	r := di.NewRegistry(opts...)
{{- range .Wire }}
	{{ .Call }}(r{{ if .WithConfig }}, {{ $.G.Config.ParamName }}{{ end }})
{{- end }}
{{- if .Warm }}
	if err := r.Warm(); err != nil {
		return nil, fmt.Errorf("{{ .Name }}: warm: %w", err)
	}
{{- end }}
	return r, nil
}
{{ end -}}
`))
