// Package template renders CLC-CLI command arguments: the node name,
// instantiation level, proxy name and other per-invocation values a
// Component's Instantiate/Terminate/Cleanup/AmStart/AmStop/Healthcheck
// command strings reference (spec §3 "arguments may contain template
// placeholders resolved ... at execution time").
//
// Grounded on the teacher's internal/template/engine.go: the same
// `text/template` + sprig.TxtFuncMap() combination, generalized from
// arbitrary JSON-ish values to the flat string→string context a CLC-CLI
// argument vector needs.
package template

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Context is the flat set of values a CLC-CLI invocation may reference.
// Kept as a plain map (not model.AttrSet) because command templates only
// ever need display strings, never typed attribute values.
type Context map[string]string

// RenderArgs renders every argument string in args against ctx, failing the
// whole command if any argument references an undefined variable — a CLC-CLI
// command with a dangling placeholder must never be exec'd with the literal
// placeholder text as an argument.
func RenderArgs(args []string, ctx Context) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		rendered, err := Render(a, ctx)
		if err != nil {
			return nil, fmt.Errorf("template: arg %d: %w", i, err)
		}
		out[i] = rendered
	}
	return out, nil
}

// Render renders a single template string against ctx using text/template
// with the sprig function set, matching the teacher's RenderGoTemplate.
// "missingkey=error" makes an unresolved placeholder a hard failure rather
// than a silently empty argument, since a CLC-CLI command fed a blank node
// name would still exec "successfully" against the wrong target.
func Render(tmplStr string, ctx Context) (string, error) {
	tmpl, err := template.New("clc").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("template: invalid: %w", err)
	}
	data := make(map[string]string, len(ctx))
	for k, v := range ctx {
		data[k] = v
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template: execution failed: %w", err)
	}
	return buf.String(), nil
}
