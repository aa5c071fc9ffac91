// Copyright (c) 2024 The solder Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package solder

import (
	"bytes"
	"fmt"
	"go/format"
	"reflect"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"go.uber.org/multierr"
)

// containerTemplate is the skeleton of a generated container file. Builder
// bodies are assembled separately, statement by statement; the template
// only lays out the file. The output is deterministic for identical input:
// dispatch order follows definition order and imports are sorted by path.
const containerTemplate = `// Code generated by solder. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{.Ident}} {{printf "%q" .Path}}
{{- end}}
)

// {{.TypeName}} is a compiled service container: it answers Has and Get
// for every service known at compile time, without reflection.
//
// {{.TypeName}} is not safe for concurrent use. Singleton memoization is a
// plain map write, sized for request-scoped containers.
type {{.TypeName}} struct {
	resolved map[string]interface{}
}

// New{{.TypeName}} returns a container with an empty singleton store.
func New{{.TypeName}}() *{{.TypeName}} {
	return &{{.TypeName}}{resolved: make(map[string]interface{}, {{.StoreSize}})}
}

// Has reports whether id names a service or alias known to this container.
func (c *{{.TypeName}}) Has(id string) bool {
	switch id {
{{- if .KnownIDs}}
	case {{range $i, $id := .KnownIDs}}{{if $i}}, {{end}}{{printf "%q" $id}}{{end}}:
		return true
{{- end}}
	default:
		return false
	}
}

// Get returns the service registered under id, memoizing shared services
// under their original id. Aliases dispatch to their target's own path.
func (c *{{.TypeName}}) Get(id string) (interface{}, error) {
	if v, ok := c.resolved[id]; ok {
		return v, nil
	}
	switch id {
{{- range .Dispatch}}
	case {{printf "%q" .ID}}:
{{- if .Target}}
		return c.Get({{printf "%q" .Target}})
{{- else if .Shared}}
		return c.memoize({{printf "%q" .ID}}, c.{{.Builder}})
{{- else}}
		return c.{{.Builder}}()
{{- end}}
{{- end}}
	default:
		return nil, &{{.SolderIdent}}.NotFoundError{ID: id}
	}
}

// memoize stores a builder's result in the singleton store.
func (c *{{.TypeName}}) memoize(id string, build func() (interface{}, error)) (interface{}, error) {
	v, err := build()
	if err != nil {
		return nil, err
	}
	c.resolved[id] = v
	return v, nil
}
{{range .Builders}}
// {{.Name}} builds service {{printf "%q" .ID}}.
func (c *{{$.TypeName}}) {{.Name}}() (interface{}, error) {
{{.Body}}
}
{{end}}`

type genFile struct {
	Package     string
	TypeName    string
	SolderIdent string
	Imports     []Import
	KnownIDs    []string
	Dispatch    []genDispatch
	Builders    []genBuilder
	StoreSize   int
}

type genDispatch struct {
	ID      string
	Shared  bool
	Builder string
	Target  string
}

type genBuilder struct {
	ID   string
	Name string
	Body string
}

// generator turns a definition map into generated container source. It owns
// one Exporter whose import set becomes the file's import block.
type generator struct {
	cfg         *config
	exp         *Exporter
	solderIdent string
	usedNames   map[string]bool
}

func newGenerator(cfg *config) *generator {
	exp := NewExporter()
	return &generator{
		cfg:         cfg,
		exp:         exp,
		solderIdent: exp.imports.add(solderImportPath),
		usedNames:   map[string]bool{"memoize": true},
	}
}

// generate renders the whole container file for defs. Per-definition
// failures (unsupported exports, autowire analysis errors) are aggregated
// so one compile pass reports every offending id. Factory definitions are
// skipped here; the caller has already rejected them.
func (g *generator) generate(defs *Definitions) ([]byte, error) {
	file := genFile{
		Package:     g.cfg.pkgName,
		TypeName:    g.cfg.typeName,
		SolderIdent: g.solderIdent,
		KnownIDs:    defs.IDs(),
	}

	var errs error
	defs.All(func(d Definition) bool {
		switch d.(type) {
		case *AliasDefinition:
			file.Dispatch = append(file.Dispatch, genDispatch{
				ID:     d.ID(),
				Target: d.(*AliasDefinition).Target(),
			})
			return true
		case *FactoryDefinition:
			return true
		}

		body, err := g.builderBody(defs, d)
		if err != nil {
			errs = multierr.Append(errs, err)
			return true
		}
		name := g.builderName(d.ID())
		file.Dispatch = append(file.Dispatch, genDispatch{
			ID:      d.ID(),
			Shared:  d.Shared(),
			Builder: name,
		})
		file.Builders = append(file.Builders, genBuilder{
			ID:   d.ID(),
			Name: name,
			Body: body,
		})
		file.StoreSize++
		return true
	})
	if errs != nil {
		return nil, errs
	}

	file.Imports = g.exp.Imports()

	var buf bytes.Buffer
	tmpl := template.Must(template.New("container").Parse(containerTemplate))
	if err := tmpl.Execute(&buf, file); err != nil {
		return nil, fmt.Errorf("solder: cannot render container template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("solder: generated source does not format: %w", err)
	}
	return src, nil
}

func (g *generator) builderBody(defs *Definitions, d Definition) (string, error) {
	switch d := d.(type) {
	case *ValueDefinition:
		expr, err := g.exp.Export(d.Value())
		if err != nil {
			return "", fmt.Errorf("service %q: %w", d.ID(), err)
		}
		return fmt.Sprintf("\treturn %s, nil", expr), nil

	case *TaggedIteratorDefinition:
		return g.iteratorBody(d), nil

	case *AutowireDefinition:
		return g.autowireBody(defs, d)

	default:
		return "", fmt.Errorf("service %q: %s definitions have no generated form", d.ID(), d.Kind())
	}
}

func (g *generator) iteratorBody(d *TaggedIteratorDefinition) string {
	ordered := sortTaggedEntries(d.Entries())
	if len(ordered) == 0 {
		return "\treturn []interface{}{}, nil"
	}

	ids := make([]string, len(ordered))
	for i, e := range ordered {
		ids[i] = strconv.Quote(e.Service)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\titems := make([]interface{}, 0, %d)\n", len(ordered))
	fmt.Fprintf(&b, "\tfor _, id := range []string{%s} {\n", strings.Join(ids, ", "))
	b.WriteString("\t\tv, err := c.Get(id)\n")
	b.WriteString("\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n")
	b.WriteString("\t\titems = append(items, v)\n")
	b.WriteString("\t}\n")
	b.WriteString("\treturn items, nil")
	return b.String()
}

func (g *generator) autowireBody(defs *Definitions, d *AutowireDefinition) (string, error) {
	plan, err := g.cfg.resolver.Plan(d.Type(), defs.Has)
	if err != nil {
		return "", &ResolutionError{ID: d.ID(), Type: TypeKey(d.Type()), Reason: err.Error()}
	}
	ts, err := g.exp.typeSyntax(plan.typ)
	if err != nil {
		return "", fmt.Errorf("service %q: %w", d.ID(), err)
	}

	var stanzas strings.Builder
	usesV := false
	failed := false
	for n, fp := range plan.fields {
		switch fp.strat {
		case strategyService, strategyParam, strategyDefault:
			usesV = true
		}
		done, err := g.fieldStanza(&stanzas, n, d.ID(), plan.key, fp)
		if err != nil {
			return "", fmt.Errorf("service %q: %w", d.ID(), err)
		}
		if done {
			// The builder always fails here; later fields are
			// unreachable, exactly as on the runtime path.
			failed = true
			break
		}
	}

	var b strings.Builder
	// The construction is omitted when nothing reaches v, so a builder
	// failing on its first field stays compilable.
	if usesV || !failed {
		fmt.Fprintf(&b, "\tv := &%s{}\n", ts)
	}
	b.WriteString(stanzas.String())
	if failed {
		return strings.TrimRight(b.String(), "\n"), nil
	}
	b.WriteString("\treturn v, nil")
	return b.String(), nil
}

// fieldStanza emits the statements resolving one field. It reports done
// when the stanza ends the builder unconditionally.
func (g *generator) fieldStanza(b *strings.Builder, n int, id, typeKey string, fp fieldPlan) (done bool, err error) {
	switch fp.strat {
	case strategyService:
		dep := fmt.Sprintf("dep%d", n)
		fmt.Fprintf(b, "\t%s, err := c.Get(%q)\n", dep, fp.serviceID)
		b.WriteString("\tif err != nil {\n\t\treturn nil, err\n\t}\n")
		return false, g.assignStanza(b, n, id, typeKey, fp, dep,
			fmt.Sprintf("service %q", fp.serviceID))

	case strategyParam:
		bag := fmt.Sprintf("bag%d", n)
		pb := fmt.Sprintf("pb%d", n)
		p := fmt.Sprintf("p%d", n)
		fmt.Fprintf(b, "\t%s, err := c.Get(%q)\n", bag, ParamsID)
		b.WriteString("\tif err != nil {\n\t\treturn nil, err\n\t}\n")
		fmt.Fprintf(b, "\t%s, ok := %s.(*%s.ParamBag)\n", pb, bag, g.solderIdent)
		fmt.Fprintf(b, "\tif !ok {\n\t\treturn nil, %s\n\t}\n",
			g.resolutionErr(id, typeKey, fp.name,
				fmt.Sprintf("service %q is not a *solder.ParamBag", ParamsID)))
		fmt.Fprintf(b, "\t%s, ok := %s.Get(%q)\n", p, pb, fp.paramKey)
		fmt.Fprintf(b, "\tif !ok {\n\t\treturn nil, %s\n\t}\n",
			g.resolutionErr(id, typeKey, fp.name,
				fmt.Sprintf("parameter %q is not defined", fp.paramKey)))
		return false, g.assignStanza(b, n, id, typeKey, fp, p,
			fmt.Sprintf("parameter %q", fp.paramKey))

	case strategyDefault:
		expr, err := g.exp.Export(fp.literal)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(b, "\tv.%s = %s\n", fp.name, expr)
		return false, nil

	case strategyZero:
		return false, nil

	case strategyFail:
		fmt.Fprintf(b, "\treturn nil, %s\n", g.resolutionErr(id, typeKey, fp.name, fp.reason))
		return true, nil

	default:
		return false, fmt.Errorf("field %s: unknown strategy", fp.name)
	}
}

// assignStanza emits the assignment of src (an interface{} variable) to the
// field, mirroring the runtime assignment rules: direct assertion for
// pointer and interface fields, an extra pointer-dereference case for value
// fields, and nil tolerance for nilable fields.
func (g *generator) assignStanza(b *strings.Builder, n int, id, typeKey string, fp fieldPlan, src, what string) error {
	ts, err := g.exp.typeSyntax(fp.typ)
	if err != nil {
		return err
	}
	mismatch := g.resolutionErr(id, typeKey, fp.name,
		fmt.Sprintf("%s is not assignable to %s", what, ts))

	switch fp.typ.Kind() {
	case reflect.Interface, reflect.Ptr:
		f := fmt.Sprintf("f%d", n)
		fmt.Fprintf(b, "\t%s, ok := %s.(%s)\n", f, src, ts)
		fmt.Fprintf(b, "\tif !ok && %s != nil {\n\t\treturn nil, %s\n\t}\n", src, mismatch)
		fmt.Fprintf(b, "\tv.%s = %s\n", fp.name, f)
		return nil

	default:
		x := fmt.Sprintf("x%d", n)
		fmt.Fprintf(b, "\tswitch %s := %s.(type) {\n", x, src)
		if isNilable(fp.typ) {
			b.WriteString("\tcase nil:\n")
		}
		fmt.Fprintf(b, "\tcase %s:\n\t\tv.%s = %s\n", ts, fp.name, x)
		fmt.Fprintf(b, "\tcase *%s:\n\t\tif %s == nil {\n\t\t\treturn nil, %s\n\t\t}\n\t\tv.%s = *%s\n",
			ts, x, mismatch, fp.name, x)
		fmt.Fprintf(b, "\tdefault:\n\t\treturn nil, %s\n", mismatch)
		b.WriteString("\t}\n")
		return nil
	}
}

func (g *generator) resolutionErr(id, typeKey, field, reason string) string {
	return fmt.Sprintf("&%s.ResolutionError{ID: %q, Type: %q, Field: %q, Reason: %q}",
		g.solderIdent, id, typeKey, field, reason)
}

// builderName derives a method name from a service id, deduplicating ids
// that sanitize to the same identifier.
func (g *generator) builderName(id string) string {
	var b strings.Builder
	b.WriteString("build")
	upper := true
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "build" {
		name = "buildService"
	}
	base := name
	for n := 2; g.usedNames[name]; n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	g.usedNames[name] = true
	return name
}
