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
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/solder-di/solder/internal/iso8601"
)

const (
	solderImportPath    = "github.com/solder-di/solder"
	solderaotImportPath = "github.com/solder-di/solder/solderaot"

	// maxExportDepth bounds recursion so a self-referential collection
	// fails with an ExportError instead of overflowing the stack.
	maxExportDepth = 100
)

// Import is one import the generated file needs, with the identifier the
// emitted expressions refer to it by.
type Import struct {
	Path  string
	Ident string
}

// importSet assigns a stable identifier per imported path, aliasing on base
// name collisions.
type importSet struct {
	byPath map[string]string
	idents map[string]string
}

func newImportSet() *importSet {
	return &importSet{
		byPath: make(map[string]string),
		idents: make(map[string]string),
	}
}

// add returns the identifier for path, registering it on first use.
func (s *importSet) add(path string) string {
	if ident, ok := s.byPath[path]; ok {
		return ident
	}
	base := pkgBaseName(path)
	ident := base
	for n := 2; ; n++ {
		if _, taken := s.idents[ident]; !taken {
			break
		}
		ident = fmt.Sprintf("%s%d", base, n)
	}
	s.byPath[path] = ident
	s.idents[ident] = path
	return ident
}

// sorted returns the imports ordered by path.
func (s *importSet) sorted() []Import {
	out := make([]Import, 0, len(s.byPath))
	for path, ident := range s.byPath {
		out = append(out, Import{Path: path, Ident: ident})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// pkgBaseName guesses the package identifier of an import path: the last
// segment, skipping version suffixes like /v2 and .v3.
func pkgBaseName(path string) string {
	segs := strings.Split(path, "/")
	base := segs[len(segs)-1]
	if len(segs) > 1 && len(base) > 1 && base[0] == 'v' && allDigits(base[1:]) {
		base = segs[len(segs)-2]
	}
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Exporter renders runtime values as Go source expressions. The supported
// kinds are a closed allow-list, not general serialization: scalars, nested
// collections, parameter bags, named basic types (the enum rendition),
// temporal values, and URLs. Anything else fails with an ExportError.
//
// The exporter records every package its expressions refer to; Imports
// returns the set for the caller to merge into the generated file.
type Exporter struct {
	imports *importSet
}

// NewExporter returns an exporter with an empty import set.
func NewExporter() *Exporter {
	return &Exporter{imports: newImportSet()}
}

// Imports returns the packages recorded so far, ordered by path.
func (e *Exporter) Imports() []Import {
	return e.imports.sorted()
}

// Export renders v as a Go expression evaluating to an equivalent value.
// Temporal values round-trip exactly: offsets and sub-second fractions
// survive the text form.
func (e *Exporter) Export(v interface{}) (string, error) {
	if v == nil {
		return "nil", nil
	}
	return e.exportValue(reflect.ValueOf(v), 0)
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	locationType = reflect.TypeOf((*time.Location)(nil))
	urlType      = reflect.TypeOf(url.URL{})
	urlPtrType   = reflect.TypeOf((*url.URL)(nil))
	paramBagType = reflect.TypeOf((*ParamBag)(nil))
)

func (e *Exporter) exportValue(rv reflect.Value, depth int) (string, error) {
	if depth > maxExportDepth {
		return "", &ExportError{Type: TypeKey(rv.Type()), Reason: "value nests too deeply"}
	}

	switch rv.Type() {
	case durationType:
		ident := e.imports.add(solderaotImportPath)
		return fmt.Sprintf("%s.Duration(%q)", ident, iso8601.FormatDuration(rv.Interface().(time.Duration))), nil
	case timeType:
		ident := e.imports.add(solderaotImportPath)
		text := rv.Interface().(time.Time).Format(time.RFC3339Nano)
		return fmt.Sprintf("%s.Time(%q)", ident, text), nil
	case locationType:
		loc := rv.Interface().(*time.Location)
		if loc == nil {
			return "nil", nil
		}
		name := loc.String()
		if name == "Local" {
			return "", &ExportError{Type: "*time.Location", Reason: "the Local zone is host-dependent"}
		}
		ident := e.imports.add(solderaotImportPath)
		return fmt.Sprintf("%s.TZ(%q)", ident, name), nil
	case urlPtrType:
		u := rv.Interface().(*url.URL)
		if u == nil {
			return "nil", nil
		}
		ident := e.imports.add(solderaotImportPath)
		return fmt.Sprintf("%s.URI(%q)", ident, u.String()), nil
	case urlType:
		u := rv.Interface().(url.URL)
		ident := e.imports.add(solderaotImportPath)
		return fmt.Sprintf("*%s.URI(%q)", ident, u.String()), nil
	case paramBagType:
		return e.exportParamBag(rv.Interface().(*ParamBag), depth)
	}

	t := rv.Type()

	// Named basic types are the enum rendition: emit a conversion from
	// the underlying literal.
	if t.PkgPath() != "" && isBasicKind(t.Kind()) {
		if err := importable(t); err != nil {
			return "", err
		}
		under, err := e.basicLiteral(rv)
		if err != nil {
			return "", err
		}
		ident := e.imports.add(t.PkgPath())
		return fmt.Sprintf("%s.%s(%s)", ident, t.Name(), under), nil
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return "nil", nil
		}
		return e.exportValue(rv.Elem(), depth+1)

	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return e.basicLiteral(rv)

	case reflect.Slice:
		if rv.IsNil() {
			ts, err := e.typeSyntax(t)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s(nil)", ts), nil
		}
		return e.exportSequence(rv, depth)

	case reflect.Array:
		return e.exportSequence(rv, depth)

	case reflect.Map:
		return e.exportMap(rv, depth)

	default:
		return "", &ExportError{Type: typeDescription(t)}
	}
}

func (e *Exporter) exportSequence(rv reflect.Value, depth int) (string, error) {
	ts, err := e.typeSyntax(rv.Type())
	if err != nil {
		return "", err
	}
	elems := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		expr, err := e.exportValue(rv.Index(i), depth+1)
		if err != nil {
			return "", err
		}
		elems[i] = expr
	}
	return fmt.Sprintf("%s{%s}", ts, strings.Join(elems, ", ")), nil
}

func (e *Exporter) exportMap(rv reflect.Value, depth int) (string, error) {
	ts, err := e.typeSyntax(rv.Type())
	if err != nil {
		return "", err
	}
	if rv.IsNil() {
		return fmt.Sprintf("%s(nil)", ts), nil
	}

	type pair struct{ k, v string }
	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := e.exportValue(iter.Key(), depth+1)
		if err != nil {
			return "", err
		}
		v, err := e.exportValue(iter.Value(), depth+1)
		if err != nil {
			return "", err
		}
		pairs = append(pairs, pair{k: k, v: v})
	}
	// Map iteration order is random; the emitted literal must not be.
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })

	entries := make([]string, len(pairs))
	for i, p := range pairs {
		entries[i] = fmt.Sprintf("%s: %s", p.k, p.v)
	}
	return fmt.Sprintf("%s{%s}", ts, strings.Join(entries, ", ")), nil
}

func (e *Exporter) exportParamBag(bag *ParamBag, depth int) (string, error) {
	if bag == nil {
		return "nil", nil
	}
	ident := e.imports.add(solderImportPath)
	var b strings.Builder
	fmt.Fprintf(&b, "%s.NewParamBag()", ident)
	for _, key := range bag.Keys() {
		v, _ := bag.Get(key)
		expr := "nil"
		if v != nil {
			var err error
			expr, err = e.exportValue(reflect.ValueOf(v), depth+1)
			if err != nil {
				return "", &ExportError{
					Type:   "*solder.ParamBag",
					Reason: fmt.Sprintf("parameter %q: %v", key, err),
				}
			}
		}
		fmt.Fprintf(&b, ".Set(%q, %s)", key, expr)
	}
	return b.String(), nil
}

// basicLiteral renders a value of basic kind as an untyped-safe literal:
// kinds whose bare literal would decay to a different dynamic type inside
// interface{} are wrapped in an explicit conversion.
func (e *Exporter) basicLiteral(rv reflect.Value) (string, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.String:
		return strconv.Quote(rv.String()), nil
	case reflect.Int:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%s(%s)", rv.Type().Kind(), strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%s(%s)", rv.Type().Kind(), strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float64:
		return floatLiteral(rv.Float(), 64)
	case reflect.Float32:
		lit, err := floatLiteral(rv.Float(), 32)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("float32(%s)", lit), nil
	default:
		return "", &ExportError{Type: typeDescription(rv.Type())}
	}
}

// floatLiteral formats f so the literal stays a float in any context: a
// plain "1" would decay to int inside interface{}.
func floatLiteral(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", &ExportError{Type: "float64", Reason: fmt.Sprintf("%v has no literal form", f)}
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}

func isBasicKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// importable reports whether generated code can import the package that
// declares t. Types from package main (including go run's pseudo package)
// are unreachable from any other compilation unit.
func importable(t reflect.Type) error {
	switch t.PkgPath() {
	case "main", "command-line-arguments":
		return &ExportError{Type: typeDescription(t), Reason: "types declared in package main cannot be imported by generated code"}
	}
	return nil
}

// typeSyntax renders t as Go type syntax, recording any packages it names.
func (e *Exporter) typeSyntax(t reflect.Type) (string, error) {
	if t.PkgPath() != "" {
		if err := importable(t); err != nil {
			return "", err
		}
		ident := e.imports.add(t.PkgPath())
		return ident + "." + t.Name(), nil
	}
	if t.Name() != "" {
		return t.Name(), nil // predeclared: int, string, error, ...
	}

	switch t.Kind() {
	case reflect.Ptr:
		inner, err := e.typeSyntax(t.Elem())
		if err != nil {
			return "", err
		}
		return "*" + inner, nil
	case reflect.Slice:
		inner, err := e.typeSyntax(t.Elem())
		if err != nil {
			return "", err
		}
		return "[]" + inner, nil
	case reflect.Array:
		inner, err := e.typeSyntax(t.Elem())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[%d]%s", t.Len(), inner), nil
	case reflect.Map:
		key, err := e.typeSyntax(t.Key())
		if err != nil {
			return "", err
		}
		val, err := e.typeSyntax(t.Elem())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("map[%s]%s", key, val), nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return "interface{}", nil
		}
		return "", &ExportError{Type: typeDescription(t), Reason: "unnamed interface types have no stable syntax"}
	default:
		return "", &ExportError{Type: typeDescription(t), Reason: "no source syntax"}
	}
}

func typeDescription(t reflect.Type) string {
	return t.String()
}
