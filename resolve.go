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
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/solder-di/solder/internal/iso8601"
)

// Resolver inspects struct types and decides, once per exported field, how
// the field's value is obtained. The same bound decision drives both the
// runtime path (Build constructs an instance against a live container) and
// the compile path (the generated builder carries one stanza per field).
//
// Each field resolves by the first applicable rule:
//
//  1. Tag `inject:"service:<id>"` (or the bare form `inject:"<id>"`)
//     resolves that id. A missing id is an error, never a fallthrough.
//  2. Tag `inject:"param:<key>"` resolves key through the *ParamBag
//     registered under ParamsID.
//  3. The field's type is named and non-builtin, and a service whose id
//     equals the type's key (see TypeKey) is registered.
//  4. Tag `default:"<literal>"` supplies a parsed literal. Duration fields
//     accept Go syntax ("90s") and ISO-8601 ("PT1M30S").
//  5. The field's zero value is nil.
//  6. Otherwise the field is unresolvable: the runtime path fails with a
//     ResolutionError, the compile path defers the same error to the first
//     lookup of the service.
//
// Struct inspection is memoized per type. The cache is append-only and
// idempotent: concurrent first-touch of one type may inspect it twice and
// store identical shapes, which is harmless. Everything else about a
// Resolver is immutable, so a single Resolver may be shared across
// containers and compilations.
type Resolver struct {
	types  *TypeRegistry
	shapes sync.Map // reflect.Type -> shapeResult
}

// NewResolver returns a resolver backed by the given type registry. A nil
// registry is allowed; rule 3 then only matches ids registered directly in
// the definitions map, and textual specs cannot name classes.
func NewResolver(types *TypeRegistry) *Resolver {
	return &Resolver{types: types}
}

// Types returns the registry the resolver consults for class names.
func (r *Resolver) Types() *TypeRegistry { return r.types }

type strategy int

const (
	strategyService strategy = iota + 1
	strategyParam
	strategyDefault
	strategyZero
	strategyFail
)

// fieldShape is the container-independent inspection result for one field:
// its tags parsed and its default literal validated. Which strategy the
// field ends up with also depends on the set of known service ids, so that
// decision is taken later, in bind.
type fieldShape struct {
	index      int
	name       string
	typ        reflect.Type
	serviceTag string
	paramTag   string
	hasDefault bool
	defValue   interface{}
	typeKey    string
	nilable    bool
}

type typeShape struct {
	typ    reflect.Type
	key    string
	fields []fieldShape
}

type shapeResult struct {
	shape *typeShape
	err   error
}

// fieldPlan is one field's bound strategy.
type fieldPlan struct {
	index     int
	name      string
	typ       reflect.Type
	strat     strategy
	serviceID string
	paramKey  string
	literal   interface{}
	reason    string
}

// A Plan is the bound resolution strategy for a struct type: one step per
// exported field, decided against a fixed set of known service ids. Plans
// are immutable; Resolver.Build executes one.
type Plan struct {
	typ    reflect.Type
	key    string
	fields []fieldPlan
}

// Type returns the struct type the plan constructs.
func (p *Plan) Type() reflect.Type { return p.typ }

// Plan inspects t and binds every exported field to a strategy. The known
// func reports whether a service id is registered, aliases included; it is
// consulted once per field for rule 3 and never retained.
//
// Plan fails if t is not a struct, if an inject tag is malformed, or if a
// default tag's literal does not parse as the field's type. All field
// errors are reported together.
func (r *Resolver) Plan(t reflect.Type, known func(id string) bool) (*Plan, error) {
	shape, err := r.shape(t)
	if err != nil {
		return nil, err
	}

	plan := &Plan{typ: shape.typ, key: shape.key}
	plan.fields = make([]fieldPlan, 0, len(shape.fields))
	for _, f := range shape.fields {
		fp := fieldPlan{index: f.index, name: f.name, typ: f.typ}
		switch {
		case f.serviceTag != "":
			fp.strat = strategyService
			fp.serviceID = f.serviceTag
		case f.paramTag != "":
			fp.strat = strategyParam
			fp.paramKey = f.paramTag
		case f.typeKey != "" && known != nil && known(f.typeKey):
			fp.strat = strategyService
			fp.serviceID = f.typeKey
		case f.hasDefault:
			fp.strat = strategyDefault
			fp.literal = f.defValue
		case f.nilable:
			fp.strat = strategyZero
		default:
			fp.strat = strategyFail
			fp.reason = fmt.Sprintf(
				"no service of type %s is registered, the field has no default, and %s is not nilable",
				f.typeKey, f.typ)
			if f.typeKey == "" {
				fp.reason = fmt.Sprintf(
					"type %s is not a registered service type, the field has no default, and it is not nilable",
					f.typ)
			}
		}
		plan.fields = append(plan.fields, fp)
	}
	return plan, nil
}

// Build constructs a new instance of the plan's type against lk, resolving
// each field per its bound strategy. The returned value is a pointer to the
// struct. id names the service being constructed and only feeds error
// reporting.
func (r *Resolver) Build(id string, p *Plan, lk Lookup) (interface{}, error) {
	v := reflect.New(p.typ)
	elem := v.Elem()

	for _, fp := range p.fields {
		switch fp.strat {
		case strategyService:
			dep, err := lk.Get(fp.serviceID)
			if err != nil {
				return nil, &ResolutionError{
					ID: id, Type: p.key, Field: fp.name,
					Reason: fmt.Sprintf("service %q: %v", fp.serviceID, err),
				}
			}
			if err := setField(elem.Field(fp.index), dep); err != nil {
				return nil, &ResolutionError{
					ID: id, Type: p.key, Field: fp.name,
					Reason: fmt.Sprintf("service %q %v", fp.serviceID, err),
				}
			}

		case strategyParam:
			bag, err := paramBagFrom(lk)
			if err != nil {
				return nil, &ResolutionError{
					ID: id, Type: p.key, Field: fp.name, Reason: err.Error(),
				}
			}
			val, ok := bag.Get(fp.paramKey)
			if !ok {
				return nil, &ResolutionError{
					ID: id, Type: p.key, Field: fp.name,
					Reason: fmt.Sprintf("parameter %q is not defined", fp.paramKey),
				}
			}
			if err := setField(elem.Field(fp.index), val); err != nil {
				return nil, &ResolutionError{
					ID: id, Type: p.key, Field: fp.name,
					Reason: fmt.Sprintf("parameter %q %v", fp.paramKey, err),
				}
			}

		case strategyDefault:
			elem.Field(fp.index).Set(reflect.ValueOf(fp.literal))

		case strategyZero:
			// The zero value is the resolution.

		case strategyFail:
			return nil, &ResolutionError{
				ID: id, Type: p.key, Field: fp.name, Reason: fp.reason,
			}
		}
	}
	return v.Interface(), nil
}

// Construct is the one-shot runtime path: Plan bound against lk.Has, then
// Build. Containers that construct a type repeatedly should hold the Plan
// instead.
func (r *Resolver) Construct(id string, t reflect.Type, lk Lookup) (interface{}, error) {
	p, err := r.Plan(t, lk.Has)
	if err != nil {
		return nil, &ResolutionError{ID: id, Type: TypeKey(t), Reason: err.Error()}
	}
	return r.Build(id, p, lk)
}

func (r *Resolver) shape(t reflect.Type) (*typeShape, error) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return nil, fmt.Errorf("autowiring requires a struct type, got nil")
	}
	if cached, ok := r.shapes.Load(t); ok {
		res := cached.(shapeResult)
		return res.shape, res.err
	}

	res := shapeResult{}
	res.shape, res.err = inspectStruct(t)
	stored, _ := r.shapes.LoadOrStore(t, res)
	res = stored.(shapeResult)
	return res.shape, res.err
}

func inspectStruct(t reflect.Type) (*typeShape, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("autowiring requires a struct type, got %s", t.Kind())
	}

	shape := &typeShape{typ: t, key: TypeKey(t)}
	var errs error
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}

		fs := fieldShape{
			index:   i,
			name:    f.Name,
			typ:     f.Type,
			nilable: isNilable(f.Type),
		}
		if isNamedType(f.Type) {
			fs.typeKey = TypeKey(f.Type)
		}

		if tag, ok := f.Tag.Lookup("inject"); ok {
			marker, arg, err := parseInjectTag(tag)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("field %s: %v", f.Name, err))
				continue
			}
			switch marker {
			case "service":
				fs.serviceTag = arg
			case "param":
				fs.paramTag = arg
			}
		}

		if text, ok := f.Tag.Lookup("default"); ok {
			val, err := parseDefaultLiteral(text, f.Type)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("field %s: %v", f.Name, err))
				continue
			}
			fs.hasDefault = true
			fs.defValue = val
		}

		shape.fields = append(shape.fields, fs)
	}
	if errs != nil {
		return nil, fmt.Errorf("cannot autowire %s: %w", shape.key, errs)
	}
	return shape, nil
}

// parseInjectTag splits an inject tag into its marker and argument. The
// bare form `inject:"logger"` is shorthand for `inject:"service:logger"`;
// ids containing a colon must use the explicit service form.
func parseInjectTag(tag string) (marker, arg string, err error) {
	if tag == "" {
		return "", "", fmt.Errorf("inject tag is empty")
	}
	head, rest, found := strings.Cut(tag, ":")
	if !found {
		return "service", tag, nil
	}
	switch head {
	case "service", "param":
		if rest == "" {
			return "", "", fmt.Errorf("inject tag %q names no %s", tag, head)
		}
		return head, rest, nil
	default:
		return "", "", fmt.Errorf("unknown inject marker %q", head)
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

// parseDefaultLiteral parses a default tag's text as the field's type. The
// returned value carries the field type exactly, so assignment never needs
// a conversion.
func parseDefaultLiteral(text string, t reflect.Type) (interface{}, error) {
	if t == durationType {
		d, err := parseAnyDuration(text)
		if err != nil {
			return nil, fmt.Errorf("default %q is not a duration: %v", text, err)
		}
		return d, nil
	}

	rv := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		rv.SetString(text)
	case reflect.Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("default %q is not a bool", text)
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("default %q is not a %s", text, t.Kind())
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("default %q is not a %s", text, t.Kind())
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(text, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("default %q is not a %s", text, t.Kind())
		}
		rv.SetFloat(f)
	default:
		return nil, fmt.Errorf("default tags are not supported for %s fields", t)
	}
	return rv.Interface(), nil
}

// parseAnyDuration accepts Go duration syntax and falls back to ISO-8601.
func parseAnyDuration(text string) (time.Duration, error) {
	d, err := time.ParseDuration(text)
	if err == nil {
		return d, nil
	}
	if iso, isoErr := iso8601.ParseDuration(text); isoErr == nil {
		return iso, nil
	}
	return 0, err
}

// setField assigns dep to the field, dereferencing a pointer service into a
// value field when that is the only way the types line up.
func setField(fv reflect.Value, dep interface{}) error {
	if dep == nil {
		if !isNilable(fv.Type()) {
			return fmt.Errorf("is nil, but the field cannot hold nil")
		}
		return nil
	}
	rv := reflect.ValueOf(dep)
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}
	if rv.Kind() == reflect.Ptr && !rv.IsNil() && rv.Elem().Type().AssignableTo(fv.Type()) {
		fv.Set(rv.Elem())
		return nil
	}
	return fmt.Errorf("has type %s, which is not assignable to %s", rv.Type(), fv.Type())
}

func paramBagFrom(lk Lookup) (*ParamBag, error) {
	v, err := lk.Get(ParamsID)
	if err != nil {
		return nil, fmt.Errorf("parameter bag service %q is not registered", ParamsID)
	}
	bag, ok := v.(*ParamBag)
	if !ok {
		return nil, fmt.Errorf("service %q is %T, not a *solder.ParamBag", ParamsID, v)
	}
	return bag, nil
}
