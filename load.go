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
	"strings"

	"go.uber.org/multierr"

	"github.com/solder-di/solder/solderevent"
)

// Load translates an ordered spec map into typed definitions. Every entry
// is validated eagerly; when any entry is malformed, Load fails with all
// spec errors combined, so one pass reports every offending id.
//
// Useful options: WithTypes (required for specs that name classes),
// WithProvider for error and index attribution, Strict to reject constructs
// that cannot survive compilation, WithLogger for load events.
func Load(specs *SpecMap, opts ...Option) (*Definitions, error) {
	cfg := newConfig(opts)
	defs := NewDefinitions()
	if specs == nil {
		return defs, nil
	}

	for _, id := range specs.Duplicates() {
		cfg.logger.LogEvent(&solderevent.DuplicateID{
			Provider: cfg.providerFor(id),
			ID:       id,
		})
	}

	var errs error
	for _, id := range specs.IDs() {
		raw, _ := specs.Get(id)
		loaded, err := loadEntry(id, raw, cfg)
		if err != nil {
			errs = multierr.Append(errs, err)
			cfg.logger.LogEvent(&solderevent.LoadFailed{
				Provider: cfg.providerFor(id),
				ID:       id,
				Err:      err,
			})
			continue
		}
		for _, d := range loaded {
			if defs.Set(d) {
				cfg.logger.LogEvent(&solderevent.DuplicateID{
					Provider: cfg.providerFor(d.ID()),
					ID:       d.ID(),
				})
			}
			cfg.logger.LogEvent(&solderevent.DefinitionLoaded{
				Provider: cfg.providerFor(d.ID()),
				ID:       d.ID(),
				Kind:     d.Kind().String(),
				Shared:   d.Shared(),
			})
		}
	}
	if errs != nil {
		return nil, errs
	}
	return defs, nil
}

// loadEntry applies the per-entry rules to one spec and returns the primary
// definition followed by its alias definitions.
func loadEntry(id string, raw RawSpec, cfg *config) ([]Definition, error) {
	shared := raw.sharedFlag()

	aliases, err := raw.aliasList()
	if err != nil {
		return nil, specErr(cfg, id, "%v", err)
	}

	// A spec that names no class may still denote one: an id registered
	// as a type name is its own class.
	class := raw.Class
	if class == "" {
		if _, ok := cfg.types.Lookup(id); ok {
			class = id
		}
	}

	var primary Definition
	switch {
	case raw.Factory != nil:
		if raw.Autowire {
			return nil, specErr(cfg, id, "autowire and factory are mutually exclusive")
		}
		if len(raw.Arguments) > 0 {
			return nil, specErr(cfg, id, "factory services take no positional arguments")
		}
		fn, err := normalizeFactory(id, raw.Factory, cfg)
		if err != nil {
			return nil, err
		}
		primary = Factory(id, fn, sharedOpts(shared)...)

	case raw.Autowire:
		if len(raw.Arguments) > 0 {
			return nil, specErr(cfg, id, "autowire and arguments are mutually exclusive")
		}
		t, err := requireClass(id, class, cfg)
		if err != nil {
			return nil, err
		}
		primary = AutowireType(id, t, sharedOpts(shared)...)

	default:
		t, err := requireClass(id, class, cfg)
		if err != nil {
			return nil, err
		}
		fn, err := argumentsFactory(id, t, raw.Arguments, cfg)
		if err != nil {
			return nil, err
		}
		primary = Factory(id, fn, sharedOpts(shared)...)
	}

	out := make([]Definition, 0, 1+len(aliases))
	out = append(out, primary)
	for _, name := range aliases {
		out = append(out, Alias(name, id))
	}
	return out, nil
}

func sharedOpts(shared bool) []DefinitionOption {
	if shared {
		return nil
	}
	return []DefinitionOption{NotShared()}
}

func specErr(cfg *config, id, format string, args ...interface{}) *SpecError {
	return &SpecError{
		Provider: cfg.providerFor(id),
		ID:       id,
		Reason:   fmt.Sprintf(format, args...),
	}
}

func requireClass(id, class string, cfg *config) (reflect.Type, error) {
	if class == "" {
		return nil, specErr(cfg, id, "spec names no class and the id is not a registered type")
	}
	t, ok := cfg.types.Lookup(class)
	if !ok {
		return nil, specErr(cfg, id, "class %q is not a registered type", class)
	}
	if t.Kind() != reflect.Struct {
		return nil, specErr(cfg, id, "class %q is %s, not a struct", class, t.Kind())
	}
	return t, nil
}

var (
	lookupType = reflect.TypeOf((*Lookup)(nil)).Elem()
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// normalizeFactory wraps any accepted factory form into a uniform callable
// taking the runtime container first.
func normalizeFactory(id string, f interface{}, cfg *config) (FactoryFunc, error) {
	switch f := f.(type) {
	case string:
		typeName, method, found := strings.Cut(f, "::")
		if !found || typeName == "" || method == "" {
			return nil, specErr(cfg, id, `factory %q must have the form "pkg.Type::Method"`, f)
		}
		return typeMethodFactory(id, typeName, method, cfg)

	case []string:
		pair := make([]interface{}, len(f))
		for i, s := range f {
			pair[i] = s
		}
		return normalizeFactory(id, pair, cfg)

	case []interface{}:
		if len(f) != 2 {
			return nil, specErr(cfg, id, "factory pairs must be [target, method], got %d elements", len(f))
		}
		target, ok1 := f[0].(string)
		method, ok2 := f[1].(string)
		if !ok1 || !ok2 || target == "" || method == "" {
			return nil, specErr(cfg, id, "factory pairs must be two non-empty strings")
		}
		if ref, ok := strings.CutPrefix(target, "@"); ok {
			return serviceMethodFactory(id, ref, method), nil
		}
		return typeMethodFactory(id, target, method, cfg)

	case FactoryFunc:
		if cfg.strict {
			return nil, specErr(cfg, id, "closure factories have no source form and are rejected in strict mode")
		}
		return f, nil

	case func(Lookup) (interface{}, error):
		if cfg.strict {
			return nil, specErr(cfg, id, "closure factories have no source form and are rejected in strict mode")
		}
		return f, nil

	default:
		fv := reflect.ValueOf(f)
		if fv.Kind() != reflect.Func {
			return nil, specErr(cfg, id,
				`factory must be a "pkg.Type::Method" string, a [target, method] pair, or a func, got %T`, f)
		}
		if cfg.strict {
			return nil, specErr(cfg, id, "closure factories have no source form and are rejected in strict mode")
		}
		if err := checkFactorySignature(fv.Type()); err != nil {
			return nil, specErr(cfg, id, "factory func %v", err)
		}
		return func(lk Lookup) (interface{}, error) {
			return callFactory(id, fv, lk)
		}, nil
	}
}

// typeMethodFactory resolves typeName now and calls method on a fresh zero
// value of the type each time the factory runs.
func typeMethodFactory(id, typeName, method string, cfg *config) (FactoryFunc, error) {
	t, ok := cfg.types.Lookup(typeName)
	if !ok {
		return nil, specErr(cfg, id, "factory type %q is not a registered type", typeName)
	}
	probe := reflect.New(t).MethodByName(method)
	if !probe.IsValid() {
		return nil, specErr(cfg, id, "type %s has no method %s", TypeKey(t), method)
	}
	if err := checkFactorySignature(probe.Type()); err != nil {
		return nil, specErr(cfg, id, "factory method %s.%s %v", TypeKey(t), method, err)
	}
	return func(lk Lookup) (interface{}, error) {
		m := reflect.New(t).MethodByName(method)
		return callFactory(id, m, lk)
	}, nil
}

// serviceMethodFactory calls method on another service's value. The target
// service is only known at call time, so the method check is deferred.
func serviceMethodFactory(id, targetID, method string) FactoryFunc {
	return func(lk Lookup) (interface{}, error) {
		target, err := lk.Get(targetID)
		if err != nil {
			return nil, fmt.Errorf("solder: factory for %q: target %q: %w", id, targetID, err)
		}
		m := reflect.ValueOf(target).MethodByName(method)
		if !m.IsValid() {
			return nil, fmt.Errorf("solder: factory for %q: service %q (%T) has no method %s",
				id, targetID, target, method)
		}
		if err := checkFactorySignature(m.Type()); err != nil {
			return nil, fmt.Errorf("solder: factory for %q: method %s on service %q %v",
				id, method, targetID, err)
		}
		return callFactory(id, m, lk)
	}
}

// checkFactorySignature validates an unwrapped factory callable: zero
// arguments or a single Lookup in, T or (T, error) out.
func checkFactorySignature(mt reflect.Type) error {
	if mt.NumIn() > 1 || (mt.NumIn() == 1 && mt.In(0) != lookupType) {
		return fmt.Errorf("must accept no arguments or a single solder.Lookup")
	}
	if mt.NumOut() < 1 || mt.NumOut() > 2 {
		return fmt.Errorf("must return T or (T, error)")
	}
	if mt.NumOut() == 2 && !mt.Out(1).Implements(errorType) {
		return fmt.Errorf("must return T or (T, error); second result is %s", mt.Out(1))
	}
	return nil
}

func callFactory(id string, fn reflect.Value, lk Lookup) (interface{}, error) {
	var args []reflect.Value
	if fn.Type().NumIn() == 1 {
		args = []reflect.Value{reflect.ValueOf(lk)}
	}
	outs := fn.Call(args)
	if len(outs) == 2 && !outs[1].IsNil() {
		return nil, fmt.Errorf("solder: factory for %q: %w", id, outs[1].Interface().(error))
	}
	return outs[0].Interface(), nil
}

// argumentsFactory builds the synthesized factory for the class+arguments
// form: each argument resolves to a value, then the arguments fill the
// class's exported fields positionally.
func argumentsFactory(id string, t reflect.Type, args []interface{}, cfg *config) (FactoryFunc, error) {
	var fieldIdx []int
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath == "" {
			fieldIdx = append(fieldIdx, i)
		}
	}
	if len(args) > len(fieldIdx) {
		return nil, specErr(cfg, id, "class %s has %d exported fields, spec passes %d arguments",
			TypeKey(t), len(fieldIdx), len(args))
	}

	type argSource struct {
		ref   string
		value interface{}
	}
	sources := make([]argSource, 0, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok {
			if ref, isRef := strings.CutPrefix(s, "@"); isRef {
				sources = append(sources, argSource{ref: ref})
				continue
			}
		}
		if cfg.strict && arg != nil {
			switch reflect.ValueOf(arg).Kind() {
			case reflect.Struct, reflect.Ptr, reflect.Func, reflect.Chan, reflect.UnsafePointer:
				return nil, specErr(cfg, id,
					"argument %d is a raw %T, which has no source form under strict mode; use a @service reference",
					i, arg)
			}
		}
		sources = append(sources, argSource{value: arg})
	}

	return func(lk Lookup) (interface{}, error) {
		v := reflect.New(t)
		elem := v.Elem()
		for i, src := range sources {
			val := src.value
			if src.ref != "" {
				dep, err := lk.Get(src.ref)
				if err != nil {
					return nil, fmt.Errorf("solder: argument %d of service %q: %w", i, id, err)
				}
				val = dep
			}
			fld := elem.Field(fieldIdx[i])
			if err := assignArgument(fld, val); err != nil {
				return nil, fmt.Errorf("solder: argument %d of service %q %v", i, id, err)
			}
		}
		return v.Interface(), nil
	}, nil
}

// assignArgument is setField with the leniency positional literals need:
// YAML hands over untyped ints and floats, so numeric and string kinds
// convert to the field's type when assignment alone does not fit.
func assignArgument(fv reflect.Value, val interface{}) error {
	if err := setField(fv, val); err != nil {
		rv := reflect.ValueOf(val)
		if rv.IsValid() && rv.Type().ConvertibleTo(fv.Type()) &&
			isConvertibleKind(rv.Kind()) && isConvertibleKind(fv.Kind()) {
			fv.Set(rv.Convert(fv.Type()))
			return nil
		}
		return err
	}
	return nil
}

func isConvertibleKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return true
	default:
		return false
	}
}
