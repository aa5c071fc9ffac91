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
)

// TypeRegistry maps type names appearing in textual service specs to the
// struct types they denote. Go offers no global name-to-type lookup, so any
// type a spec names by string must be registered here first.
//
// Each type is known under its short key (see TypeKey) and, for named
// types, its import-path-qualified name. Registration is expected during
// assembly, before loading; the registry is not safe for concurrent
// mutation.
type TypeRegistry struct {
	byName map[string]reflect.Type
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{byName: make(map[string]reflect.Type)}
}

// Register records the struct type T in the registry and returns its short
// key. Pointer types are reduced to their element type. Registering the
// same type twice is a no-op.
func Register[T any](r *TypeRegistry) string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	key := TypeKey(t)
	r.register(key, t)
	if full := fullTypeKey(t); full != "" {
		r.register(full, t)
	}
	return key
}

// RegisterNamed records t under an additional explicit name, for specs
// whose class strings do not match the Go type name. It fails if the name
// is already bound to a different type.
func (r *TypeRegistry) RegisterNamed(name string, t reflect.Type) error {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return fmt.Errorf("solder: cannot register nil type under %q", name)
	}
	if prev, ok := r.byName[name]; ok && prev != t {
		return fmt.Errorf("solder: type name %q already registered as %v", name, prev)
	}
	r.register(name, t)
	return nil
}

// Lookup returns the type registered under name.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.byName[name]
	return t, ok
}

func (r *TypeRegistry) register(name string, t reflect.Type) {
	if r.byName == nil {
		r.byName = make(map[string]reflect.Type)
	}
	r.byName[name] = t
}
