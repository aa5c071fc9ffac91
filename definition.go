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

import "reflect"

// Kind identifies the concrete variety of a Definition.
type Kind int

const (
	// KindValue is a precomputed literal.
	KindValue Kind = iota + 1
	// KindFactory is an opaque callable producing the value.
	KindFactory
	// KindAutowire constructs a struct type by resolving its exported
	// fields.
	KindAutowire
	// KindIterator is a virtual service whose value is an ordered list of
	// other services.
	KindIterator
	// KindAlias is a pure redirect to another id.
	KindAlias
)

// String returns the kind's name as used in events and the services index.
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindFactory:
		return "factory"
	case KindAutowire:
		return "autowire"
	case KindIterator:
		return "iterator"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// A Definition describes how to produce one service's value. Definitions are
// immutable once constructed: the compiler and containers only ever read
// them.
//
// Exactly five kinds exist; the interface is sealed to this package.
type Definition interface {
	// ID is the service id, the sole key used for singleton memoization.
	ID() string
	// Kind reports the definition's variety.
	Kind() Kind
	// Shared reports whether the produced value is memoized and reused.
	// Aliases report false: an alias never owns a memoization slot.
	Shared() bool

	definition() // restricts implementations to this package
}

func (*ValueDefinition) definition()          {}
func (*FactoryDefinition) definition()        {}
func (*AutowireDefinition) definition()       {}
func (*TaggedIteratorDefinition) definition() {}
func (*AliasDefinition) definition()          {}

// A DefinitionOption adjusts how a definition is constructed.
type DefinitionOption interface {
	applyDefinition(*definitionConfig)
}

type definitionConfig struct {
	shared bool
}

type notShared struct{}

func (notShared) applyDefinition(c *definitionConfig) { c.shared = false }

func (notShared) String() string { return "solder.NotShared()" }

// NotShared marks a definition as transient: every lookup rebuilds the
// value instead of memoizing it. Tagged iterators ignore this option; they
// are always shared.
func NotShared() DefinitionOption { return notShared{} }

func buildDefinitionConfig(opts []DefinitionOption) definitionConfig {
	cfg := definitionConfig{shared: true}
	for _, opt := range opts {
		opt.applyDefinition(&cfg)
	}
	return cfg
}

// ValueDefinition holds a precomputed literal.
type ValueDefinition struct {
	id     string
	value  interface{}
	shared bool
}

// Value defines a service whose value is already computed.
func Value(id string, v interface{}, opts ...DefinitionOption) *ValueDefinition {
	cfg := buildDefinitionConfig(opts)
	return &ValueDefinition{id: id, value: v, shared: cfg.shared}
}

// ID returns the service id.
func (d *ValueDefinition) ID() string { return d.id }

// Kind returns KindValue.
func (d *ValueDefinition) Kind() Kind { return KindValue }

// Shared reports whether lookups memoize the value.
func (d *ValueDefinition) Shared() bool { return d.shared }

// Value returns the precomputed literal.
func (d *ValueDefinition) Value() interface{} { return d.value }

// FactoryFunc produces a service value against the runtime container. The
// Lookup argument is the container the value is being resolved from.
type FactoryFunc func(Lookup) (interface{}, error)

// FactoryDefinition holds an opaque callable producing the value. Factory
// definitions are only representable at runtime: the compiler rejects them
// because an arbitrary closure has no source-level representation.
type FactoryDefinition struct {
	id     string
	fn     FactoryFunc
	shared bool
}

// Factory defines a service produced by calling fn against the container.
func Factory(id string, fn FactoryFunc, opts ...DefinitionOption) *FactoryDefinition {
	cfg := buildDefinitionConfig(opts)
	return &FactoryDefinition{id: id, fn: fn, shared: cfg.shared}
}

// ID returns the service id.
func (d *FactoryDefinition) ID() string { return d.id }

// Kind returns KindFactory.
func (d *FactoryDefinition) Kind() Kind { return KindFactory }

// Shared reports whether lookups memoize the value.
func (d *FactoryDefinition) Shared() bool { return d.shared }

// Func returns the factory callable.
func (d *FactoryDefinition) Func() FactoryFunc { return d.fn }

// AutowireDefinition instructs the container to construct a struct type by
// resolving each of its exported fields through the parameter resolution
// strategy. The produced value is a pointer to the struct.
type AutowireDefinition struct {
	id     string
	typ    reflect.Type
	shared bool
}

// Autowire defines a service constructed by reflecting the struct type T.
func Autowire[T any](id string, opts ...DefinitionOption) *AutowireDefinition {
	return AutowireType(id, reflect.TypeOf((*T)(nil)).Elem(), opts...)
}

// AutowireType is the non-generic form of Autowire for callers that hold a
// reflect.Type. Pointer types are reduced to their element type.
func AutowireType(id string, t reflect.Type, opts ...DefinitionOption) *AutowireDefinition {
	cfg := buildDefinitionConfig(opts)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return &AutowireDefinition{id: id, typ: t, shared: cfg.shared}
}

// ID returns the service id.
func (d *AutowireDefinition) ID() string { return d.id }

// Kind returns KindAutowire.
func (d *AutowireDefinition) Kind() Kind { return KindAutowire }

// Shared reports whether lookups memoize the value.
func (d *AutowireDefinition) Shared() bool { return d.shared }

// Type returns the struct type to construct.
func (d *AutowireDefinition) Type() reflect.Type { return d.typ }

// TaggedEntry names one member of a tagged iterator together with its
// ordering priority.
type TaggedEntry struct {
	Service  string
	Priority int
}

// TaggedIteratorDefinition is a virtual service whose value is an ordered
// list of other services. Entries are ordered by priority, highest first;
// ties keep their registration order. Tagged iterators are always shared.
type TaggedIteratorDefinition struct {
	id      string
	entries []TaggedEntry
}

// TaggedIterator defines a service resolving to the listed entries, ordered
// by descending priority.
func TaggedIterator(id string, entries ...TaggedEntry) *TaggedIteratorDefinition {
	es := make([]TaggedEntry, len(entries))
	copy(es, entries)
	return &TaggedIteratorDefinition{id: id, entries: es}
}

// ID returns the service id.
func (d *TaggedIteratorDefinition) ID() string { return d.id }

// Kind returns KindIterator.
func (d *TaggedIteratorDefinition) Kind() Kind { return KindIterator }

// Shared always reports true for tagged iterators.
func (d *TaggedIteratorDefinition) Shared() bool { return true }

// Entries returns a copy of the entries in registration order.
func (d *TaggedIteratorDefinition) Entries() []TaggedEntry {
	es := make([]TaggedEntry, len(d.entries))
	copy(es, d.entries)
	return es
}

// AliasDefinition redirects one id to another. An alias never owns a
// memoization slot: resolving the alias is exactly resolving the target.
type AliasDefinition struct {
	id     string
	target string
}

// Alias defines id as a pure redirect to target.
func Alias(id, target string) *AliasDefinition {
	return &AliasDefinition{id: id, target: target}
}

// ID returns the alias id.
func (d *AliasDefinition) ID() string { return d.id }

// Kind returns KindAlias.
func (d *AliasDefinition) Kind() Kind { return KindAlias }

// Shared reports false: aliases share their target's caching behavior
// instead of owning any.
func (d *AliasDefinition) Shared() bool { return false }

// Target returns the id the alias redirects to.
func (d *AliasDefinition) Target() string { return d.target }

// Definitions is an insertion-ordered collection of service definitions
// keyed by id. Redefining an id keeps its original position; the last
// registration wins.
type Definitions struct {
	order []string
	byID  map[string]Definition
}

// NewDefinitions builds a collection from defs in order.
func NewDefinitions(defs ...Definition) *Definitions {
	d := &Definitions{byID: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		d.Set(def)
	}
	return d
}

// Set registers def under its id and reports whether an earlier definition
// was replaced.
func (d *Definitions) Set(def Definition) (replaced bool) {
	if d.byID == nil {
		d.byID = make(map[string]Definition)
	}
	_, replaced = d.byID[def.ID()]
	if !replaced {
		d.order = append(d.order, def.ID())
	}
	d.byID[def.ID()] = def
	return replaced
}

// Get returns the definition registered under id.
func (d *Definitions) Get(id string) (Definition, bool) {
	def, ok := d.byID[id]
	return def, ok
}

// Has reports whether a definition is registered under id.
func (d *Definitions) Has(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// Len returns the number of registered definitions.
func (d *Definitions) Len() int { return len(d.order) }

// IDs returns all registered ids in insertion order.
func (d *Definitions) IDs() []string {
	ids := make([]string, len(d.order))
	copy(ids, d.order)
	return ids
}

// All walks the definitions in insertion order until fn returns false.
func (d *Definitions) All(fn func(Definition) bool) {
	for _, id := range d.order {
		if !fn(d.byID[id]) {
			return
		}
	}
}
