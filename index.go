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
	"encoding/json"
	"reflect"
)

// IndexEntry is one row of the services index: descriptive metadata about a
// definition, never consulted at runtime.
type IndexEntry struct {
	ID     string `json:"id" yaml:"id"`
	Shared bool   `json:"shared" yaml:"shared"`
	// Tags lists the tagged iterators that reference this service.
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Provider string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	// Type describes what the service resolves to: a type key for value
	// and autowire definitions, the callable's name for factories,
	// "iterator" for tagged iterators, empty for aliases.
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	AliasOf string `json:"alias_of,omitempty" yaml:"alias_of,omitempty"`
}

// ServicesIndex is the diagnostic index over a definition map: one row per
// definition, in input order, ready for an external writer to serialize.
type ServicesIndex struct {
	rows []IndexEntry
	byID map[string]int
}

// BuildIndex derives the services index from defs. WithProvider and
// WithProviders attribute rows to their sources.
func BuildIndex(defs *Definitions, opts ...Option) *ServicesIndex {
	cfg := newConfig(opts)
	return buildIndex(defs, cfg)
}

func buildIndex(defs *Definitions, cfg *config) *ServicesIndex {
	// First pass inverts tagged-iterator membership: per service, which
	// tag groups reference it.
	tags := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	if defs != nil {
		defs.All(func(d Definition) bool {
			it, ok := d.(*TaggedIteratorDefinition)
			if !ok {
				return true
			}
			for _, e := range it.Entries() {
				if seen[e.Service] == nil {
					seen[e.Service] = make(map[string]bool)
				}
				if seen[e.Service][it.ID()] {
					continue
				}
				seen[e.Service][it.ID()] = true
				tags[e.Service] = append(tags[e.Service], it.ID())
			}
			return true
		})
	}

	ix := &ServicesIndex{byID: make(map[string]int)}
	if defs == nil {
		return ix
	}
	defs.All(func(d Definition) bool {
		row := IndexEntry{
			ID:       d.ID(),
			Shared:   d.Shared(),
			Tags:     tags[d.ID()],
			Provider: cfg.providerFor(d.ID()),
		}
		switch d := d.(type) {
		case *ValueDefinition:
			if t := reflect.TypeOf(d.Value()); t != nil {
				row.Type = TypeKey(t)
			}
		case *FactoryDefinition:
			row.Type = FuncName(d.Func())
		case *AutowireDefinition:
			row.Type = TypeKey(d.Type())
		case *TaggedIteratorDefinition:
			row.Type = "iterator"
		case *AliasDefinition:
			row.AliasOf = d.Target()
		}
		ix.byID[row.ID] = len(ix.rows)
		ix.rows = append(ix.rows, row)
		return true
	})
	return ix
}

// Rows returns a copy of all rows in input order.
func (ix *ServicesIndex) Rows() []IndexEntry {
	rows := make([]IndexEntry, len(ix.rows))
	copy(rows, ix.rows)
	return rows
}

// Lookup returns the row for id.
func (ix *ServicesIndex) Lookup(id string) (IndexEntry, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return IndexEntry{}, false
	}
	return ix.rows[i], true
}

// Len returns the number of rows.
func (ix *ServicesIndex) Len() int { return len(ix.rows) }

// MarshalJSON encodes the index as an ordered array of rows.
func (ix *ServicesIndex) MarshalJSON() ([]byte, error) {
	return json.Marshal(ix.rows)
}

// MarshalYAML encodes the index as an ordered sequence of rows.
func (ix *ServicesIndex) MarshalYAML() (interface{}, error) {
	return ix.rows, nil
}
