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

	"gopkg.in/yaml.v3"
)

// RawSpec is one untyped entry of the service DSL, as decoded from YAML or
// assembled in code. Load turns it into a typed Definition; nothing
// downstream of Load ever sees a RawSpec.
type RawSpec struct {
	// Class names the type to construct, as registered in the
	// TypeRegistry. May be left empty when the service id itself names a
	// registered type.
	Class string `yaml:"class,omitempty"`

	// Autowire requests reflection-driven construction of Class.
	Autowire bool `yaml:"autowire,omitempty"`

	// Shared controls memoization. Singleton and Bind are accepted
	// shorthands: singleton:false and bind:false both mean shared:false.
	// Unset means shared.
	Shared    *bool `yaml:"shared,omitempty"`
	Singleton *bool `yaml:"singleton,omitempty"`
	Bind      *bool `yaml:"bind,omitempty"`

	// Factory produces the value instead of constructing Class. Accepted
	// forms: "pkg.Type::Method", a [target, method] pair whose target is
	// a type name or a "@serviceId" reference, or a Go func value.
	Factory interface{} `yaml:"factory,omitempty"`

	// Arguments are positional values for Class's exported fields.
	// Strings prefixed "@" are container references resolved at call
	// time.
	Arguments []interface{} `yaml:"arguments,omitempty"`

	// Alias registers extra ids redirecting to this service: a single
	// name or a list of names.
	Alias interface{} `yaml:"alias,omitempty"`
}

// sharedFlag normalizes the three sharing spellings. When several are set,
// shared wins over singleton, singleton over bind. Unset means shared.
func (s RawSpec) sharedFlag() bool {
	for _, v := range []*bool{s.Shared, s.Singleton, s.Bind} {
		if v != nil {
			return *v
		}
	}
	return true
}

// aliasList normalizes the alias field to a list of names.
func (s RawSpec) aliasList() ([]string, error) {
	switch a := s.Alias.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{a}, nil
	case []string:
		out := make([]string, len(a))
		copy(out, a)
		return out, nil
	case []interface{}:
		out := make([]string, 0, len(a))
		for _, v := range a {
			name, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("alias entries must be strings, got %T", v)
			}
			out = append(out, name)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("alias must be a string or a list of strings, got %T", a)
	}
}

// SpecMap is an insertion-ordered id to RawSpec map. Setting an existing id
// keeps its position and overwrites the spec; the duplicate is recorded so
// Load can report it.
type SpecMap struct {
	order []string
	specs map[string]RawSpec
	dups  []string
}

// NewSpecMap returns an empty spec map.
func NewSpecMap() *SpecMap {
	return &SpecMap{specs: make(map[string]RawSpec)}
}

// Set stores spec under id and returns the map for chaining.
func (m *SpecMap) Set(id string, spec RawSpec) *SpecMap {
	if m.specs == nil {
		m.specs = make(map[string]RawSpec)
	}
	if _, ok := m.specs[id]; ok {
		m.dups = append(m.dups, id)
	} else {
		m.order = append(m.order, id)
	}
	m.specs[id] = spec
	return m
}

// Get returns the spec stored under id.
func (m *SpecMap) Get(id string) (RawSpec, bool) {
	s, ok := m.specs[id]
	return s, ok
}

// IDs returns all ids in first-seen order.
func (m *SpecMap) IDs() []string {
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	return ids
}

// Len returns the number of distinct ids.
func (m *SpecMap) Len() int { return len(m.order) }

// Duplicates returns the ids that were set more than once, one entry per
// extra occurrence, in the order the overwrites happened.
func (m *SpecMap) Duplicates() []string {
	dups := make([]string, len(m.dups))
	copy(dups, m.dups)
	return dups
}

// UnmarshalYAML decodes a YAML mapping of service ids to specs, keeping
// document order. Go's native map type would scramble it, so the mapping is
// walked node by node.
func (m *SpecMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: services must be a mapping, got %s", node.Line, yamlKindName(node.Kind))
	}
	if m.specs == nil {
		m.specs = make(map[string]RawSpec)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var id string
		if err := keyNode.Decode(&id); err != nil {
			return fmt.Errorf("line %d: service id must be a string: %v", keyNode.Line, err)
		}
		var spec RawSpec
		if err := valNode.Decode(&spec); err != nil {
			return fmt.Errorf("service %q: %v", id, err)
		}
		m.Set(id, spec)
	}
	return nil
}

// ParseYAML decodes a YAML document of the form `services: {id: spec, ...}`
// into an ordered SpecMap. A document without the services key decodes as
// empty.
func ParseYAML(data []byte) (*SpecMap, error) {
	var doc struct {
		Services SpecMap `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("solder: cannot parse services yaml: %w", err)
	}
	return &doc.Services, nil
}

func yamlKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
