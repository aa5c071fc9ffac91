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
	"sort"

	"go.uber.org/multierr"

	"github.com/solder-di/solder/solderevent"
)

// Lookup is the runtime capability services are resolved against: generated
// builders, loader-produced factories, and autowired fields all call back
// into it.
type Lookup interface {
	// Get returns the service registered under id, building and
	// memoizing it as its definition dictates.
	Get(id string) (interface{}, error)
	// Has reports whether id names a known service or alias.
	Has(id string) bool
}

type builderFunc func() (interface{}, error)

// Container resolves services from a fixed definition set. Shared services
// are built once and memoized under their original id; aliases redirect to
// their target's slot and never own one.
//
// A Container is not safe for concurrent use: memoization is a plain map
// write, chosen for request-scoped containers where lookups do not race.
type Container struct {
	order    []string
	resolved map[string]interface{}
	builders map[string]builderFunc
	shared   map[string]bool
	aliases  map[string]string
}

// Get returns the service registered under id. Unknown ids fail with a
// NotFoundError; known ids that cannot be built fail with the builder's
// error, typically a ResolutionError.
func (c *Container) Get(id string) (interface{}, error) {
	if v, ok := c.resolved[id]; ok {
		return v, nil
	}
	if target, ok := c.aliases[id]; ok {
		return c.Get(target)
	}
	build, ok := c.builders[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	v, err := build()
	if err != nil {
		return nil, err
	}
	if c.shared[id] {
		c.resolved[id] = v
	}
	return v, nil
}

// Has reports whether id names a service or alias known to the container.
func (c *Container) Has(id string) bool {
	if _, ok := c.builders[id]; ok {
		return true
	}
	if _, ok := c.aliases[id]; ok {
		return true
	}
	_, ok := c.resolved[id]
	return ok
}

// IDs returns every known id, aliases included, in registration order.
func (c *Container) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Len returns the number of known ids, aliases included.
func (c *Container) Len() int { return len(c.order) }

// NewContainer builds a development container straight from definitions.
// Every definition kind is accepted, factories included. Autowired types
// are inspected lazily, on the first lookup that needs them, so a
// misconfigured service only surfaces when it is actually requested.
func NewContainer(defs *Definitions, opts ...Option) (*Container, error) {
	cfg := newConfig(opts)
	c, err := assembleContainer(defs, cfg, false)
	cfg.logger.LogEvent(&solderevent.ContainerBuilt{
		Services: containerSize(c),
		Err:      err,
	})
	return c, err
}

// BuildContainer builds the compiled form of the definitions as an
// in-memory table instead of generated source: a builder per id plus a
// shared flag, with has/get semantics identical to the emitted artifact's.
//
// Like Compile, it rejects every closure-backed FactoryDefinition in one
// aggregated error and detects alias cycles. Autowired types are inspected
// eagerly, but a field no strategy resolves does not fail the build: the
// error is deferred to the first lookup of that service.
func BuildContainer(defs *Definitions, opts ...Option) (*Container, error) {
	cfg := newConfig(opts)
	c, err := assembleContainer(defs, cfg, true)
	cfg.logger.LogEvent(&solderevent.ContainerBuilt{
		Services: containerSize(c),
		Err:      err,
	})
	return c, err
}

func containerSize(c *Container) int {
	if c == nil {
		return 0
	}
	return c.Len()
}

// effectiveDefinitions copies defs into a fresh collection, seeding the
// parameter bag service first so a user definition of ParamsID still wins.
// The caller's map is never mutated.
func effectiveDefinitions(defs *Definitions, cfg *config) *Definitions {
	wd := NewDefinitions()
	if cfg.params != nil {
		wd.Set(Value(ParamsID, cfg.params))
	}
	if defs != nil {
		defs.All(func(d Definition) bool {
			wd.Set(d)
			return true
		})
	}
	return wd
}

func assembleContainer(defs *Definitions, cfg *config, compiled bool) (*Container, error) {
	wd := effectiveDefinitions(defs, cfg)

	c := &Container{
		order:    wd.IDs(),
		resolved: make(map[string]interface{}, wd.Len()),
		builders: make(map[string]builderFunc, wd.Len()),
		shared:   make(map[string]bool, wd.Len()),
		aliases:  make(map[string]string),
	}

	// Register ids and aliases first: rule 3 binding and cycle detection
	// both need the complete id set.
	wd.All(func(d Definition) bool {
		if a, ok := d.(*AliasDefinition); ok {
			c.aliases[a.ID()] = a.Target()
		} else {
			c.shared[d.ID()] = d.Shared()
			c.builders[d.ID()] = nil
		}
		return true
	})

	var errs error
	if err := detectAliasCycles(c.order, c.aliases); err != nil {
		errs = multierr.Append(errs, err)
	}

	var factoryIDs []string
	wd.All(func(d Definition) bool {
		switch d := d.(type) {
		case *ValueDefinition:
			v := d.Value()
			c.builders[d.ID()] = func() (interface{}, error) { return v, nil }

		case *FactoryDefinition:
			if compiled {
				factoryIDs = append(factoryIDs, d.ID())
				return true
			}
			id, fn := d.ID(), d.Func()
			c.builders[id] = func() (interface{}, error) { return fn(c) }

		case *AutowireDefinition:
			id, typ := d.ID(), d.Type()
			if compiled {
				plan, err := cfg.resolver.Plan(typ, c.Has)
				if err != nil {
					errs = multierr.Append(errs, &ResolutionError{
						ID: id, Type: TypeKey(typ), Reason: err.Error(),
					})
					return true
				}
				c.builders[id] = func() (interface{}, error) {
					return cfg.resolver.Build(id, plan, c)
				}
				return true
			}
			var plan *Plan
			c.builders[id] = func() (interface{}, error) {
				if plan == nil {
					p, err := cfg.resolver.Plan(typ, c.Has)
					if err != nil {
						return nil, &ResolutionError{
							ID: id, Type: TypeKey(typ), Reason: err.Error(),
						}
					}
					plan = p
				}
				return cfg.resolver.Build(id, plan, c)
			}

		case *TaggedIteratorDefinition:
			id := d.ID()
			ordered := sortTaggedEntries(d.Entries())
			c.builders[id] = func() (interface{}, error) {
				items := make([]interface{}, 0, len(ordered))
				for _, e := range ordered {
					v, err := c.Get(e.Service)
					if err != nil {
						return nil, err
					}
					items = append(items, v)
				}
				return items, nil
			}

		case *AliasDefinition:
			// Registered above.
		}
		return true
	})

	if len(factoryIDs) > 0 {
		errs = multierr.Append(errs, &UnsupportedFactoryError{IDs: factoryIDs})
	}
	if errs != nil {
		return nil, errs
	}

	if compiled {
		wd.All(func(d Definition) bool {
			cfg.logger.LogEvent(&solderevent.ServiceCompiled{
				ID:     d.ID(),
				Kind:   d.Kind().String(),
				Shared: d.Shared(),
			})
			return true
		})
	}
	return c, nil
}

// sortTaggedEntries orders entries by priority, highest first. The sort is
// stable: equal priorities keep their registration order.
func sortTaggedEntries(entries []TaggedEntry) []TaggedEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority > entries[j].Priority
	})
	return entries
}

// detectAliasCycles walks every alias chain and reports each distinct
// cycle once, in registration order.
func detectAliasCycles(order []string, aliases map[string]string) error {
	var errs error
	reported := make(map[string]bool)

	for _, id := range order {
		if _, ok := aliases[id]; !ok {
			continue
		}
		if reported[id] {
			continue
		}

		seen := map[string]bool{}
		chain := []string{}
		cur := id
		for {
			chain = append(chain, cur)
			if seen[cur] {
				for _, n := range chain {
					reported[n] = true
				}
				errs = multierr.Append(errs, &AliasCycleError{Chain: chain})
				break
			}
			seen[cur] = true
			next, ok := aliases[cur]
			if !ok {
				break // chain ends at a concrete id or a dangling target
			}
			cur = next
		}
	}
	return errs
}
