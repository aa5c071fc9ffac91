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

// Package solder compiles declarative service definitions into dependency
// injection containers.
//
// A service is a named capability: a string id mapped to a recipe for
// producing a value. Recipes come in five kinds: precomputed values, opaque
// factory callables, autowired struct types, tagged iterators (ordered
// lists of other services), and aliases. Definitions enter the pipeline
// either as typed values (Value, Factory, Autowire, TaggedIterator, Alias)
// or through the textual DSL (SpecMap, Load).
//
// Three artifacts can be produced from a definition map:
//
//   - NewContainer builds a development container. Everything is allowed,
//     factories included, and autowired types are analyzed lazily.
//   - BuildContainer builds the compiled semantics in memory: factories are
//     rejected, analysis is eager, lookups run against a fixed table.
//   - Compile emits the compiled container as a generated Go source file
//     plus a diagnostic services index. The generated type resolves every
//     service without reflection.
//
// A minimal compile:
//
//	types := solder.NewTypeRegistry()
//	solder.Register[mail.Mailer](types)
//
//	specs := solder.NewSpecMap()
//	specs.Set("mailer", solder.RawSpec{Class: "mail.Mailer", Autowire: true})
//
//	defs, err := solder.Load(specs, solder.WithTypes(types), solder.Strict())
//	if err != nil {
//		log.Fatal(err)
//	}
//	artifact, err := solder.Compile(defs, solder.WithPackageName("appcontainer"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.Stdout.Write(artifact.Source)
//
// Autowiring resolves each exported field of a struct by a fixed strategy
// order; see Resolver. Containers memoize shared services under their
// original id, so an alias always observes its target's cached instance.
//
// The pipeline is synchronous and performs no I/O. Containers are not safe
// for concurrent use; the Resolver's reflection cache is the only
// concurrency-aware piece, so one Resolver may back many containers.
package solder // import "github.com/solder-di/solder"
