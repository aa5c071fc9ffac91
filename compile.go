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
	"go.uber.org/multierr"

	"github.com/solder-di/solder/solderevent"
)

// Artifact is the result of a successful compilation: the generated
// container source and the services index, ready for an external writer to
// persist.
type Artifact struct {
	// Source is the gofmt-formatted container source file.
	Source []byte
	// Index is the diagnostic services index, one row per definition.
	Index *ServicesIndex
	// Package and TypeName echo the identifiers used in Source.
	Package  string
	TypeName string
}

// Compile turns a definition map into generated container source plus a
// services index. The input is read once and never mutated; compiling the
// same definitions with the same options yields byte-identical source.
//
// Compilation is rejected, with every offending id reported in one error,
// when the map contains closure-backed factories, alias cycles, values the
// exporter cannot encode, or autowired types that fail analysis. A field no
// strategy resolves is not a rejection: the generated builder returns the
// resolution error if, and only if, that service is requested.
//
// Useful options: WithPackageName and WithTypeName for the generated
// identifiers, WithProvider and WithProviders for index attribution,
// WithResolver to reuse reflection caches, WithLogger for compile events.
func Compile(defs *Definitions, opts ...Option) (*Artifact, error) {
	cfg := newConfig(opts)
	wd := effectiveDefinitions(defs, cfg)

	var errs error

	// Rejection pass: collect every factory id and every alias cycle
	// before generating anything, so the failure lists them all.
	var factoryIDs []string
	aliases := make(map[string]string)
	wd.All(func(d Definition) bool {
		switch d := d.(type) {
		case *FactoryDefinition:
			factoryIDs = append(factoryIDs, d.ID())
		case *AliasDefinition:
			aliases[d.ID()] = d.Target()
		}
		return true
	})
	if len(factoryIDs) > 0 {
		errs = multierr.Append(errs, &UnsupportedFactoryError{IDs: factoryIDs})
	}
	errs = multierr.Append(errs, detectAliasCycles(wd.IDs(), aliases))

	src, genErr := newGenerator(cfg).generate(wd)
	errs = multierr.Append(errs, genErr)

	if errs != nil {
		cfg.logger.LogEvent(&solderevent.CompileFailed{Err: errs})
		return nil, errs
	}

	index := buildIndex(wd, cfg)

	wd.All(func(d Definition) bool {
		cfg.logger.LogEvent(&solderevent.ServiceCompiled{
			ID:     d.ID(),
			Kind:   d.Kind().String(),
			Shared: d.Shared(),
		})
		return true
	})
	cfg.logger.LogEvent(&solderevent.IndexBuilt{Services: index.Len()})
	cfg.logger.LogEvent(&solderevent.SourceEmitted{
		Package:  cfg.pkgName,
		TypeName: cfg.typeName,
		Bytes:    len(src),
	})

	return &Artifact{
		Source:   src,
		Index:    index,
		Package:  cfg.pkgName,
		TypeName: cfg.typeName,
	}, nil
}
