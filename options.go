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

	"github.com/solder-di/solder/solderevent"
)

// An Option customizes loading, container construction, or compilation.
// Every entry point in this package accepts the same option set; an option
// that does not apply to the operation consuming it is ignored.
type Option interface {
	fmt.Stringer

	apply(*config)
}

type config struct {
	types     *TypeRegistry
	resolver  *Resolver
	logger    solderevent.Logger
	params    *ParamBag
	provider  string
	providers map[string]string
	strict    bool
	pkgName   string
	typeName  string
}

// providerFor returns the provider name attributed to id.
func (c *config) providerFor(id string) string {
	if name, ok := c.providers[id]; ok {
		return name
	}
	return c.provider
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger:   solderevent.NopLogger,
		pkgName:  "container",
		typeName: "Container",
	}
	for _, opt := range opts {
		opt.apply(cfg)
	}
	if cfg.resolver == nil {
		cfg.resolver = NewResolver(cfg.types)
	}
	return cfg
}

type withTypesOption struct{ types *TypeRegistry }

// WithTypes supplies the registry used to turn type names from textual
// specs into Go types. Loading a spec that names classes without one fails.
func WithTypes(r *TypeRegistry) Option { return withTypesOption{types: r} }

func (o withTypesOption) apply(c *config) { c.types = o.types }

func (o withTypesOption) String() string { return "solder.WithTypes()" }

type withResolverOption struct{ resolver *Resolver }

// WithResolver supplies a resolver whose reflection caches outlive a single
// container or compilation. Sharing one resolver across builds avoids
// re-inspecting the same struct types.
func WithResolver(r *Resolver) Option { return withResolverOption{resolver: r} }

func (o withResolverOption) apply(c *config) {
	c.resolver = o.resolver
	if c.types == nil && o.resolver != nil {
		c.types = o.resolver.types
	}
}

func (o withResolverOption) String() string { return "solder.WithResolver()" }

type withLoggerOption struct{ logger solderevent.Logger }

// WithLogger directs lifecycle events to the given logger. The default
// discards all events.
func WithLogger(l solderevent.Logger) Option { return withLoggerOption{logger: l} }

func (o withLoggerOption) apply(c *config) {
	if o.logger != nil {
		c.logger = o.logger
	}
}

func (o withLoggerOption) String() string { return "solder.WithLogger()" }

type withParamsOption struct{ params *ParamBag }

// WithParams registers the bag as the configuration parameter service under
// ParamsID, ahead of any user definitions.
func WithParams(b *ParamBag) Option { return withParamsOption{params: b} }

func (o withParamsOption) apply(c *config) { c.params = o.params }

func (o withParamsOption) String() string { return "solder.WithParams()" }

type withProvidersOption struct{ providers map[string]string }

// WithProviders supplies per-id provider names for index attribution, for
// definition maps assembled from several sources. Ids missing from the map
// fall back to the WithProvider name, if any.
func WithProviders(m map[string]string) Option { return withProvidersOption{providers: m} }

func (o withProvidersOption) apply(c *config) {
	if len(o.providers) == 0 {
		return
	}
	if c.providers == nil {
		c.providers = make(map[string]string, len(o.providers))
	}
	for id, name := range o.providers {
		c.providers[id] = name
	}
}

func (o withProvidersOption) String() string { return "solder.WithProviders()" }

type withProviderOption struct{ provider string }

// WithProvider names the origin of a spec, e.g. a file path or a module
// name. The name is attached to loaded definitions, spec errors, and index
// rows.
func WithProvider(name string) Option { return withProviderOption{provider: name} }

func (o withProviderOption) apply(c *config) { c.provider = o.provider }

func (o withProviderOption) String() string {
	return fmt.Sprintf("solder.WithProvider(%q)", o.provider)
}

type strictOption struct{}

// Strict makes loading reject spec entries that cannot survive compilation:
// closure factories and argument literals with no source form. Use it when
// the definitions are destined for Compile or BuildContainer.
func Strict() Option { return strictOption{} }

func (o strictOption) apply(c *config) { c.strict = true }

func (o strictOption) String() string { return "solder.Strict()" }

type withPackageNameOption struct{ name string }

// WithPackageName sets the package clause of generated container source.
// The default is "container".
func WithPackageName(name string) Option { return withPackageNameOption{name: name} }

func (o withPackageNameOption) apply(c *config) {
	if o.name != "" {
		c.pkgName = o.name
	}
}

func (o withPackageNameOption) String() string {
	return fmt.Sprintf("solder.WithPackageName(%q)", o.name)
}

type withTypeNameOption struct{ name string }

// WithTypeName sets the name of the generated container type. The default
// is "Container".
func WithTypeName(name string) Option { return withTypeNameOption{name: name} }

func (o withTypeNameOption) apply(c *config) {
	if o.name != "" {
		c.typeName = o.name
	}
}

func (o withTypeNameOption) String() string {
	return fmt.Sprintf("solder.WithTypeName(%q)", o.name)
}
