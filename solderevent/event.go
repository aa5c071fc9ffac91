// Copyright (c) 2025 The solder Authors
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

package solderevent

// Event describes something that happened during loading or compilation of
// service definitions.
type Event interface {
	event() // restricts implementations to this package
}

// Logger receives events as they happen. Implementations must not retain a
// reference to the event after LogEvent returns.
type Logger interface {
	LogEvent(Event)
}

// Passing events by pointer keeps the switch in the adapters cheap.
func (*DefinitionLoaded) event() {}
func (*DuplicateID) event()      {}
func (*LoadFailed) event()       {}
func (*ServiceCompiled) event()  {}
func (*CompileFailed) event()    {}
func (*SourceEmitted) event()    {}
func (*IndexBuilt) event()       {}
func (*ContainerBuilt) event()   {}

// DefinitionLoaded is emitted by the DSL loader for every raw spec entry it
// successfully turned into a definition, alias entries included.
type DefinitionLoaded struct {
	// Provider is the provider-context string the loader was configured
	// with, if any.
	Provider string
	// ID is the service id of the definition.
	ID string
	// Kind is the definition kind ("value", "factory", "autowire",
	// "iterator" or "alias").
	Kind string
	// Shared reports whether the resulting service memoizes its value.
	Shared bool
}

// DuplicateID is emitted when a later registration overwrites an earlier one
// for the same service id. Last registration wins.
type DuplicateID struct {
	Provider string
	ID       string
}

// LoadFailed is emitted for every raw spec entry the loader rejected.
type LoadFailed struct {
	Provider string
	ID       string
	Err      error
}

// ServiceCompiled is emitted for every definition the compiler turned into a
// builder.
type ServiceCompiled struct {
	ID     string
	Kind   string
	Shared bool
}

// CompileFailed is emitted once when a compile pass is rejected. Err carries
// the aggregated rejection.
type CompileFailed struct {
	Err error
}

// SourceEmitted is emitted after the generated container source has been
// rendered and formatted.
type SourceEmitted struct {
	// Package and TypeName identify the generated container type.
	Package  string
	TypeName string
	// Bytes is the size of the rendered source.
	Bytes int
}

// IndexBuilt is emitted after the services index has been derived.
type IndexBuilt struct {
	Services int
}

// ContainerBuilt is emitted after an in-memory container has been
// constructed, for both the runtime and the compiled form.
type ContainerBuilt struct {
	Services int
	Err      error
}

// NopLogger is an Event logger that ignores all events.
var NopLogger Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) LogEvent(Event) {}
