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
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound matches lookup failures: errors.Is(err, ErrNotFound) is true
// exactly when a requested id names no service. A found service that fails
// to construct never matches.
var ErrNotFound = errors.New("service not found")

// ErrUnsupportedFactory matches compilation failures caused by factory
// definitions, which have no source-level representation.
var ErrUnsupportedFactory = errors.New("factory definitions cannot be compiled")

// NotFoundError reports a lookup of an id with no registered service.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("solder: no service registered under id %q", e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// SpecError reports one invalid entry in a textual service spec. Loading
// validates every entry and returns all spec errors at once, combined with
// multierr.
type SpecError struct {
	// Provider names the spec source, if the loader was given one.
	Provider string
	// ID is the service id of the offending entry.
	ID string
	// Reason describes what was wrong.
	Reason string
}

func (e *SpecError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("solder: invalid spec for %q: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("solder: invalid spec for %q (provider %s): %s", e.ID, e.Provider, e.Reason)
}

// ResolutionError reports a field of an autowired struct that could not be
// resolved. The service exists; producing its value failed. It never
// matches ErrNotFound.
type ResolutionError struct {
	// ID is the service being constructed.
	ID string
	// Type is the struct type's key.
	Type string
	// Field is the unresolvable field's name, if the failure is tied to
	// one field.
	Field string
	// Reason describes why resolution failed.
	Reason string
}

func (e *ResolutionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("solder: cannot construct %s for service %q: %s", e.Type, e.ID, e.Reason)
	}
	return fmt.Sprintf("solder: cannot resolve field %s of %s for service %q: %s",
		e.Field, e.Type, e.ID, e.Reason)
}

// UnsupportedFactoryError reports every factory definition that blocked a
// compilation. Compilation scans all definitions before failing, so the
// error lists each offending id rather than the first one found.
type UnsupportedFactoryError struct {
	IDs []string
}

func (e *UnsupportedFactoryError) Error() string {
	quoted := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		quoted[i] = fmt.Sprintf("%q", id)
	}
	return fmt.Sprintf("solder: cannot compile factory definitions (closures have no source form): %s",
		strings.Join(quoted, ", "))
}

// Is matches ErrUnsupportedFactory.
func (e *UnsupportedFactoryError) Is(target error) bool { return target == ErrUnsupportedFactory }

// AliasCycleError reports a chain of aliases that never reaches a concrete
// definition. Chain holds the ids in walk order; the last element is the
// one that closed the cycle.
type AliasCycleError struct {
	Chain []string
}

func (e *AliasCycleError) Error() string {
	return fmt.Sprintf("solder: alias cycle: %s", strings.Join(e.Chain, " -> "))
}

// ExportError reports a value that cannot be rendered as a Go literal.
type ExportError struct {
	// Type is the value's type key, or a description of the offending
	// shape.
	Type string
	// Reason describes why the value has no literal form.
	Reason string
}

func (e *ExportError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("solder: cannot export value of type %s", e.Type)
	}
	return fmt.Sprintf("solder: cannot export value of type %s: %s", e.Type, e.Reason)
}
