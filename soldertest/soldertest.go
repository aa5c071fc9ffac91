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

// Package soldertest provides small helpers for tests that assemble and
// query solder containers.
package soldertest

import (
	"github.com/solder-di/solder"
)

// TB is a subset of the standard library's testing.TB interface. It's
// satisfied by both *testing.T and *testing.B.
type TB interface {
	Errorf(string, ...interface{})
	FailNow()
}

// RequireGet resolves id from the container, failing the test if the lookup
// doesn't succeed.
func RequireGet(t TB, c solder.Lookup, id string) interface{} {
	v, err := c.Get(id)
	if err != nil {
		t.Errorf("service %q didn't resolve cleanly: %v", id, err)
		t.FailNow()
	}
	return v
}

// RequireHas fails the test unless the container knows id.
func RequireHas(t TB, c solder.Lookup, id string) {
	if !c.Has(id) {
		t.Errorf("container doesn't know service %q", id)
		t.FailNow()
	}
}

// RequireBuild builds the compiled in-memory container from defs, failing
// the test if construction is rejected.
func RequireBuild(t TB, defs *solder.Definitions, opts ...solder.Option) *solder.Container {
	c, err := solder.BuildContainer(defs, opts...)
	if err != nil {
		t.Errorf("container didn't build cleanly: %v", err)
		t.FailNow()
	}
	return c
}

// RequireCompile compiles defs, failing the test if compilation is
// rejected.
func RequireCompile(t TB, defs *solder.Definitions, opts ...solder.Option) *solder.Artifact {
	a, err := solder.Compile(defs, opts...)
	if err != nil {
		t.Errorf("definitions didn't compile cleanly: %v", err)
		t.FailNow()
	}
	return a
}
