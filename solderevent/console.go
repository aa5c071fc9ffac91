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

import (
	"fmt"
	"io"
)

// ConsoleLogger is an event logger that writes human-readable messages to
// the console.
//
// Use this during development.
type ConsoleLogger struct {
	W io.Writer
}

var _ Logger = (*ConsoleLogger)(nil)

func (l *ConsoleLogger) logf(msg string, args ...interface{}) {
	fmt.Fprintf(l.W, "[solder] "+msg+"\n", args...)
}

// LogEvent logs the given event to the console.
func (l *ConsoleLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *DefinitionLoaded:
		l.logf("LOAD\t%s <= %s (shared=%v, provider=%q)", e.ID, e.Kind, e.Shared, e.Provider)
	case *DuplicateID:
		l.logf("DUPLICATE\t%s redefined, last registration wins (provider=%q)", e.ID, e.Provider)
	case *LoadFailed:
		l.logf("ERROR\tRejected spec %q (provider=%q): %v", e.ID, e.Provider, e.Err)
	case *ServiceCompiled:
		l.logf("COMPILE\t%s <= %s (shared=%v)", e.ID, e.Kind, e.Shared)
	case *CompileFailed:
		l.logf("ERROR\tCompilation rejected: %v", e.Err)
	case *SourceEmitted:
		l.logf("EMIT\t%s.%s (%d bytes)", e.Package, e.TypeName, e.Bytes)
	case *IndexBuilt:
		l.logf("INDEX\t%d services", e.Services)
	case *ContainerBuilt:
		if e.Err != nil {
			l.logf("ERROR\tContainer construction failed: %v", e.Err)
		} else {
			l.logf("READY\t%d services", e.Services)
		}
	}
}
