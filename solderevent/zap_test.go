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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	t.Parallel()

	someError := errors.New("some error")

	tests := []struct {
		name        string
		give        Event
		wantMessage string
		wantFields  map[string]interface{}
	}{
		{
			name: "DefinitionLoaded",
			give: &DefinitionLoaded{
				Provider: "auth",
				ID:       "auth.guard",
				Kind:     "autowire",
				Shared:   true,
			},
			wantMessage: "definition loaded",
			wantFields: map[string]interface{}{
				"provider": "auth",
				"id":       "auth.guard",
				"kind":     "autowire",
				"shared":   true,
			},
		},
		{
			name:        "DuplicateID",
			give:        &DuplicateID{Provider: "auth", ID: "auth.guard"},
			wantMessage: "duplicate service id, last registration wins",
			wantFields: map[string]interface{}{
				"provider": "auth",
				"id":       "auth.guard",
			},
		},
		{
			name:        "LoadFailed",
			give:        &LoadFailed{Provider: "auth", ID: "broken", Err: someError},
			wantMessage: "rejected service spec",
			wantFields: map[string]interface{}{
				"provider": "auth",
				"id":       "broken",
				"error":    "some error",
			},
		},
		{
			name:        "ServiceCompiled",
			give:        &ServiceCompiled{ID: "logger", Kind: "value", Shared: true},
			wantMessage: "service compiled",
			wantFields: map[string]interface{}{
				"id":     "logger",
				"kind":   "value",
				"shared": true,
			},
		},
		{
			name:        "CompileFailed",
			give:        &CompileFailed{Err: someError},
			wantMessage: "compilation rejected",
			wantFields: map[string]interface{}{
				"error": "some error",
			},
		},
		{
			name:        "SourceEmitted",
			give:        &SourceEmitted{Package: "appcontainer", TypeName: "Container", Bytes: 2048},
			wantMessage: "container source emitted",
			wantFields: map[string]interface{}{
				"package": "appcontainer",
				"type":    "Container",
				"bytes":   int64(2048),
			},
		},
		{
			name:        "IndexBuilt",
			give:        &IndexBuilt{Services: 12},
			wantMessage: "services index built",
			wantFields: map[string]interface{}{
				"services": int64(12),
			},
		},
		{
			name:        "ContainerBuilt",
			give:        &ContainerBuilt{Services: 7},
			wantMessage: "container built",
			wantFields: map[string]interface{}{
				"services": int64(7),
			},
		},
		{
			name:        "ContainerBuiltError",
			give:        &ContainerBuilt{Services: 0, Err: someError},
			wantMessage: "container construction failed",
			wantFields: map[string]interface{}{
				"error": "some error",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, observedLogs := observer.New(zap.DebugLevel)
			(&ZapLogger{Logger: zap.New(core)}).LogEvent(tt.give)

			logs := observedLogs.TakeAll()
			require.Len(t, logs, 1)
			got := logs[0]

			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.wantFields, got.ContextMap())
		})
	}
}
