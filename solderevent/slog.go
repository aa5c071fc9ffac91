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
	"context"
	"log/slog"
)

var _ Logger = (*SlogLogger)(nil)

// SlogLogger is an event logger that logs events using a slog logger.
type SlogLogger struct {
	Logger *slog.Logger

	ctx        context.Context
	logLevel   slog.Level
	errorLevel *slog.Level
}

// UseContext sets the context that will be used when logging to slog.
func (l *SlogLogger) UseContext(ctx context.Context) {
	l.ctx = ctx
}

// UseLogLevel sets the level of non-error logs to level.
func (l *SlogLogger) UseLogLevel(level slog.Level) {
	l.logLevel = level
}

// UseErrorLevel sets the level of error logs to level.
func (l *SlogLogger) UseErrorLevel(level slog.Level) {
	l.errorLevel = &level
}

func (l *SlogLogger) filter(fields []any) []any {
	filtered := make([]any, 0, len(fields))
	for _, field := range fields {
		if field, ok := field.(slog.Attr); ok {
			if _, ok := field.Value.Any().(slogFieldSkip); ok {
				continue
			}
		}
		filtered = append(filtered, field)
	}
	return filtered
}

func (l *SlogLogger) logEvent(msg string, fields ...any) {
	l.Logger.Log(l.ctx, l.logLevel, msg, l.filter(fields)...)
}

func (l *SlogLogger) logError(msg string, fields ...any) {
	lvl := slog.LevelError
	if l.errorLevel != nil {
		lvl = *l.errorLevel
	}
	l.Logger.Log(l.ctx, lvl, msg, l.filter(fields)...)
}

// LogEvent logs the given event to the underlying slog logger.
func (l *SlogLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *DefinitionLoaded:
		l.logEvent("definition loaded",
			slogMaybeProvider(e.Provider),
			slog.String("id", e.ID),
			slog.String("kind", e.Kind),
			slog.Bool("shared", e.Shared),
		)
	case *DuplicateID:
		l.logEvent("duplicate service id, last registration wins",
			slogMaybeProvider(e.Provider),
			slog.String("id", e.ID),
		)
	case *LoadFailed:
		l.logError("rejected service spec",
			slogMaybeProvider(e.Provider),
			slog.String("id", e.ID),
			slogErr(e.Err),
		)
	case *ServiceCompiled:
		l.logEvent("service compiled",
			slog.String("id", e.ID),
			slog.String("kind", e.Kind),
			slog.Bool("shared", e.Shared),
		)
	case *CompileFailed:
		l.logError("compilation rejected", slogErr(e.Err))
	case *SourceEmitted:
		l.logEvent("container source emitted",
			slog.String("package", e.Package),
			slog.String("type", e.TypeName),
			slog.Int("bytes", e.Bytes),
		)
	case *IndexBuilt:
		l.logEvent("services index built", slog.Int("services", e.Services))
	case *ContainerBuilt:
		if e.Err != nil {
			l.logError("container construction failed", slogErr(e.Err))
		} else {
			l.logEvent("container built", slog.Int("services", e.Services))
		}
	}
}

type slogFieldSkip struct{}

// slogMaybeProvider omits the provider field when the load ran without
// provider attribution.
func slogMaybeProvider(name string) slog.Attr {
	if len(name) == 0 {
		return slog.Any("provider", slogFieldSkip{})
	}
	return slog.String("provider", name)
}

func slogErr(err error) slog.Attr {
	return slog.String("error", err.Error())
}
