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

import "go.uber.org/zap"

// ZapLogger is an event logger that logs events through Zap.
type ZapLogger struct {
	Logger *zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

// LogEvent logs the given event to the underlying Zap logger.
func (l *ZapLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *DefinitionLoaded:
		l.Logger.Info("definition loaded",
			zap.String("provider", e.Provider),
			zap.String("id", e.ID),
			zap.String("kind", e.Kind),
			zap.Bool("shared", e.Shared),
		)
	case *DuplicateID:
		l.Logger.Warn("duplicate service id, last registration wins",
			zap.String("provider", e.Provider),
			zap.String("id", e.ID),
		)
	case *LoadFailed:
		l.Logger.Error("rejected service spec",
			zap.String("provider", e.Provider),
			zap.String("id", e.ID),
			zap.Error(e.Err),
		)
	case *ServiceCompiled:
		l.Logger.Info("service compiled",
			zap.String("id", e.ID),
			zap.String("kind", e.Kind),
			zap.Bool("shared", e.Shared),
		)
	case *CompileFailed:
		l.Logger.Error("compilation rejected", zap.Error(e.Err))
	case *SourceEmitted:
		l.Logger.Info("container source emitted",
			zap.String("package", e.Package),
			zap.String("type", e.TypeName),
			zap.Int("bytes", e.Bytes),
		)
	case *IndexBuilt:
		l.Logger.Info("services index built", zap.Int("services", e.Services))
	case *ContainerBuilt:
		if e.Err != nil {
			l.Logger.Error("container construction failed", zap.Error(e.Err))
		} else {
			l.Logger.Info("container built", zap.Int("services", e.Services))
		}
	}
}
