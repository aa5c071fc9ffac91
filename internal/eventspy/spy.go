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

// Package eventspy provides a solderevent.Logger that records events for
// test assertions.
package eventspy

import (
	"reflect"

	"github.com/solder-di/solder/solderevent"
)

// Spy is a solderevent.Logger that captures emitted events. It may be used
// in tests of loader and compiler logging.
type Spy struct {
	events []solderevent.Event
}

var _ solderevent.Logger = (*Spy)(nil)

// LogEvent appends an Event.
func (s *Spy) LogEvent(event solderevent.Event) {
	s.events = append(s.events, event)
}

// Events returns a copy of all captured events.
func (s *Spy) Events() []solderevent.Event {
	events := make([]solderevent.Event, len(s.events))
	copy(events, s.events)
	return events
}

// EventTypes returns the names of all captured event types in order.
func (s *Spy) EventTypes() []string {
	types := make([]string, len(s.events))
	for i, e := range s.events {
		types[i] = reflect.TypeOf(e).Elem().Name()
	}
	return types
}

// Reset clears all captured events from the Spy.
func (s *Spy) Reset() {
	s.events = s.events[:0]
}
