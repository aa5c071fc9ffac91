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

// ParamsID is the well-known service id of the configuration parameter bag.
// Fields tagged `inject:"param:<key>"` resolve against the *ParamBag
// registered under this id.
const ParamsID = "parameters"

// ParamBag is an insertion-ordered set of named configuration values.
// Setting an existing key keeps its original position; the last value wins.
//
// A ParamBag is not safe for concurrent mutation. The intended shape is
// write-once during container assembly, read-only afterwards.
type ParamBag struct {
	keys   []string
	values map[string]interface{}
}

// NewParamBag returns an empty parameter bag.
func NewParamBag() *ParamBag {
	return &ParamBag{values: make(map[string]interface{})}
}

// Set stores value under key and returns the bag for chaining.
func (b *ParamBag) Set(key string, value interface{}) *ParamBag {
	if b.values == nil {
		b.values = make(map[string]interface{})
	}
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
	return b
}

// Get returns the value stored under key.
func (b *ParamBag) Get(key string) (interface{}, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Has reports whether key is defined.
func (b *ParamBag) Has(key string) bool {
	_, ok := b.values[key]
	return ok
}

// Keys returns all defined keys in insertion order.
func (b *ParamBag) Keys() []string {
	ks := make([]string, len(b.keys))
	copy(ks, b.keys)
	return ks
}

// Len returns the number of defined keys.
func (b *ParamBag) Len() int { return len(b.keys) }
