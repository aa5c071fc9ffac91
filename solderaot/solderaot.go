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

// Package solderaot holds the reconstruction helpers that generated
// container source calls to rebuild temporal and URI values from their
// canonical text forms.
//
// Every argument these helpers receive was emitted by the compiler from a
// value that already round-tripped, so a parse failure here is a compiler
// bug, not a runtime condition. The helpers therefore panic instead of
// returning errors, in the manner of regexp.MustCompile.
package solderaot

import (
	"fmt"
	"net/url"
	"time"

	"github.com/solder-di/solder/internal/iso8601"
)

// Time rebuilds a timestamp from RFC 3339 text with nanosecond precision.
// The zone offset and sub-second fraction are preserved exactly.
func Time(text string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		panic(fmt.Sprintf("solderaot: invalid generated timestamp %q: %v", text, err))
	}
	return t
}

// Duration rebuilds a duration from its canonical ISO-8601 designator.
func Duration(text string) time.Duration {
	d, err := iso8601.ParseDuration(text)
	if err != nil {
		panic(fmt.Sprintf("solderaot: invalid generated duration %q: %v", text, err))
	}
	return d
}

// TZ rebuilds a timezone. An empty name or "UTC" yields time.UTC; IANA
// names resolve through the host database; fixed-offset names of the forms
// "UTC+7", "UTC-03:30" and "+07:00" yield fixed zones.
func TZ(name string) *time.Location {
	if name == "" || name == "UTC" {
		return time.UTC
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	if offset, ok := fixedZoneOffset(name); ok {
		return time.FixedZone(name, offset)
	}
	panic(fmt.Sprintf("solderaot: unknown generated timezone %q", name))
}

// URI rebuilds a URL from its string form.
func URI(text string) *url.URL {
	u, err := url.Parse(text)
	if err != nil {
		panic(fmt.Sprintf("solderaot: invalid generated URI %q: %v", text, err))
	}
	return u
}

// fixedZoneOffset parses fixed-offset zone names: an optional "UTC" prefix,
// a sign, hours, and optional minutes ("UTC+7", "-03:30", "+0700").
func fixedZoneOffset(name string) (int, bool) {
	s := name
	if len(s) >= 3 && s[:3] == "UTC" {
		s = s[3:]
	}
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	s = s[1:]

	digits := func(str string) (int, bool) {
		n := 0
		for _, r := range str {
			if r < '0' || r > '9' {
				return 0, false
			}
			n = n*10 + int(r-'0')
		}
		return n, len(str) > 0
	}

	var hh, mm int
	var ok bool
	switch {
	case len(s) <= 2: // H or HH
		hh, ok = digits(s)
	case len(s) == 4: // HHMM
		if hh, ok = digits(s[:2]); ok {
			mm, ok = digits(s[2:])
		}
	case len(s) == 5 && s[2] == ':': // HH:MM
		if hh, ok = digits(s[:2]); ok {
			mm, ok = digits(s[3:])
		}
	default:
		return 0, false
	}
	if !ok || hh > 23 || mm > 59 {
		return 0, false
	}
	return sign * (hh*3600 + mm*60), true
}
