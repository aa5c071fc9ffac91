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

// Package iso8601 converts time.Duration values to and from ISO-8601
// duration designators ("PT1M30S").
//
// Only fixed-length units are supported: weeks and days on the date side
// (7 and 24 hours respectively), hours, minutes and fractional seconds on
// the time side. Calendar units (years, months) have no fixed length and
// are rejected.
package iso8601

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration is returned by Parse for text that is not a valid
// ISO-8601 duration designator.
var ErrInvalidDuration = errors.New("iso8601: invalid duration")

// FormatDuration renders d as an ISO-8601 designator. The zero duration
// renders as "PT0S" rather than the empty string; negative durations carry a
// leading minus sign; fractional seconds are trimmed of trailing zeros.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}

	var sb strings.Builder
	u := uint64(d)
	if d < 0 {
		sb.WriteByte('-')
		// Two's complement negation stays correct for math.MinInt64.
		u = -uint64(d)
	}
	sb.WriteString("PT")

	const (
		hour   = uint64(time.Hour)
		minute = uint64(time.Minute)
		second = uint64(time.Second)
	)

	if h := u / hour; h > 0 {
		sb.WriteString(strconv.FormatUint(h, 10))
		sb.WriteByte('H')
		u -= h * hour
	}
	if m := u / minute; m > 0 {
		sb.WriteString(strconv.FormatUint(m, 10))
		sb.WriteByte('M')
		u -= m * minute
	}

	sec := u / second
	frac := u % second
	if sec > 0 || frac > 0 {
		sb.WriteString(strconv.FormatUint(sec, 10))
		if frac > 0 {
			digits := strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
			sb.WriteByte('.')
			sb.WriteString(digits)
		}
		sb.WriteByte('S')
	}
	return sb.String()
}

// ParseDuration reads an ISO-8601 duration designator into a time.Duration.
// Accepted units are W, D, H, M and S; a fraction is allowed on the seconds
// component only. Years and months are calendar units without a fixed length
// and are rejected.
func ParseDuration(text string) (time.Duration, error) {
	s := text
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if len(s) < 2 || s[0] != 'P' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}
	s = s[1:]

	var (
		total    time.Duration
		sawUnit  bool
		timePart bool
	)
	add := func(n uint64, frac time.Duration, unit time.Duration) error {
		if n > uint64(math.MaxInt64)/uint64(unit) {
			return fmt.Errorf("%w: %q overflows", ErrInvalidDuration, text)
		}
		v := time.Duration(n) * unit
		if v > math.MaxInt64-frac || total > math.MaxInt64-(v+frac) {
			return fmt.Errorf("%w: %q overflows", ErrInvalidDuration, text)
		}
		total += v + frac
		sawUnit = true
		return nil
	}

	for len(s) > 0 {
		if s[0] == 'T' {
			if timePart {
				return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
			}
			timePart = true
			s = s[1:]
			continue
		}

		i := 0
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
			i++
		}
		if i == 0 || i == len(s) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
		}
		num, unit := s[:i], s[i]
		s = s[i+1:]

		var frac time.Duration
		if dot := strings.IndexByte(num, '.'); dot >= 0 {
			if unit != 'S' || !timePart {
				return 0, fmt.Errorf("%w: fraction allowed on seconds only in %q", ErrInvalidDuration, text)
			}
			fracDigits := num[dot+1:]
			num = num[:dot]
			if fracDigits == "" || len(fracDigits) > 9 {
				return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
			}
			f, err := strconv.ParseUint(fracDigits+strings.Repeat("0", 9-len(fracDigits)), 10, 64)
			if err != nil {
				return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
			}
			frac = time.Duration(f)
		}
		n, err := strconv.ParseUint(num, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
		}

		switch {
		case !timePart && unit == 'W':
			err = add(n, frac, 7*24*time.Hour)
		case !timePart && unit == 'D':
			err = add(n, frac, 24*time.Hour)
		case !timePart && (unit == 'Y' || unit == 'M'):
			return 0, fmt.Errorf("%w: calendar unit %q in %q has no fixed length", ErrInvalidDuration, string(unit), text)
		case timePart && unit == 'H':
			err = add(n, frac, time.Hour)
		case timePart && unit == 'M':
			err = add(n, frac, time.Minute)
		case timePart && unit == 'S':
			err = add(n, frac, time.Second)
		default:
			return 0, fmt.Errorf("%w: unexpected unit %q in %q", ErrInvalidDuration, string(unit), text)
		}
		if err != nil {
			return 0, err
		}
	}

	if !sawUnit {
		return 0, fmt.Errorf("%w: %q has no components", ErrInvalidDuration, text)
	}
	if neg {
		total = -total
	}
	return total, nil
}
