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
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportOne(t *testing.T, v interface{}) string {
	t.Helper()
	expr, err := NewExporter().Export(v)
	require.NoError(t, err)
	return expr
}

func TestExportScalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give interface{}
		want string
	}{
		{desc: "nil", give: nil, want: "nil"},
		{desc: "bool", give: true, want: "true"},
		{desc: "string", give: "hi", want: `"hi"`},
		{desc: "string quoting", give: "a\"b\n", want: `"a\"b\n"`},
		{desc: "int stays bare", give: 42, want: "42"},
		{desc: "negative int", give: -7, want: "-7"},
		{desc: "int8 keeps its width", give: int8(1), want: "int8(1)"},
		{desc: "int64", give: int64(-9), want: "int64(-9)"},
		{desc: "uint8", give: uint8(255), want: "uint8(255)"},
		{desc: "uint", give: uint(3), want: "uint(3)"},
		{desc: "float64 forces the point", give: 2.0, want: "2.0"},
		{desc: "float64 fraction", give: 0.5, want: "0.5"},
		{desc: "float64 exponent form", give: 1e21, want: "1e+21"},
		{desc: "float32 wraps", give: float32(1.5), want: "float32(1.5)"},
		{desc: "float32 whole number", give: float32(2), want: "float32(2.0)"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exportOne(t, tt.give))
		})
	}
}

func TestExportNonFiniteFloats(t *testing.T) {
	t.Parallel()

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewExporter().Export(f)
		require.Error(t, err)

		var exportErr *ExportError
		require.ErrorAs(t, err, &exportErr)
		assert.Contains(t, exportErr.Reason, "has no literal form")
	}

	// Non-finite members poison the whole collection.
	_, err := NewExporter().Export([]float64{1, math.NaN()})
	assert.ErrorContains(t, err, "has no literal form")
}

func TestExportCollections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give interface{}
		want string
	}{
		{desc: "string slice", give: []string{"a", "b"}, want: `[]string{"a", "b"}`},
		{desc: "nil slice keeps its type", give: []string(nil), want: "[]string(nil)"},
		{desc: "empty slice", give: []int{}, want: "[]int{}"},
		{desc: "array", give: [2]int{1, 2}, want: "[2]int{1, 2}"},
		{
			desc: "interface elements",
			give: []interface{}{1, "a", nil, true},
			want: `[]interface{}{1, "a", nil, true}`,
		},
		{
			desc: "nested slices",
			give: [][]int{{1}, {2, 3}},
			want: "[][]int{[]int{1}, []int{2, 3}}",
		},
		{
			desc: "typed widths survive nesting",
			give: []int8{1, 2},
			want: "[]int8{int8(1), int8(2)}",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exportOne(t, tt.give))
		})
	}
}

func TestExportMaps(t *testing.T) {
	t.Parallel()

	t.Run("SortedByKeyLiteral", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t,
			`map[string]int{"a": 1, "b": 2, "c": 3}`,
			exportOne(t, map[string]int{"b": 2, "c": 3, "a": 1}))
	})

	t.Run("IntKeysSortLexically", func(t *testing.T) {
		t.Parallel()
		// Keys order by their rendered literal, not numerically.
		assert.Equal(t,
			`map[int]string{1: "x", 10: "y", 2: "z"}`,
			exportOne(t, map[int]string{2: "z", 10: "y", 1: "x"}))
	})

	t.Run("NilMap", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "map[string]int(nil)", exportOne(t, map[string]int(nil)))
	})

	t.Run("NestedValues", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t,
			`map[string][]string{"hosts": []string{"a", "b"}}`,
			exportOne(t, map[string][]string{"hosts": {"a", "b"}}))
	})
}

func TestExportTemporal(t *testing.T) {
	t.Parallel()

	t.Run("Duration", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, `solderaot.Duration("PT1M30S")`, exportOne(t, 90*time.Second))
		assert.Equal(t, `solderaot.Duration("PT0S")`, exportOne(t, time.Duration(0)))
		assert.Equal(t, `solderaot.Duration("PT0.5S")`, exportOne(t, 500*time.Millisecond))
	})

	t.Run("TimeKeepsOffsetAndFraction", func(t *testing.T) {
		t.Parallel()
		at := time.Date(2024, 3, 1, 10, 30, 0, 500_000_000, time.FixedZone("", 2*3600))
		assert.Equal(t, `solderaot.Time("2024-03-01T10:30:00.5+02:00")`, exportOne(t, at))
	})

	t.Run("TimeUTC", func(t *testing.T) {
		t.Parallel()
		at := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
		assert.Equal(t, `solderaot.Time("2024-03-01T10:30:00Z")`, exportOne(t, at))
	})

	t.Run("Location", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, `solderaot.TZ("UTC")`, exportOne(t, time.UTC))
		assert.Equal(t, `solderaot.TZ("UTC+7")`, exportOne(t, time.FixedZone("UTC+7", 7*3600)))
		assert.Equal(t, "nil", exportOne(t, (*time.Location)(nil)))
	})

	t.Run("LocalZoneHasNoPortableForm", func(t *testing.T) {
		t.Parallel()
		_, err := NewExporter().Export(time.Local)
		assert.ErrorContains(t, err, "host-dependent")
	})

	t.Run("URL", func(t *testing.T) {
		t.Parallel()
		u, err := url.Parse("https://example.com/a?b=1#frag")
		require.NoError(t, err)

		assert.Equal(t, `solderaot.URI("https://example.com/a?b=1#frag")`, exportOne(t, u))
		assert.Equal(t, `*solderaot.URI("https://example.com/a?b=1#frag")`, exportOne(t, *u))
		assert.Equal(t, "nil", exportOne(t, (*url.URL)(nil)))
	})
}

func TestExportParamBag(t *testing.T) {
	t.Parallel()

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "solder.NewParamBag()", exportOne(t, NewParamBag()))
	})

	t.Run("Nil", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "nil", exportOne(t, (*ParamBag)(nil)))
	})

	t.Run("ChainedSetsKeepInsertionOrder", func(t *testing.T) {
		t.Parallel()
		bag := NewParamBag().
			Set("smtp.addr", "mail:25").
			Set("retries", 3).
			Set("debug", nil)
		assert.Equal(t,
			`solder.NewParamBag().Set("smtp.addr", "mail:25").Set("retries", 3).Set("debug", nil)`,
			exportOne(t, bag))
	})

	t.Run("BadParameterNamesTheKey", func(t *testing.T) {
		t.Parallel()
		bag := NewParamBag().Set("ch", make(chan int))
		_, err := NewExporter().Export(bag)
		require.Error(t, err)
		assert.ErrorContains(t, err, `parameter "ch"`)
	})
}

func TestExportNamedBasicTypes(t *testing.T) {
	t.Parallel()

	type logLevel string
	type retryCount int
	type ratio float64

	t.Run("String", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, `solder.logLevel("info")`, exportOne(t, logLevel("info")))
	})

	t.Run("Int", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "solder.retryCount(3)", exportOne(t, retryCount(3)))
	})

	t.Run("Float", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "solder.ratio(2.0)", exportOne(t, ratio(2)))
	})

	t.Run("Stdlib", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "time.Month(3)", exportOne(t, time.March))
	})
}

func TestExportRejects(t *testing.T) {
	t.Parallel()

	type point struct{ X int }

	tests := []struct {
		desc string
		give interface{}
	}{
		{desc: "named struct", give: point{X: 1}},
		{desc: "unnamed struct", give: struct{}{}},
		{desc: "pointer", give: new(int)},
		{desc: "channel", give: make(chan int)},
		{desc: "func", give: func() {}},
		{desc: "complex", give: complex128(1i)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			_, err := NewExporter().Export(tt.give)
			require.Error(t, err)

			var exportErr *ExportError
			assert.ErrorAs(t, err, &exportErr)
		})
	}
}

func TestExportDepthLimit(t *testing.T) {
	t.Parallel()

	cyclic := make([]interface{}, 1)
	cyclic[0] = cyclic

	_, err := NewExporter().Export(cyclic)
	require.Error(t, err)
	assert.ErrorContains(t, err, "nests too deeply")
}

func TestExporterImports(t *testing.T) {
	t.Parallel()

	t.Run("RecordsAndSorts", func(t *testing.T) {
		t.Parallel()

		type logLevel string
		e := NewExporter()

		_, err := e.Export(90 * time.Second)
		require.NoError(t, err)
		_, err = e.Export(NewParamBag().Set("k", 1))
		require.NoError(t, err)
		_, err = e.Export(logLevel("x"))
		require.NoError(t, err)

		assert.Equal(t, []Import{
			{Path: "github.com/solder-di/solder", Ident: "solder"},
			{Path: "github.com/solder-di/solder/solderaot", Ident: "solderaot"},
		}, e.Imports())
	})

	t.Run("DeduplicatesPaths", func(t *testing.T) {
		t.Parallel()

		e := NewExporter()
		_, err := e.Export(time.Second)
		require.NoError(t, err)
		_, err = e.Export(time.Minute)
		require.NoError(t, err)

		assert.Len(t, e.Imports(), 1)
	})
}

func TestImportSetAliasesCollisions(t *testing.T) {
	t.Parallel()

	s := newImportSet()
	assert.Equal(t, "log", s.add("log"))
	assert.Equal(t, "log2", s.add("github.com/other/log"))
	assert.Equal(t, "log", s.add("log"), "repeat adds reuse the first identifier")
	assert.Equal(t, "log3", s.add("example.com/third/log"))

	assert.Equal(t, []Import{
		{Path: "example.com/third/log", Ident: "log3"},
		{Path: "github.com/other/log", Ident: "log2"},
		{Path: "log", Ident: "log"},
	}, s.sorted())
}

func TestPkgBaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give string
		want string
	}{
		{give: "strconv", want: "strconv"},
		{give: "net/url", want: "url"},
		{give: "github.com/go-redis/redis/v8", want: "redis"},
		{give: "gopkg.in/yaml.v3", want: "yaml"},
		{give: "github.com/solder-di/solder/solderaot", want: "solderaot"},
		{give: "example.com/x/v2", want: "x"},
		{give: "v9", want: "v9"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pkgBaseName(tt.give))
		})
	}
}
