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
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/solder-di/solder/internal/eventspy"
	"github.com/solder-di/solder/solderevent"
)

type loadMailer struct {
	Host string
	Port int
}

// Clone is a factory method exercised through the "@service" target form.
func (m *loadMailer) Clone() *loadMailer {
	clone := *m
	return &clone
}

type loadMailerFactory struct{}

func (loadMailerFactory) New() *loadMailer {
	return &loadMailer{Host: "localhost", Port: 25}
}

func (loadMailerFactory) NewChecked() (*loadMailer, error) {
	return &loadMailer{Host: "checked"}, nil
}

func (loadMailerFactory) FromContainer(lk Lookup) (*loadMailer, error) {
	host, err := lk.Get("default.host")
	if err != nil {
		return nil, err
	}
	return &loadMailer{Host: host.(string)}, nil
}

func (loadMailerFactory) Broken(n int) int { return n }

func (loadMailerFactory) Pair() (int, string) { return 0, "" }

type loadServer struct {
	M    *loadMailer
	Name string
	Port int
}

func loadRegistry(t *testing.T) *TypeRegistry {
	t.Helper()
	reg := NewTypeRegistry()
	Register[loadMailer](reg)
	Register[loadMailerFactory](reg)
	Register[loadServer](reg)
	return reg
}

func TestLoadAutowire(t *testing.T) {
	t.Parallel()

	specs := NewSpecMap().Set("mailer", RawSpec{
		Class:    "solder.loadMailer",
		Autowire: true,
	})

	defs, err := Load(specs, WithTypes(loadRegistry(t)))
	require.NoError(t, err)
	require.Equal(t, 1, defs.Len())

	d, ok := defs.Get("mailer")
	require.True(t, ok)
	aw, ok := d.(*AutowireDefinition)
	require.True(t, ok)
	assert.Equal(t, "solder.loadMailer", TypeKey(aw.Type()))
	assert.True(t, aw.Shared())
}

func TestLoadIDDenotesClass(t *testing.T) {
	t.Parallel()

	// A spec without a class still loads when the id itself names a
	// registered type.
	specs := NewSpecMap().Set("solder.loadMailer", RawSpec{Autowire: true})

	defs, err := Load(specs, WithTypes(loadRegistry(t)))
	require.NoError(t, err)

	d, ok := defs.Get("solder.loadMailer")
	require.True(t, ok)
	assert.Equal(t, KindAutowire, d.Kind())
}

func TestLoadSharedSpellings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give RawSpec
		want bool
	}{
		{desc: "default", give: RawSpec{Autowire: true}, want: true},
		{desc: "shared false", give: RawSpec{Autowire: true, Shared: boolp(false)}, want: false},
		{desc: "singleton false", give: RawSpec{Autowire: true, Singleton: boolp(false)}, want: false},
		{desc: "bind false", give: RawSpec{Autowire: true, Bind: boolp(false)}, want: false},
		{desc: "bind true", give: RawSpec{Autowire: true, Bind: boolp(true)}, want: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			spec := tt.give
			spec.Class = "solder.loadMailer"
			defs, err := Load(NewSpecMap().Set("m", spec), WithTypes(loadRegistry(t)))
			require.NoError(t, err)

			d, ok := defs.Get("m")
			require.True(t, ok)
			assert.Equal(t, tt.want, d.Shared())
		})
	}
}

func TestLoadFactoryStringForm(t *testing.T) {
	t.Parallel()

	t.Run("TypeMethod", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("mailer", RawSpec{
			Factory: "solder.loadMailerFactory::New",
		})
		defs, err := Load(specs, WithTypes(loadRegistry(t)))
		require.NoError(t, err)

		c, err := NewContainer(defs)
		require.NoError(t, err)
		v, err := c.Get("mailer")
		require.NoError(t, err)
		assert.Equal(t, &loadMailer{Host: "localhost", Port: 25}, v)
	})

	t.Run("TwoResultForm", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("mailer", RawSpec{
			Factory: "solder.loadMailerFactory::NewChecked",
		})
		defs, err := Load(specs, WithTypes(loadRegistry(t)))
		require.NoError(t, err)

		c, err := NewContainer(defs)
		require.NoError(t, err)
		v, err := c.Get("mailer")
		require.NoError(t, err)
		assert.Equal(t, "checked", v.(*loadMailer).Host)
	})

	t.Run("LookupArgument", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("mailer", RawSpec{
			Factory: "solder.loadMailerFactory::FromContainer",
		})
		defs, err := Load(specs, WithTypes(loadRegistry(t)))
		require.NoError(t, err)
		defs.Set(Value("default.host", "smtp.internal"))

		c, err := NewContainer(defs)
		require.NoError(t, err)
		v, err := c.Get("mailer")
		require.NoError(t, err)
		assert.Equal(t, "smtp.internal", v.(*loadMailer).Host)
	})

	t.Run("Rejects", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			desc    string
			factory interface{}
			wantErr string
		}{
			{desc: "no separator", factory: "loadMailerFactory.New", wantErr: `must have the form "pkg.Type::Method"`},
			{desc: "empty method", factory: "solder.loadMailerFactory::", wantErr: `must have the form`},
			{desc: "unknown type", factory: "solder.Nope::New", wantErr: "not a registered type"},
			{desc: "unknown method", factory: "solder.loadMailerFactory::Missing", wantErr: "has no method Missing"},
			{desc: "bad argument", factory: "solder.loadMailerFactory::Broken", wantErr: "must accept no arguments or a single solder.Lookup"},
			{desc: "bad results", factory: "solder.loadMailerFactory::Pair", wantErr: "must return T or (T, error)"},
			{desc: "not a factory shape", factory: 42, wantErr: "factory must be"},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.desc, func(t *testing.T) {
				t.Parallel()

				specs := NewSpecMap().Set("m", RawSpec{Factory: tt.factory})
				_, err := Load(specs, WithTypes(loadRegistry(t)))
				require.Error(t, err)

				var specErr *SpecError
				require.ErrorAs(t, err, &specErr)
				assert.Equal(t, "m", specErr.ID)
				assert.Contains(t, specErr.Reason, tt.wantErr)
			})
		}
	})
}

func TestLoadFactoryPairForm(t *testing.T) {
	t.Parallel()

	t.Run("TypeTarget", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("mailer", RawSpec{
			Factory: []interface{}{"solder.loadMailerFactory", "NewChecked"},
		})
		defs, err := Load(specs, WithTypes(loadRegistry(t)))
		require.NoError(t, err)

		c, err := NewContainer(defs)
		require.NoError(t, err)
		v, err := c.Get("mailer")
		require.NoError(t, err)
		assert.Equal(t, "checked", v.(*loadMailer).Host)
	})

	t.Run("StringSliceTarget", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("mailer", RawSpec{
			Factory: []string{"solder.loadMailerFactory", "New"},
		})
		defs, err := Load(specs, WithTypes(loadRegistry(t)))
		require.NoError(t, err)

		c, err := NewContainer(defs)
		require.NoError(t, err)
		_, err = c.Get("mailer")
		assert.NoError(t, err)
	})

	t.Run("ServiceTarget", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("copy", RawSpec{
			Factory: []interface{}{"@base", "Clone"},
		})
		defs, err := Load(specs, WithTypes(loadRegistry(t)))
		require.NoError(t, err)

		base := &loadMailer{Host: "origin"}
		defs.Set(Value("base", base))

		c, err := NewContainer(defs)
		require.NoError(t, err)
		v, err := c.Get("copy")
		require.NoError(t, err)
		got := v.(*loadMailer)
		assert.NotSame(t, base, got)
		assert.Equal(t, "origin", got.Host)
	})

	t.Run("ServiceTargetFailuresDeferToLookup", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().
			Set("orphan", RawSpec{Factory: []interface{}{"@missing", "Clone"}}).
			Set("bad", RawSpec{Factory: []interface{}{"@base", "NoSuchMethod"}})
		defs, err := Load(specs, WithTypes(loadRegistry(t)))
		require.NoError(t, err, "the target service is only known at call time")

		defs.Set(Value("base", &loadMailer{}))
		c, err := NewContainer(defs)
		require.NoError(t, err)

		_, err = c.Get("orphan")
		require.Error(t, err)
		assert.ErrorContains(t, err, `factory for "orphan"`)
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = c.Get("bad")
		require.Error(t, err)
		assert.ErrorContains(t, err, "has no method NoSuchMethod")
	})

	t.Run("Rejects", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("m", RawSpec{
			Factory: []interface{}{"only-one"},
		})
		_, err := Load(specs, WithTypes(loadRegistry(t)))
		assert.ErrorContains(t, err, "must be [target, method]")

		specs = NewSpecMap().Set("m", RawSpec{
			Factory: []interface{}{"a", 3},
		})
		_, err = Load(specs, WithTypes(loadRegistry(t)))
		assert.ErrorContains(t, err, "two non-empty strings")
	})
}

func TestLoadFactoryFunc(t *testing.T) {
	t.Parallel()

	t.Run("FactoryFunc", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("m", RawSpec{
			Factory: FactoryFunc(func(Lookup) (interface{}, error) { return 7, nil }),
		})
		defs, err := Load(specs)
		require.NoError(t, err)

		c, err := NewContainer(defs)
		require.NoError(t, err)
		v, err := c.Get("m")
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("PlainFunc", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("m", RawSpec{
			Factory: func() *loadMailer { return &loadMailer{Host: "fn"} },
		})
		defs, err := Load(specs)
		require.NoError(t, err)

		c, err := NewContainer(defs)
		require.NoError(t, err)
		v, err := c.Get("m")
		require.NoError(t, err)
		assert.Equal(t, "fn", v.(*loadMailer).Host)
	})

	t.Run("BadSignature", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("m", RawSpec{
			Factory: func(n int) int { return n },
		})
		_, err := Load(specs)
		assert.ErrorContains(t, err, "must accept no arguments or a single solder.Lookup")
	})

	t.Run("StrictRejectsClosures", func(t *testing.T) {
		t.Parallel()

		forms := []interface{}{
			FactoryFunc(func(Lookup) (interface{}, error) { return 1, nil }),
			func(Lookup) (interface{}, error) { return 1, nil },
			func() *loadMailer { return nil },
		}
		for _, f := range forms {
			specs := NewSpecMap().Set("m", RawSpec{Factory: f})
			_, err := Load(specs, Strict())
			assert.ErrorContains(t, err, "strict mode")
		}
	})

	t.Run("StrictKeepsMethodForms", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("m", RawSpec{
			Factory: "solder.loadMailerFactory::New",
		})
		_, err := Load(specs, WithTypes(loadRegistry(t)), Strict())
		assert.NoError(t, err, "method references survive compilation")
	})
}

func TestLoadArguments(t *testing.T) {
	t.Parallel()

	t.Run("PositionalFill", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("server", RawSpec{
			Class:     "solder.loadServer",
			Arguments: []interface{}{"@mailer", "api", 9000},
		})
		defs, err := Load(specs, WithTypes(loadRegistry(t)))
		require.NoError(t, err)

		mailer := &loadMailer{Host: "smtp"}
		defs.Set(Value("mailer", mailer))

		c, err := NewContainer(defs)
		require.NoError(t, err)
		v, err := c.Get("server")
		require.NoError(t, err)

		srv := v.(*loadServer)
		assert.Same(t, mailer, srv.M)
		assert.Equal(t, "api", srv.Name)
		assert.Equal(t, 9000, srv.Port)
	})

	t.Run("FewerArgumentsThanFields", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("server", RawSpec{
			Class:     "solder.loadServer",
			Arguments: []interface{}{nil, "api"},
		})
		defs, err := Load(specs, WithTypes(loadRegistry(t)))
		require.NoError(t, err)

		c, err := NewContainer(defs)
		require.NoError(t, err)
		v, err := c.Get("server")
		require.NoError(t, err)

		srv := v.(*loadServer)
		assert.Nil(t, srv.M, "nil argument leaves a nilable field nil")
		assert.Equal(t, "api", srv.Name)
		assert.Zero(t, srv.Port, "unfilled fields keep their zero value")
	})

	t.Run("NumericConversion", func(t *testing.T) {
		t.Parallel()

		type gauge struct {
			Ratio float64
		}
		reg := NewTypeRegistry()
		key := Register[gauge](reg)

		specs := NewSpecMap().Set("g", RawSpec{
			Class:     key,
			Arguments: []interface{}{2},
		})
		defs, err := Load(specs, WithTypes(reg))
		require.NoError(t, err)

		c, err := NewContainer(defs)
		require.NoError(t, err)
		v, err := c.Get("g")
		require.NoError(t, err)
		assert.Equal(t, 2.0, v.(*gauge).Ratio, "untyped spec numbers convert to the field type")
	})

	t.Run("TooManyArguments", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("server", RawSpec{
			Class:     "solder.loadServer",
			Arguments: []interface{}{nil, "a", 1, "extra"},
		})
		_, err := Load(specs, WithTypes(loadRegistry(t)))
		assert.ErrorContains(t, err, "spec passes 4 arguments")
	})

	t.Run("MissingReferenceDefersToLookup", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("server", RawSpec{
			Class:     "solder.loadServer",
			Arguments: []interface{}{"@gone"},
		})
		defs, err := Load(specs, WithTypes(loadRegistry(t)))
		require.NoError(t, err)

		c, err := NewContainer(defs)
		require.NoError(t, err)
		_, err = c.Get("server")
		require.Error(t, err)
		assert.ErrorContains(t, err, `argument 0 of service "server"`)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("StrictRejectsRawStructs", func(t *testing.T) {
		t.Parallel()

		specs := NewSpecMap().Set("server", RawSpec{
			Class:     "solder.loadServer",
			Arguments: []interface{}{&loadMailer{}},
		})
		_, err := Load(specs, WithTypes(loadRegistry(t)), Strict())
		require.Error(t, err)
		assert.ErrorContains(t, err, "no source form under strict mode")

		// The same spec with a reference is fine under strict.
		specs = NewSpecMap().Set("server", RawSpec{
			Class:     "solder.loadServer",
			Arguments: []interface{}{"@mailer", "api", 9000},
		})
		_, err = Load(specs, WithTypes(loadRegistry(t)), Strict())
		assert.NoError(t, err)
	})
}

func TestLoadMutuallyExclusiveForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc    string
		give    RawSpec
		wantErr string
	}{
		{
			desc:    "autowire and factory",
			give:    RawSpec{Autowire: true, Factory: "solder.loadMailerFactory::New"},
			wantErr: "autowire and factory are mutually exclusive",
		},
		{
			desc:    "autowire and arguments",
			give:    RawSpec{Class: "solder.loadServer", Autowire: true, Arguments: []interface{}{1}},
			wantErr: "autowire and arguments are mutually exclusive",
		},
		{
			desc:    "factory and arguments",
			give:    RawSpec{Factory: "solder.loadMailerFactory::New", Arguments: []interface{}{1}},
			wantErr: "factory services take no positional arguments",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			_, err := Load(NewSpecMap().Set("m", tt.give), WithTypes(loadRegistry(t)))
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadClassValidation(t *testing.T) {
	t.Parallel()

	t.Run("NoClass", func(t *testing.T) {
		t.Parallel()

		_, err := Load(NewSpecMap().Set("m", RawSpec{Autowire: true}), WithTypes(loadRegistry(t)))
		assert.ErrorContains(t, err, "names no class")
	})

	t.Run("UnknownClass", func(t *testing.T) {
		t.Parallel()

		_, err := Load(
			NewSpecMap().Set("m", RawSpec{Class: "app.Gone", Autowire: true}),
			WithTypes(loadRegistry(t)))
		assert.ErrorContains(t, err, `class "app.Gone" is not a registered type`)
	})

	t.Run("NonStructClass", func(t *testing.T) {
		t.Parallel()

		reg := loadRegistry(t)
		require.NoError(t, reg.RegisterNamed("app.Level", reflect.TypeOf("")))

		_, err := Load(
			NewSpecMap().Set("m", RawSpec{Class: "app.Level", Autowire: true}),
			WithTypes(reg))
		assert.ErrorContains(t, err, "not a struct")
	})

	t.Run("NoRegistryAtAll", func(t *testing.T) {
		t.Parallel()

		_, err := Load(NewSpecMap().Set("m", RawSpec{Class: "app.X", Autowire: true}))
		assert.ErrorContains(t, err, "not a registered type")
	})
}

func TestLoadAliases(t *testing.T) {
	t.Parallel()

	specs := NewSpecMap().Set("mailer", RawSpec{
		Class:    "solder.loadMailer",
		Autowire: true,
		Alias:    []interface{}{"mail", "post"},
	})

	defs, err := Load(specs, WithTypes(loadRegistry(t)))
	require.NoError(t, err)
	assert.Equal(t, []string{"mailer", "mail", "post"}, defs.IDs())

	d, ok := defs.Get("mail")
	require.True(t, ok)
	alias, ok := d.(*AliasDefinition)
	require.True(t, ok)
	assert.Equal(t, "mailer", alias.Target())
}

func TestLoadAggregatesSpecErrors(t *testing.T) {
	t.Parallel()

	var spy eventspy.Spy
	specs := NewSpecMap().
		Set("bad1", RawSpec{Autowire: true}).
		Set("good", RawSpec{Class: "solder.loadMailer", Autowire: true}).
		Set("bad2", RawSpec{Factory: "nope"})

	defs, err := Load(specs, WithTypes(loadRegistry(t)), WithLogger(&spy))
	require.Error(t, err)
	assert.Nil(t, defs)

	errs := multierr.Errors(err)
	assert.Len(t, errs, 2, "one pass reports every offending entry")

	var failed, loaded []string
	for _, e := range spy.Events() {
		switch e := e.(type) {
		case *solderevent.LoadFailed:
			failed = append(failed, e.ID)
		case *solderevent.DefinitionLoaded:
			loaded = append(loaded, e.ID)
		}
	}
	assert.Equal(t, []string{"bad1", "bad2"}, failed)
	assert.Equal(t, []string{"good"}, loaded)
}

func TestLoadDuplicateIDs(t *testing.T) {
	t.Parallel()

	t.Run("SpecMapOverwrite", func(t *testing.T) {
		t.Parallel()

		var spy eventspy.Spy
		specs := NewSpecMap().
			Set("m", RawSpec{Class: "solder.loadMailer", Autowire: true}).
			Set("m", RawSpec{Class: "solder.loadMailer", Autowire: true, Singleton: boolp(false)})

		defs, err := Load(specs, WithTypes(loadRegistry(t)), WithLogger(&spy))
		require.NoError(t, err)

		d, ok := defs.Get("m")
		require.True(t, ok)
		assert.False(t, d.Shared(), "the last registration wins")

		assert.Contains(t, spy.EventTypes(), "DuplicateID")
	})

	t.Run("AliasCollidesWithLaterEntry", func(t *testing.T) {
		t.Parallel()

		var spy eventspy.Spy
		specs := NewSpecMap().
			Set("x", RawSpec{Class: "solder.loadMailer", Autowire: true, Alias: "y"}).
			Set("y", RawSpec{Class: "solder.loadMailer", Autowire: true})

		defs, err := Load(specs, WithTypes(loadRegistry(t)), WithLogger(&spy))
		require.NoError(t, err)

		// The alias was registered first; the concrete definition replaced
		// it but kept its position.
		assert.Equal(t, []string{"x", "y"}, defs.IDs())
		d, ok := defs.Get("y")
		require.True(t, ok)
		assert.Equal(t, KindAutowire, d.Kind())

		assert.Contains(t, spy.EventTypes(), "DuplicateID")
	})
}

func TestLoadProviderAttribution(t *testing.T) {
	t.Parallel()

	var spy eventspy.Spy
	specs := NewSpecMap().
		Set("ok", RawSpec{Class: "solder.loadMailer", Autowire: true}).
		Set("bad", RawSpec{Autowire: true})

	_, err := Load(specs,
		WithTypes(loadRegistry(t)),
		WithProvider("services.yaml"),
		WithProviders(map[string]string{"bad": "extra.yaml"}),
		WithLogger(&spy),
	)
	require.Error(t, err)

	var specErr *SpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, "extra.yaml", specErr.Provider)
	assert.Contains(t, specErr.Error(), "(provider extra.yaml)")

	for _, e := range spy.Events() {
		if loaded, ok := e.(*solderevent.DefinitionLoaded); ok {
			assert.Equal(t, "services.yaml", loaded.Provider)
		}
	}
}

func TestLoadNilSpecs(t *testing.T) {
	t.Parallel()

	defs, err := Load(nil)
	require.NoError(t, err)
	assert.Zero(t, defs.Len())
}

func TestLoadYAMLEndToEnd(t *testing.T) {
	t.Parallel()

	doc := `
services:
  mailer:
    class: solder.loadMailer
    factory: "solder.loadMailerFactory::New"
  server:
    class: solder.loadServer
    arguments: ["@mailer", "api", 9000]
    alias: app
`
	specs, err := ParseYAML([]byte(doc))
	require.NoError(t, err)

	defs, err := Load(specs, WithTypes(loadRegistry(t)))
	require.NoError(t, err)

	c, err := NewContainer(defs)
	require.NoError(t, err)

	v, err := c.Get("app")
	require.NoError(t, err)
	srv := v.(*loadServer)
	require.NotNil(t, srv.M)
	assert.Equal(t, "localhost", srv.M.Host)
	assert.Equal(t, "api", srv.Name)
	assert.Equal(t, 9000, srv.Port)
}
