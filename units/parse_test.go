package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/unitconv/units"
)

func TestParse_CanonicalForms(t *testing.T) {
	cs := defaultConverters(t)
	tests := []struct {
		in        string
		symbol    string
		unicode   string
		dimension string
	}{
		{"kg*m/s2", "kg*m/s2", "kg·m/s²", "MLT-2"},
		{"J/(mol*K)", "J/(mol*K)", "J/(mol·K)", "ML2T-2H-1N-1"},
		{"m·s⁻¹", "m/s", "m/s", "LT-1"},
		{"m*s-1", "m/s", "m/s", "LT-1"},
		{"1/s", "1/s", "1/s", "T-1"},
		{"m/s/kg", "m/(s*kg)", "m/(s·kg)", "M-1LT-1"},
		{"W/m2/K", "W/(m2*K)", "W/(m²·K)", "MT-3H-1"},
		{"1/s/m", "1/(s*m)", "1/(s·m)", "L-1T-1"},
		{"km2", "km2", "km²", "L2"},
		{"m*m", "m2", "m²", "L2"},
		{"us", "us", "μs", "T"},
		{"μs", "us", "μs", "T"},
		{"µs", "us", "μs", "T"},
		{"kΩ", "kohm", "kΩ", "ML2T-3I-2"},
		{"°", "deg", "°", "A"},
		{"$", "USD", "USD", "C"},
		{"l", "L", "L", "L3"},
		{"KiB", "KiB", "KiB", "D"},
		{"dam", "dam", "dam", "L"},
		{"min", "min", "min", "T"},
		{"m/m", "", "", "1"},
		{"", "", "", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := cs.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.symbol, u.Symbol())
			assert.Equal(t, tt.unicode, u.UnicodeSymbol())
			assert.Equal(t, tt.dimension, u.Dimension())
		})
	}
}

func TestParse_SymbolRoundTrip(t *testing.T) {
	// GIVEN canonical symbols
	cs := defaultConverters(t)
	for _, sym := range []string{"kg*m/s2", "J/(mol*K)", "1/(s*m)", "km2", "W/(m2*K)"} {
		// WHEN a unit is parsed and re-rendered
		u, err := cs.Parse(sym)
		require.NoError(t, err)
		again, err := cs.Parse(u.Symbol())
		require.NoError(t, err)
		uni, err := cs.Parse(u.UnicodeSymbol())
		require.NoError(t, err)

		// THEN both renderings parse back to an equal unit
		assert.True(t, u.Equal(again), sym)
		assert.True(t, u.Equal(uni), sym)
	}
}

func TestParse_Errors(t *testing.T) {
	cs := defaultConverters(t)
	tests := []struct {
		in   string
		kind error
	}{
		{"m//s", units.ErrFormat},
		{"m/(s)/kg", units.ErrFormat},
		{"m/s/", units.ErrFormat},
		{"m*", units.ErrFormat},
		{"*m", units.ErrFormat},
		{"m**s", units.ErrFormat},
		{"(m)", units.ErrFormat},
		{"m/(s", units.ErrFormat},
		{"m/(s*(kg))", units.ErrFormat},
		{"m2⁻¹", units.ErrFormat},
		{"m⁻2", units.ErrFormat},
		{"m^2", units.ErrFormat},
		{"2", units.ErrFormat},
		{"foo", units.ErrDomain},
		{"kft", units.ErrDomain},
		{"ml", units.ErrDomain},
		{"m10", units.ErrDomain},
		{"m0", units.ErrDomain},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := cs.Parse(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestParse_DisallowedPrefix_NamesPrefix(t *testing.T) {
	cs := defaultConverters(t)
	_, err := cs.Parse("kft")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `does not accept prefix "k"`)
}

func TestParseTerm_EmptyIsScalar(t *testing.T) {
	cs := defaultConverters(t)
	term, err := units.ParseTerm(cs.Catalog(), "")
	require.NoError(t, err)
	assert.True(t, term.IsScalar())
	assert.Equal(t, 1, term.Exponent())
	assert.Equal(t, "1", term.Dimension())
}

func TestParseTerm_PrefixAndExponent(t *testing.T) {
	cs := defaultConverters(t)
	term, err := units.ParseTerm(cs.Catalog(), "ms⁻²")
	require.NoError(t, err)
	assert.Equal(t, "s", term.Unit().Symbol)
	assert.Equal(t, "milli", term.Prefix().Name)
	assert.Equal(t, -2, term.Exponent())
	assert.Equal(t, "T-2", term.Dimension())
	assert.Equal(t, "ms-2", term.Symbol())
	assert.Equal(t, "ms⁻²", term.UnicodeSymbol())
	assert.InDelta(t, 1e6, term.Multiplier(), 1e-6)
}

func TestSIBaseUnitTerm(t *testing.T) {
	cs := defaultConverters(t)
	term, err := units.SIBaseUnitTerm(cs.Catalog(), 'M')
	require.NoError(t, err)
	assert.Equal(t, "kg", term.Symbol())

	_, err = units.SIBaseUnitTerm(cs.Catalog(), 'X')
	assert.ErrorIs(t, err, units.ErrDomain)
}

func TestNewUnitTerm_Validation(t *testing.T) {
	m := &units.Unit{Name: "metre", Symbol: "m", Dimension: "L", Prefixes: units.Metric}
	ft := &units.Unit{Name: "foot", Symbol: "ft", Dimension: "L"}
	kilo := &units.Prefix{Name: "kilo", Symbol: "k", Base: 10, Exponent: 3, Group: units.LargeMetric}

	_, err := units.NewUnitTerm(m, kilo, 2)
	assert.NoError(t, err)

	_, err = units.NewUnitTerm(ft, kilo, 1)
	assert.ErrorIs(t, err, units.ErrDomain)
	_, err = units.NewUnitTerm(m, nil, 0)
	assert.ErrorIs(t, err, units.ErrDomain)
	_, err = units.NewUnitTerm(m, nil, -10)
	assert.ErrorIs(t, err, units.ErrDomain)
	_, err = units.NewUnitTerm(nil, nil, 1)
	assert.ErrorIs(t, err, units.ErrDomain)
}

func TestUnit_Equal_ComparesSymbolAndDimension(t *testing.T) {
	a := &units.Unit{Name: "metre", Symbol: "m", Dimension: "L"}
	b := &units.Unit{Name: "meter", Symbol: "m", Dimension: "L"}
	c := &units.Unit{Name: "minute", Symbol: "m", Dimension: "T"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestDerivedUnit_Algebra(t *testing.T) {
	cs := defaultConverters(t)
	m, err := cs.Parse("m")
	require.NoError(t, err)
	s, err := cs.Parse("s")
	require.NoError(t, err)

	v, err := m.Divide(s)
	require.NoError(t, err)
	assert.Equal(t, "m/s", v.Symbol())

	inv, err := v.Inverse()
	require.NoError(t, err)
	assert.Equal(t, "s/m", inv.Symbol())

	sq, err := v.Pow(2)
	require.NoError(t, err)
	assert.Equal(t, "m2/s2", sq.Symbol())
	assert.Equal(t, "L2T-2", sq.Dimension())

	one, err := v.Multiply(inv)
	require.NoError(t, err)
	assert.True(t, one.IsDimensionless())
	assert.Equal(t, 0, one.Len())

	_, err = sq.Pow(5)
	assert.ErrorIs(t, err, units.ErrDomain, "exponent 10 is out of range")
}
