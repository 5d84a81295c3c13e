package units_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/unitconv/units"
)

func TestConverter_MetreToFoot(t *testing.T) {
	// GIVEN the default tables
	cs := defaultConverters(t)
	c, err := cs.GetByDimension("L")
	require.NoError(t, err)

	// WHEN 1 m is converted to feet
	got, err := c.Convert(1.0, "m", "ft")

	// THEN the result is 1/0.3048
	require.NoError(t, err)
	assert.InDelta(t, 3.28084, got, 1e-4)
}

func TestConverter_Identity_IsExact(t *testing.T) {
	cs := defaultConverters(t)
	for _, tt := range []struct{ dim, sym string }{
		{"L", "ft"}, {"L", "km"}, {"MLT-2", "kg*m/s2"}, {"L3", "gal"}, {"1", ""},
	} {
		c, err := cs.GetByDimension(tt.dim)
		require.NoError(t, err)
		conv, ok, err := c.GetConversion(tt.sym, tt.sym)
		require.NoError(t, err)
		require.True(t, ok, tt.sym)
		assert.Equal(t, 1.0, conv.Factor(), tt.sym)
		assert.Equal(t, 0.0, conv.RelativeError(), tt.sym)
	}
}

func TestConverter_ReciprocalFactors(t *testing.T) {
	cs := defaultConverters(t)
	tests := []struct {
		dim, a, b string
	}{
		{"L", "m", "ft"},
		{"L", "in", "mi"},
		{"M", "lb", "kg"},
		{"M", "oz", "st"},
		{"T", "h", "ms"},
		{"L2", "acre", "ft2"},
		{"L3", "gal", "m3"},
		{"L3", "qt", "floz"},
		{"LT-1", "km/h", "kn"},
		{"ML-1T-2", "psi", "kPa"},
		{"ML2T-2", "kWh", "MJ"},
		{"D", "Kib", "kB"},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			c, err := cs.GetByDimension(tt.dim)
			require.NoError(t, err)
			ab, ok, err := c.GetConversionFactor(tt.a, tt.b)
			require.NoError(t, err)
			require.True(t, ok)
			ba, ok, err := c.GetConversionFactor(tt.b, tt.a)
			require.NoError(t, err)
			require.True(t, ok)
			assert.InDelta(t, 1.0, ab*ba, 1e-12)
		})
	}
}

func TestConverter_KnownFactors(t *testing.T) {
	cs := defaultConverters(t)
	tests := []struct {
		src, dest string
		want      float64
		relTol    float64
	}{
		{"km", "mm", 1e6, 1e-15},
		{"ft", "in", 12, 1e-12},
		{"mi", "ft", 5280, 1e-12},
		{"lb", "kg", 0.45359237, 1e-12},
		{"d", "min", 1440, 1e-12},
		{"km/h", "m/s", 1 / 3.6, 1e-12},
		{"kn", "m/s", 1852.0 / 3600, 1e-12},
		{"gal", "m3", 0.003785411784, 1e-12},
		{"gal", "qt", 4, 1e-12},
		{"ha", "m2", 1e4, 1e-12},
		{"psi", "Pa", 6894.757293168361, 1e-9},
		{"atm", "kPa", 101.325, 1e-12},
		{"kWh", "MJ", 3.6, 1e-12},
		{"kcal", "J", 4184, 1e-12},
		{"Hz", "1/min", 60, 1e-12},
		{"N*m", "J", 1, 1e-12},
		{"W", "J/s", 1, 1e-12},
		{"V*A", "W", 1, 1e-12},
		{"KiB", "B", 1024, 0},
		{"b", "kB", 1.25e-4, 1e-12},
		{"deg", "arcmin", 60, 1e-12},
		{"cent", "$", 0.01, 1e-12},
		{"%", "", 0.01, 1e-12},
		{"ppm", "%", 1e-4, 1e-12},
		{"degR", "K", 5.0 / 9, 1e-12},
	}
	for _, tt := range tests {
		t.Run(tt.src+"_"+tt.dest, func(t *testing.T) {
			got, err := cs.Convert(1, tt.src, tt.dest)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.want, got, math.Max(tt.relTol, 1e-15))
		})
	}
}

func TestConverter_ExponentScaling(t *testing.T) {
	// GIVEN the m -> ft factor under dimension L
	cs := defaultConverters(t)
	length, err := cs.GetByDimension("L")
	require.NoError(t, err)
	linear, ok, err := length.GetConversionFactor("m", "ft")
	require.NoError(t, err)
	require.True(t, ok)

	// WHEN m2 -> ft2 is resolved under dimension L2
	area, err := cs.GetByDimension("L2")
	require.NoError(t, err)
	squared, ok, err := area.GetConversionFactor("m2", "ft2")
	require.NoError(t, err)
	require.True(t, ok)

	// THEN it is the square of the linear factor
	assert.InDelta(t, linear*linear, squared, 1e-12)
}

func TestConverter_PrefixScaling(t *testing.T) {
	cs := defaultConverters(t)
	c, err := cs.GetByDimension("L")
	require.NoError(t, err)
	f, ok, err := c.GetConversionFactor("km", "mm")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1e6, f, 1e-10)
}

func TestConverter_DivergentPath(t *testing.T) {
	// GIVEN only Y->X = 2 and Y->Z = 4
	reg := graphRegistry(t, []string{"X", "Y", "Z"}, edge("Y", "X", 2, 0), edge("Y", "Z", 4, 0))
	c, err := units.NewConverters(reg).GetByDimension("L")
	require.NoError(t, err)

	// WHEN X->Z is resolved
	conv, ok, err := c.GetConversion("X", "Z")

	// THEN it goes through the shared source Y
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, conv.Factor())
}

func TestConverter_ConvergentPath_ZeroError(t *testing.T) {
	// GIVEN B->A = 2 and C->B = 0.5 (exact)
	reg := graphRegistry(t, []string{"A", "B", "C"}, edge("B", "A", 2, 0), edge("C", "B", 0.5, 0))
	c, err := units.NewConverters(reg).GetByDimension("L")
	require.NoError(t, err)

	// WHEN A->C is resolved
	conv, ok, err := c.GetConversion("A", "C")

	// THEN the exact two-hop path is found
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0, conv.Factor())
	assert.Equal(t, 0.0, conv.RelativeError())
}

func TestConverter_SharedTarget(t *testing.T) {
	// GIVEN A->M = 6 and B->M = 3
	reg := graphRegistry(t, []string{"A", "B", "M"}, edge("A", "M", 6, 0.01), edge("B", "M", 3, 0.02))
	c, err := units.NewConverters(reg).GetByDimension("L")
	require.NoError(t, err)

	// WHEN A->B is resolved
	conv, ok, err := c.GetConversion("A", "B")

	// THEN 1 A = 6/3 B and the relative errors add
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, conv.Factor())
	assert.InDelta(t, 0.03, conv.RelativeError(), 1e-15)
}

func TestConverter_PrefersFirstExactPath(t *testing.T) {
	// GIVEN an inexact path through M1 registered before an exact path through M2
	reg := graphRegistry(t, []string{"A", "B", "M1", "M2"},
		edge("A", "M1", 2, 0.1), edge("M1", "B", 3, 0),
		edge("A", "M2", 2, 0), edge("M2", "B", 3, 0))
	c, err := units.NewConverters(reg).GetByDimension("L")
	require.NoError(t, err)

	// WHEN A->B is resolved
	conv, ok, err := c.GetConversion("A", "B")

	// THEN the zero-error candidate wins
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6.0, conv.Factor())
	assert.Equal(t, 0.0, conv.RelativeError())
}

func TestConverter_KeepsFirstInexactPath(t *testing.T) {
	// GIVEN two inexact paths, the later one with the smaller error
	reg := graphRegistry(t, []string{"A", "B", "M1", "M2"},
		edge("A", "M1", 2, 0.1), edge("M1", "B", 3, 0),
		edge("A", "M2", 2.5, 0.01), edge("M2", "B", 3, 0))
	c, err := units.NewConverters(reg).GetByDimension("L")
	require.NoError(t, err)

	// WHEN A->B is resolved
	conv, ok, err := c.GetConversion("A", "B")

	// THEN the first candidate found is kept, not the minimum-error one
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6.0, conv.Factor())
	assert.InDelta(t, 0.1, conv.RelativeError(), 1e-15)
}

func TestConverter_NoPath(t *testing.T) {
	// GIVEN a unit W with no registered conversions
	reg := graphRegistry(t, []string{"m", "ft", "W"}, edge("ft", "m", 0.3048, 0))
	c, err := units.NewConverters(reg).GetByDimension("L")
	require.NoError(t, err)

	// THEN the query methods report absence and Convert fails
	_, ok, err := c.GetConversion("m", "W")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.GetConversionFactor("W", "ft")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Convert(1, "m", "W")
	assert.ErrorIs(t, err, units.ErrNoPath)
}

func TestConverter_ThreeHopsAreNotSearched(t *testing.T) {
	// GIVEN a chain A->B->C->D
	reg := graphRegistry(t, []string{"A", "B", "C", "D"},
		edge("A", "B", 2, 0), edge("B", "C", 2, 0), edge("C", "D", 2, 0))
	c, err := units.NewConverters(reg).GetByDimension("L")
	require.NoError(t, err)

	// THEN two hops resolve and three do not
	f, ok, err := c.GetConversionFactor("A", "C")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4.0, f)

	_, ok, err = c.GetConversionFactor("A", "D")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConverter_RelativeErrorScalesWithExponent(t *testing.T) {
	cs := defaultConverters(t)
	mass, err := cs.GetByDimension("M")
	require.NoError(t, err)
	linear, ok, err := mass.GetConversion("Da", "kg")
	require.NoError(t, err)
	require.True(t, ok)

	sq, err := cs.GetByDimension("M2")
	require.NoError(t, err)
	squared, ok, err := sq.GetConversion("Da2", "kg2")
	require.NoError(t, err)
	require.True(t, ok)

	assert.InDelta(t, 3e-10, linear.RelativeError(), 1e-20)
	assert.InDelta(t, 6e-10, squared.RelativeError(), 1e-20)
	assert.InEpsilon(t, linear.Factor()*linear.Factor(), squared.Factor(), 1e-12)
}

func TestConverter_WrongDimension(t *testing.T) {
	cs := defaultConverters(t)
	c, err := cs.GetByDimension("L")
	require.NoError(t, err)

	// quantity name known
	_, _, err = c.GetConversion("m", "s")
	require.Error(t, err)
	assert.ErrorIs(t, err, units.ErrDomain)
	assert.Contains(t, err.Error(), "invalid for length quantities")

	// quantity name unknown
	odd, err := cs.GetByDimension("L5")
	require.NoError(t, err)
	_, _, err = odd.GetConversion("m5", "s")
	require.Error(t, err)
	assert.ErrorIs(t, err, units.ErrDomain)
	assert.Contains(t, err.Error(), `expected "L5"`)
}

func TestConverters_GetByDimension_NormalizesCode(t *testing.T) {
	cs := defaultConverters(t)
	a, err := cs.GetByDimension("T-2LM")
	require.NoError(t, err)
	b, err := cs.GetByDimension("MLT-2")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, "MLT-2", a.Dimension())

	_, err = cs.GetByDimension("bogus")
	assert.ErrorIs(t, err, units.ErrDomain)
}

func TestConverters_Clear_DropsMemoizedResults(t *testing.T) {
	// GIVEN a converter that has memoized a missing path
	reg := graphRegistry(t, []string{"X", "Y"})
	cs := units.NewConverters(reg)
	c, err := cs.GetByDimension("L")
	require.NoError(t, err)
	_, ok, err := c.GetConversion("X", "Y")
	require.NoError(t, err)
	require.False(t, ok)

	// WHEN an edge is registered without clearing
	require.NoError(t, reg.AddConversion(edge("X", "Y", 5, 0)))
	_, ok, err = c.GetConversion("X", "Y")

	// THEN the stale answer is still served
	require.NoError(t, err)
	assert.False(t, ok)

	// WHEN the converters are cleared
	cs.Clear()
	fresh, err := cs.GetByDimension("L")
	require.NoError(t, err)

	// THEN a new converter sees the edge, and so does the old reference
	assert.NotSame(t, c, fresh)
	f, ok, err := fresh.GetConversionFactor("X", "Y")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5.0, f)

	f, ok, err = c.GetConversionFactor("X", "Y")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5.0, f)
}

func TestConverter_ConversionBetween_MatchesGetConversion(t *testing.T) {
	cs := defaultConverters(t)
	src, err := cs.Parse("lbf")
	require.NoError(t, err)
	dest, err := cs.Parse("kN")
	require.NoError(t, err)
	c, err := cs.ForUnit(src)
	require.NoError(t, err)

	conv, ok, err := c.ConversionBetween(src, dest)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "lbf", conv.Src)
	assert.Equal(t, "kN", conv.Dest)
	assert.InEpsilon(t, 4.4482216152605e-3, conv.Factor(), 1e-12)
	assert.InEpsilon(t, 4.4482216152605e-3*2, conv.Apply(2), 1e-12)
}

func TestConversionValue_Propagation(t *testing.T) {
	a, err := units.NewConversionValue(2, 0.01)
	require.NoError(t, err)
	b, err := units.NewConversionValue(4, 0.02)
	require.NoError(t, err)

	assert.Equal(t, 8.0, a.Mul(b).Value)
	assert.InDelta(t, 0.03, a.Mul(b).RelativeError, 1e-15)
	assert.Equal(t, 0.5, a.Div(b).Value)
	assert.InDelta(t, 0.03, a.Div(b).RelativeError, 1e-15)
	assert.Equal(t, 0.5, a.Inverse().Value)
	assert.Equal(t, 0.01, a.Inverse().RelativeError)
	assert.Equal(t, 0.25, a.Pow(-2).Value)
	assert.InDelta(t, 0.02, a.Pow(-2).RelativeError, 1e-15)
	assert.InDelta(t, 0.02, a.AbsoluteError(), 1e-15)

	_, err = units.NewConversionValue(0, 0)
	assert.Error(t, err)
	_, err = units.NewConversionValue(1, -0.1)
	assert.Error(t, err)
	_, err = units.NewConversionValue(math.Inf(1), 0)
	assert.Error(t, err)
}
