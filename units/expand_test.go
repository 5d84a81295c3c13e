package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/unitconv/units"
)

func TestExpand_NamedUnits(t *testing.T) {
	cs := defaultConverters(t)
	tests := []struct {
		in        string
		value     float64
		symbol    string
		dimension string
	}{
		{"N", 1, "kg*m/s2", "MLT-2"},
		{"kN", 1000, "kg*m/s2", "MLT-2"},
		{"mN", 1e-3, "kg*m/s2", "MLT-2"},
		{"kWh", 1000, "W*h", "ML2T-2"},
		{"L", 1, "dm3", "L3"},
		{"mL", 1e-3, "dm3", "L3"},
		{"%", 0.01, "", "1"},
		{"N/m2", 1, "kg/(m*s2)", "ML-1T-2"},
		{"m", 1, "m", "L"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := cs.Parse(tt.in)
			require.NoError(t, err)

			v, expanded, err := cs.Expand(1, u)

			require.NoError(t, err)
			assert.InEpsilon(t, tt.value, v, 1e-12)
			assert.Equal(t, tt.symbol, expanded.Symbol())
			assert.Equal(t, tt.dimension, expanded.Dimension())
			assert.Equal(t, u.Dimension(), expanded.Dimension(), "expansion keeps the dimension")
		})
	}
}

func TestExpand_IsSingleLevel(t *testing.T) {
	// GIVEN J, defined as N*m
	cs := defaultConverters(t)
	u, err := cs.Parse("J")
	require.NoError(t, err)

	// WHEN expanded once
	_, once, err := cs.Expand(1, u)
	require.NoError(t, err)

	// THEN N is not expanded further
	assert.Equal(t, "N*m", once.Symbol())

	// AND a second expansion reaches base units
	_, twice, err := cs.Expand(1, once)
	require.NoError(t, err)
	assert.Equal(t, "kg*m2/s2", twice.Symbol())
}

func TestMerge_SameDimensionTerms(t *testing.T) {
	// GIVEN m*ft
	cs := defaultConverters(t)
	u, err := cs.Parse("m*ft")
	require.NoError(t, err)

	// WHEN merged
	v, merged, err := cs.Merge(1, u)

	// THEN ft is folded into m by the ft->m factor
	require.NoError(t, err)
	assert.InDelta(t, 0.3048, v, 1e-12)
	assert.Equal(t, "m2", merged.Symbol())
}

func TestMerge_KeepsFirstTermUnitAndPrefix(t *testing.T) {
	cs := defaultConverters(t)
	tests := []struct {
		in     string
		value  float64
		symbol string
	}{
		{"ft*m", 1 / 0.3048, "ft2"},
		{"km*m", 1e-3, "km2"},
		{"m/ft", 1 / 0.3048, ""},
		{"kg*m/(s*min)", 1.0 / 60, "kg*m/s2"},
		{"m2", 1, "m2"},
		{"N*lbf", 4.4482216152605, "N2"},
		{"%*ppm", 1e-4, "%2"},
		{"J/eV", 1 / 1.602176634e-19, ""},
		{"kWh/J", 3.6e6, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := cs.Parse(tt.in)
			require.NoError(t, err)
			v, merged, err := cs.Merge(1, u)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.value, v, 1e-12)
			assert.Equal(t, tt.symbol, merged.Symbol())
		})
	}
}

func TestMerge_NoPathBetweenSameDimensionUnits(t *testing.T) {
	// GIVEN two length units without a conversion between them
	cs := units.NewConverters(graphRegistry(t, []string{"X", "Y"}))
	u, err := cs.Parse("X*Y")
	require.NoError(t, err)

	// WHEN merged
	_, _, err = cs.Merge(1, u)

	// THEN the missing path is reported
	assert.ErrorIs(t, err, units.ErrNoPath)
}
