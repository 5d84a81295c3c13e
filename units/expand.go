package units

import (
	"fmt"

	"github.com/inference-sim/unitconv/units/uerr"
)

// Expand replaces every term whose unit declares an expansion (e.g. N -> kg*m/s2)
// with the expansion's terms, one level deep, then merges the result. It returns
// value re-expressed in the expanded unit.
func (cs *Converters) Expand(value float64, du DerivedUnit) (float64, DerivedUnit, error) {
	v := exact
	terms := make([]UnitTerm, 0, len(du.terms))
	for _, t := range du.terms {
		if t.unit.Expansion == nil {
			terms = append(terms, t)
			continue
		}
		f, expanded, err := cs.expandTerm(t)
		if err != nil {
			return 0, DerivedUnit{}, err
		}
		v = v.Mul(f)
		terms = append(terms, expanded...)
	}
	expanded, err := NewDerivedUnit(terms...)
	if err != nil {
		return 0, DerivedUnit{}, err
	}
	mv, merged, err := cs.merge(expanded)
	if err != nil {
		return 0, DerivedUnit{}, err
	}
	return value * v.Mul(mv).Value, merged, nil
}

// Merge combines terms of the same unit dimension (e.g. m*ft) into the unit and
// prefix of the first such term, converting the others. Terms whose exponents
// cancel are removed. It returns value re-expressed in the merged unit.
func (cs *Converters) Merge(value float64, du DerivedUnit) (float64, DerivedUnit, error) {
	v, merged, err := cs.merge(du)
	if err != nil {
		return 0, DerivedUnit{}, err
	}
	return value * v.Value, merged, nil
}

func (cs *Converters) merge(du DerivedUnit) (ConversionValue, DerivedUnit, error) {
	type group struct {
		first UnitTerm
		exp   int
	}
	var order []*group
	byDim := make(map[string]*group, len(du.terms))
	v := exact
	for _, t := range du.terms {
		g, ok := byDim[t.unit.Dimension]
		if !ok {
			g = &group{first: t, exp: t.exponent}
			byDim[t.unit.Dimension] = g
			order = append(order, g)
			continue
		}
		f, err := cs.mergeFactor(t, g.first)
		if err != nil {
			return ConversionValue{}, DerivedUnit{}, err
		}
		v = v.Mul(f)
		g.exp += t.exponent
	}

	terms := make([]UnitTerm, 0, len(order))
	for _, g := range order {
		if g.exp == 0 {
			continue
		}
		t, err := NewUnitTerm(g.first.unit, g.first.prefix, g.exp)
		if err != nil {
			return ConversionValue{}, DerivedUnit{}, err
		}
		terms = append(terms, t)
	}
	merged, err := NewDerivedUnit(terms...)
	if err != nil {
		return ConversionValue{}, DerivedUnit{}, err
	}
	return v, merged, nil
}

// mergeFactor converts t into the unit and prefix of first at t's exponent. It
// resolves the pair like any derived-unit conversion, so units related only through
// an expansion (lbf and N) merge as well.
func (cs *Converters) mergeFactor(t, first UnitTerm) (ConversionValue, error) {
	target, err := NewUnitTerm(first.unit, first.prefix, t.exponent)
	if err != nil {
		return ConversionValue{}, err
	}
	src, err := NewDerivedUnit(t)
	if err != nil {
		return ConversionValue{}, err
	}
	dest, err := NewDerivedUnit(target)
	if err != nil {
		return ConversionValue{}, err
	}
	v, ok, err := cs.factor(src, dest)
	if err != nil {
		return ConversionValue{}, err
	}
	if !ok {
		return ConversionValue{}, uerr.NoPathf("merge: no conversion from %q to %q", src.Symbol(), dest.Symbol())
	}
	return v, nil
}

// expandTerm returns the factor and the terms replacing t by its unit's expansion.
// 1 t = factor × expansion terms.
func (cs *Converters) expandTerm(t UnitTerm) (ConversionValue, []UnitTerm, error) {
	exp := t.unit.Expansion
	target, err := Parse(cs.catalog, exp.Symbol)
	if err != nil {
		return ConversionValue{}, nil, fmt.Errorf("expand %q: %w", t.unit.Symbol, err)
	}
	v := ConversionValue{Value: exp.Multiplier}.Pow(t.exponent)
	v.Value *= t.Multiplier()

	terms := make([]UnitTerm, 0, len(target.terms))
	for _, tt := range target.terms {
		nt, err := tt.WithExponent(tt.exponent * t.exponent)
		if err != nil {
			return ConversionValue{}, nil, fmt.Errorf("expand %q: %w", t.Symbol(), err)
		}
		terms = append(terms, nt)
	}
	return v, terms, nil
}
