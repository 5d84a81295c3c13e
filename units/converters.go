package units

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/unitconv/units/dimension"
	"github.com/inference-sim/unitconv/units/uerr"
)

// maxReductionPasses bounds the rewriting of a unit into SI base form. Each pass
// expands named units one level or converts a term to its axis' SI base unit.
const maxReductionPasses = 8

// Converters owns one Converter per dimension over a Catalog. Converters are created
// on first request and live until Clear. A host that mutates the catalog must call
// Clear before the next lookup. Converters is not safe for concurrent use; Clear must
// not run while lookups are in flight.
type Converters struct {
	catalog    Catalog
	converters map[string]*Converter
}

// NewConverters returns an empty converter set over cat.
func NewConverters(cat Catalog) *Converters {
	return &Converters{
		catalog:    cat,
		converters: make(map[string]*Converter),
	}
}

// Catalog returns the catalog the converters read from.
func (cs *Converters) Catalog() Catalog { return cs.catalog }

// GetByDimension returns the Converter for the normalized form of code, creating it
// on first use.
func (cs *Converters) GetByDimension(code string) (*Converter, error) {
	dim, err := dimension.Normalize(code)
	if err != nil {
		return nil, fmt.Errorf("get converter: %w", err)
	}
	if c, ok := cs.converters[dim]; ok {
		return c, nil
	}
	c := newConverter(cs, dim)
	cs.converters[dim] = c
	return c, nil
}

// Clear drops every Converter and its memoized results. Converters obtained before
// the call are reset as well, so stale references never serve outdated data.
func (cs *Converters) Clear() {
	for _, c := range cs.converters {
		c.reset()
	}
	logrus.Debugf("converters: cleared %d converters", len(cs.converters))
	cs.converters = make(map[string]*Converter)
}

// Parse parses a compound unit symbol against the catalog.
func (cs *Converters) Parse(symbol string) (DerivedUnit, error) {
	return Parse(cs.catalog, symbol)
}

// ForUnit returns the Converter for the dimension of u.
func (cs *Converters) ForUnit(u DerivedUnit) (*Converter, error) {
	return cs.GetByDimension(u.Dimension())
}

// Convert converts value between two unit symbols, picking the converter from the
// dimension of src.
func (cs *Converters) Convert(value float64, src, dest string) (float64, error) {
	u, err := cs.Parse(src)
	if err != nil {
		return 0, err
	}
	c, err := cs.ForUnit(u)
	if err != nil {
		return 0, err
	}
	return c.Convert(value, src, dest)
}

// factor resolves the conversion between two derived units of equal dimension.
// Both sides are first merged and paired term by term; failing that, both are
// reduced to SI base form and paired again.
func (cs *Converters) factor(src, dest DerivedUnit) (ConversionValue, bool, error) {
	if src.Equal(dest) {
		return exact, true, nil
	}
	v, ok, err := cs.pairedFactor(src, dest, cs.merge)
	if err != nil || ok {
		return v, ok, err
	}
	return cs.pairedFactor(src, dest, cs.baseForm)
}

type reducer func(DerivedUnit) (ConversionValue, DerivedUnit, error)

func (cs *Converters) pairedFactor(src, dest DerivedUnit, reduce reducer) (ConversionValue, bool, error) {
	sv, s, err := reduce(src)
	if err != nil {
		return unresolved(err)
	}
	dv, d, err := reduce(dest)
	if err != nil {
		return unresolved(err)
	}
	tv, ok, err := cs.matchTerms(s, d)
	if err != nil || !ok {
		return ConversionValue{}, ok, err
	}
	return sv.Mul(tv).Div(dv), true, nil
}

// unresolved turns a missing path into ok == false and passes other errors through.
func unresolved(err error) (ConversionValue, bool, error) {
	if errors.Is(err, uerr.ErrNoPath) {
		return ConversionValue{}, false, nil
	}
	return ConversionValue{}, false, err
}

// matchTerms pairs the terms of s and d by unit dimension and exponent and
// multiplies the per-term factors. ok is false if the terms do not pair up.
func (cs *Converters) matchTerms(s, d DerivedUnit) (ConversionValue, bool, error) {
	if len(s.terms) != len(d.terms) {
		return ConversionValue{}, false, nil
	}
	used := make([]bool, len(d.terms))
	v := exact
	for _, st := range s.terms {
		j := -1
		for k, dt := range d.terms {
			if !used[k] && dt.exponent == st.exponent && dt.unit.Dimension == st.unit.Dimension {
				j = k
				break
			}
		}
		if j < 0 {
			return ConversionValue{}, false, nil
		}
		used[j] = true
		f, err := cs.termFactor(st, d.terms[j].unit, d.terms[j].prefix)
		if err != nil {
			return unresolved(err)
		}
		v = v.Mul(f)
	}
	return v, true, nil
}

// termFactor returns the factor converting t into the given unit and prefix at
// the same exponent: (prefix ratio × base factor)^exponent.
func (cs *Converters) termFactor(t UnitTerm, u *Unit, prefix *Prefix) (ConversionValue, error) {
	c, err := cs.GetByDimension(t.unit.Dimension)
	if err != nil {
		return ConversionValue{}, err
	}
	base, ok := c.resolve(t.unit.Symbol, u.Symbol)
	if !ok {
		return ConversionValue{}, uerr.NoPathf("converter %s: no conversion from %q to %q", c.dimension, t.unit.Symbol, u.Symbol)
	}
	scale := ConversionValue{Value: prefixRatio(t.prefix, prefix, t.exponent)}
	return scale.Mul(base.Value.Pow(t.exponent)), nil
}

// baseForm rewrites du as a product of SI base unit terms.
func (cs *Converters) baseForm(du DerivedUnit) (ConversionValue, DerivedUnit, error) {
	v := exact
	cur := du
	for pass := 0; pass < maxReductionPasses; pass++ {
		changed := false
		terms := make([]UnitTerm, 0, len(cur.terms))
		for _, t := range cur.terms {
			f, reduced, err := cs.reduceTerm(t)
			if err != nil {
				return ConversionValue{}, DerivedUnit{}, err
			}
			if reduced == nil {
				terms = append(terms, t)
				continue
			}
			v = v.Mul(f)
			terms = append(terms, reduced...)
			changed = true
		}
		if !changed {
			return v, cur, nil
		}
		next, err := NewDerivedUnit(terms...)
		if err != nil {
			return ConversionValue{}, DerivedUnit{}, err
		}
		cur = next
	}
	logrus.Warnf("converters: %q not in base form after %d passes", du.Symbol(), maxReductionPasses)
	return v, cur, nil
}

// reduceTerm performs one base-form rewrite of t. It returns nil terms when t is
// already an SI base unit term.
func (cs *Converters) reduceTerm(t UnitTerm) (ConversionValue, []UnitTerm, error) {
	u := t.unit
	if u.Expansion != nil {
		return cs.expandTerm(t)
	}
	if axis, ok := dimension.BaseAxis(u.Dimension); ok {
		target, err := SIBaseUnitTerm(cs.catalog, axis)
		if err != nil {
			return ConversionValue{}, nil, uerr.NoPathf("converters: no SI base unit for %s: %v", axis.Name(), err)
		}
		if target.unit.Equal(u) && samePrefix(target.prefix, t.prefix) {
			return exact, nil, nil
		}
		f, err := cs.termFactor(t, target.unit, target.prefix)
		if err != nil {
			return ConversionValue{}, nil, err
		}
		nt, err := NewUnitTerm(target.unit, target.prefix, t.exponent)
		if err != nil {
			return ConversionValue{}, nil, err
		}
		return f, []UnitTerm{nt}, nil
	}

	rel, err := cs.expandableRelative(u)
	if err != nil {
		return ConversionValue{}, nil, err
	}
	f, err := cs.termFactor(t, rel, nil)
	if err != nil {
		return ConversionValue{}, nil, err
	}
	nt, err := NewUnitTerm(rel, nil, t.exponent)
	if err != nil {
		return ConversionValue{}, nil, err
	}
	return f, []UnitTerm{nt}, nil
}

// expandableRelative finds a unit of u's dimension that declares an expansion and is
// reachable from u in the conversion graph, e.g. gal -> L.
func (cs *Converters) expandableRelative(u *Unit) (*Unit, error) {
	c, err := cs.GetByDimension(u.Dimension)
	if err != nil {
		return nil, err
	}
	c.buildGraph()
	for _, sym := range c.symbols {
		if sym == u.Symbol {
			continue
		}
		cand, ok := cs.catalog.LookupUnit(sym)
		if !ok || cand.Expansion == nil {
			continue
		}
		if _, ok := c.resolve(u.Symbol, sym); ok {
			return cand, nil
		}
	}
	return nil, uerr.NoPathf("converter %s: unit %q has no expandable equivalent", c.dimension, u.Symbol)
}
