package units

import (
	"strings"

	"github.com/inference-sim/unitconv/units/dimension"
)

// DerivedUnit is an ordered product of unit terms, e.g. kg·m/s². Terms with the same
// prefixed unit are combined when the unit is built, and terms whose exponents cancel
// are dropped. The zero value is the dimensionless unit with no terms.
type DerivedUnit struct {
	terms []UnitTerm
	dim   string
}

// NewDerivedUnit combines terms into a derived unit. Scalar terms are ignored.
func NewDerivedUnit(terms ...UnitTerm) (DerivedUnit, error) {
	type slot struct {
		term UnitTerm
		exp  int
	}
	var order []string
	slots := make(map[string]*slot, len(terms))
	for _, t := range terms {
		if t.IsScalar() {
			continue
		}
		key := t.PrefixedSymbol() + "|" + t.unit.Dimension
		if s, ok := slots[key]; ok {
			s.exp += t.exponent
			continue
		}
		slots[key] = &slot{term: t, exp: t.exponent}
		order = append(order, key)
	}

	out := make([]UnitTerm, 0, len(order))
	dims := make([]string, 0, len(order))
	for _, key := range order {
		s := slots[key]
		if s.exp == 0 {
			continue
		}
		t := s.term
		if t.exponent != s.exp {
			var err error
			if t, err = t.WithExponent(s.exp); err != nil {
				return DerivedUnit{}, err
			}
		}
		out = append(out, t)
		dims = append(dims, t.dim)
	}
	dim, err := dimension.Multiply(dims...)
	if err != nil {
		return DerivedUnit{}, err
	}
	return DerivedUnit{terms: out, dim: dim}, nil
}

// Terms returns a copy of the unit's terms.
func (d DerivedUnit) Terms() []UnitTerm {
	out := make([]UnitTerm, len(d.terms))
	copy(out, d.terms)
	return out
}

// Len returns the number of terms.
func (d DerivedUnit) Len() int { return len(d.terms) }

// Dimension returns the normalized dimension code.
func (d DerivedUnit) Dimension() string {
	if d.dim == "" {
		return dimension.Dimensionless
	}
	return d.dim
}

// IsDimensionless reports whether the unit has dimension "1".
func (d DerivedUnit) IsDimensionless() bool { return d.Dimension() == dimension.Dimensionless }

// Symbol returns the canonical ASCII symbol, e.g. "kg*m/s2" or "J/(mol*K)".
func (d DerivedUnit) Symbol() string { return d.render(false) }

// UnicodeSymbol returns the canonical Unicode symbol, e.g. "kg·m/s²".
func (d DerivedUnit) UnicodeSymbol() string { return d.render(true) }

func (d DerivedUnit) String() string { return d.Symbol() }

func (d DerivedUnit) render(unicode bool) string {
	sep := "*"
	if unicode {
		sep = "·"
	}
	symbol := func(t UnitTerm, exp int) string {
		if unicode {
			return t.prefixedUnicode() + superscriptExponent(exp)
		}
		return t.PrefixedSymbol() + asciiExponent(exp)
	}
	var num, den []string
	for _, t := range d.terms {
		if t.exponent > 0 {
			num = append(num, symbol(t, t.exponent))
		} else {
			den = append(den, symbol(t, -t.exponent))
		}
	}
	out := strings.Join(num, sep)
	switch len(den) {
	case 0:
		return out
	case 1:
		if out == "" {
			out = "1"
		}
		return out + "/" + den[0]
	}
	if out == "" {
		out = "1"
	}
	return out + "/(" + strings.Join(den, sep) + ")"
}

// Equal compares canonical symbol and dimension.
func (d DerivedUnit) Equal(o DerivedUnit) bool {
	return d.Symbol() == o.Symbol() && d.Dimension() == o.Dimension()
}

// Multiply returns d·o.
func (d DerivedUnit) Multiply(o DerivedUnit) (DerivedUnit, error) {
	terms := make([]UnitTerm, 0, len(d.terms)+len(o.terms))
	terms = append(terms, d.terms...)
	terms = append(terms, o.terms...)
	return NewDerivedUnit(terms...)
}

// Divide returns d/o.
func (d DerivedUnit) Divide(o DerivedUnit) (DerivedUnit, error) {
	inv, err := o.Inverse()
	if err != nil {
		return DerivedUnit{}, err
	}
	return d.Multiply(inv)
}

// Inverse returns 1/d.
func (d DerivedUnit) Inverse() (DerivedUnit, error) {
	return d.Pow(-1)
}

// Pow raises every term to n times its exponent.
func (d DerivedUnit) Pow(n int) (DerivedUnit, error) {
	if n == 0 {
		return DerivedUnit{}, nil
	}
	terms := make([]UnitTerm, 0, len(d.terms))
	for _, t := range d.terms {
		p, err := t.WithExponent(t.exponent * n)
		if err != nil {
			return DerivedUnit{}, err
		}
		terms = append(terms, p)
	}
	return NewDerivedUnit(terms...)
}

func (t UnitTerm) prefixedUnicode() string {
	if t.prefix == nil {
		return t.unit.UnicodeSymbol()
	}
	return t.prefix.UnicodeSymbol() + t.unit.UnicodeSymbol()
}
