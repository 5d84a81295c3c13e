package units

import (
	"math"
	"strconv"
	"strings"

	"github.com/inference-sim/unitconv/units/dimension"
	"github.com/inference-sim/unitconv/units/uerr"
)

// MaxExponent bounds the absolute exponent of a unit term.
const MaxExponent = 9

var superscriptDigits = []rune("⁰¹²³⁴⁵⁶⁷⁸⁹")

const superscriptMinus = '⁻'

// UnitTerm is a unit with an optional prefix raised to a non-zero integer exponent,
// e.g. km², ms⁻¹. UnitTerm values are immutable.
type UnitTerm struct {
	unit     *Unit
	prefix   *Prefix
	exponent int
	dim      string
}

// NewUnitTerm validates and builds a term. prefix may be nil.
func NewUnitTerm(u *Unit, prefix *Prefix, exponent int) (UnitTerm, error) {
	if u == nil {
		return UnitTerm{}, uerr.Domainf("unit term: nil unit")
	}
	if exponent == 0 {
		return UnitTerm{}, uerr.Domainf("unit term %q: exponent must not be zero", u.Symbol)
	}
	if exponent > MaxExponent || exponent < -MaxExponent {
		return UnitTerm{}, uerr.Domainf("unit term %q: exponent %d out of range [-%d, %d]", u.Symbol, exponent, MaxExponent, MaxExponent)
	}
	if prefix != nil && !u.AcceptsPrefix(prefix) {
		return UnitTerm{}, uerr.Domainf("unit %q does not accept prefix %q", u.Symbol, prefix.Symbol)
	}
	dim, err := dimension.ApplyExponent(u.Dimension, exponent)
	if err != nil {
		return UnitTerm{}, err
	}
	return UnitTerm{unit: u, prefix: prefix, exponent: exponent, dim: dim}, nil
}

// ScalarTerm returns the dimensionless term with exponent 1.
func ScalarTerm() UnitTerm {
	return UnitTerm{unit: Scalar, exponent: 1, dim: dimension.Dimensionless}
}

func (t UnitTerm) Unit() *Unit     { return t.unit }
func (t UnitTerm) Prefix() *Prefix { return t.prefix }
func (t UnitTerm) Exponent() int   { return t.exponent }

// Dimension returns the unit dimension raised to the term exponent.
func (t UnitTerm) Dimension() string { return t.dim }

// IsScalar reports whether t is the dimensionless scalar term.
func (t UnitTerm) IsScalar() bool { return t.unit == nil || t.unit == Scalar }

// Multiplier returns the prefix scale raised to the term exponent.
func (t UnitTerm) Multiplier() float64 {
	if t.prefix == nil {
		return 1
	}
	return powPrefix(t.prefix, t.exponent)
}

// PrefixedSymbol returns the ASCII prefix and unit symbol without the exponent.
func (t UnitTerm) PrefixedSymbol() string {
	if t.unit == nil {
		return ""
	}
	if t.prefix == nil {
		return t.unit.Symbol
	}
	return t.prefix.Symbol + t.unit.Symbol
}

// Symbol returns the ASCII form, e.g. "km2" or "s-1".
func (t UnitTerm) Symbol() string {
	return t.PrefixedSymbol() + asciiExponent(t.exponent)
}

// UnicodeSymbol returns the Unicode form, e.g. "km²" or "μs⁻¹".
func (t UnitTerm) UnicodeSymbol() string {
	if t.unit == nil {
		return ""
	}
	var b strings.Builder
	if t.prefix != nil {
		b.WriteString(t.prefix.UnicodeSymbol())
	}
	b.WriteString(t.unit.UnicodeSymbol())
	b.WriteString(superscriptExponent(t.exponent))
	return b.String()
}

func (t UnitTerm) String() string { return t.Symbol() }

// WithExponent returns a copy of t raised to exponent instead.
func (t UnitTerm) WithExponent(exponent int) (UnitTerm, error) {
	return NewUnitTerm(t.unit, t.prefix, exponent)
}

// Equal compares terms by unit, prefix and exponent.
func (t UnitTerm) Equal(o UnitTerm) bool {
	return t.exponent == o.exponent && samePrefix(t.prefix, o.prefix) && t.unit.Equal(o.unit)
}

func samePrefix(a, b *Prefix) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Symbol == b.Symbol && a.Base == b.Base && a.Exponent == b.Exponent
}

// powPrefix returns p^n, computed in the exponent domain for exactness.
func powPrefix(p *Prefix, n int) float64 {
	return pow(p.Base, p.Exponent*n)
}

// prefixRatio returns (a/b)^n for two prefixes, either of which may be nil.
func prefixRatio(a, b *Prefix, n int) float64 {
	baseA, expA := prefixParts(a)
	baseB, expB := prefixParts(b)
	switch {
	case expB == 0:
		return pow(baseA, expA*n)
	case expA == 0:
		return pow(baseB, -expB*n)
	case baseA == baseB:
		return pow(baseA, (expA-expB)*n)
	}
	return pow(baseA, expA*n) / pow(baseB, expB*n)
}

func prefixParts(p *Prefix) (base, exp int) {
	if p == nil {
		return 10, 0
	}
	return p.Base, p.Exponent
}

func pow(base, exp int) float64 {
	if base == 10 {
		return math.Pow10(exp)
	}
	return math.Pow(float64(base), float64(exp))
}

func asciiExponent(n int) string {
	if n == 1 {
		return ""
	}
	return strconv.Itoa(n)
}

func superscriptExponent(n int) string {
	if n == 1 {
		return ""
	}
	var b strings.Builder
	if n < 0 {
		b.WriteRune(superscriptMinus)
		n = -n
	}
	for _, r := range strconv.Itoa(n) {
		b.WriteRune(superscriptDigits[r-'0'])
	}
	return b.String()
}
