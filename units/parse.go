package units

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/inference-sim/unitconv/units/dimension"
	"github.com/inference-sim/unitconv/units/uerr"
)

// multiplySigns separate terms in a product. '·' and '⋅' appear in Unicode symbols.
const multiplySigns = "*·⋅"

// symbolPunctuation lists the punctuation allowed inside a unit symbol.
const symbolPunctuation = "%‰′″'\""

// Parse parses a compound unit symbol such as "kg*m/s2", "J/(mol*K)" or "m·s⁻¹".
//
// Terms are joined by '*' (or '·'); every term right of a '/' is a denominator
// term, so "m/s/kg" is m·s⁻¹·kg⁻¹. After a lone '/' the denominator may be wrapped
// in parentheses. The numerator may be the literal "1". The empty string parses to
// the dimensionless unit.
func Parse(cat Catalog, symbol string) (DerivedUnit, error) {
	s := strings.TrimSpace(symbol)
	if s == "" || s == dimension.Dimensionless {
		return DerivedUnit{}, nil
	}

	parts := strings.Split(s, "/")
	num, dens := parts[0], parts[1:]
	var numTokens []string
	if len(dens) == 0 || num != "1" {
		var err error
		if numTokens, err = splitTerms(symbol, num); err != nil {
			return DerivedUnit{}, err
		}
	}
	var denTokens []string
	for _, den := range dens {
		if len(dens) == 1 && strings.HasPrefix(den, "(") {
			if !strings.HasSuffix(den, ")") {
				return DerivedUnit{}, uerr.Formatf("unit %q: unbalanced parentheses", symbol)
			}
			den = den[1 : len(den)-1]
		}
		tokens, err := splitTerms(symbol, den)
		if err != nil {
			return DerivedUnit{}, err
		}
		denTokens = append(denTokens, tokens...)
	}

	terms := make([]UnitTerm, 0, len(numTokens)+len(denTokens))
	for _, tok := range numTokens {
		t, err := ParseTerm(cat, tok)
		if err != nil {
			return DerivedUnit{}, err
		}
		terms = append(terms, t)
	}
	for _, tok := range denTokens {
		t, err := ParseTerm(cat, tok)
		if err != nil {
			return DerivedUnit{}, err
		}
		if t, err = t.WithExponent(-t.exponent); err != nil {
			return DerivedUnit{}, err
		}
		terms = append(terms, t)
	}
	return NewDerivedUnit(terms...)
}

// splitTerms splits one side of a '/' into term tokens.
func splitTerms(symbol, part string) ([]string, error) {
	if strings.ContainsAny(part, "()") {
		return nil, uerr.Formatf("unit %q: parentheses are only allowed around the denominator of a single '/'", symbol)
	}
	tokens := strings.FieldsFunc(part, func(r rune) bool { return strings.ContainsRune(multiplySigns, r) })
	// FieldsFunc drops empty fields; count separators to catch "m**s", "*m" and "m*".
	seps := 0
	for _, r := range part {
		if strings.ContainsRune(multiplySigns, r) {
			seps++
		}
	}
	if len(tokens) == 0 || len(tokens) != seps+1 {
		return nil, uerr.Formatf("unit %q: empty term", symbol)
	}
	return tokens, nil
}

// ParseTerm parses one prefixed, exponentiated unit symbol such as "km2" or "μs⁻¹".
// The empty string yields the scalar term.
func ParseTerm(cat Catalog, symbol string) (UnitTerm, error) {
	if symbol == "" {
		return ScalarTerm(), nil
	}
	base, exp, err := splitExponent(symbol)
	if err != nil {
		return UnitTerm{}, err
	}
	for _, r := range base {
		if !symbolRune(r) {
			return UnitTerm{}, uerr.Formatf("unit term %q: illegal character %q", symbol, r)
		}
	}
	u, p, err := resolveSymbol(cat, base)
	if err != nil {
		return UnitTerm{}, err
	}
	return NewUnitTerm(u, p, exp)
}

func symbolRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.In(r, unicode.Sc, unicode.So) || strings.ContainsRune(symbolPunctuation, r)
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func superscriptValue(r rune) (int, bool) {
	for i, d := range superscriptDigits {
		if d == r {
			return i, true
		}
	}
	return 0, false
}

func isExponentRune(r rune) bool {
	_, sup := superscriptValue(r)
	return sup || isASCIIDigit(r) || r == '-' || r == superscriptMinus
}

// splitExponent separates a trailing exponent from a term symbol. The exponent is
// either ASCII ("-2") or superscript ("⁻²"); the two notations must not be mixed.
func splitExponent(symbol string) (string, int, error) {
	r := []rune(symbol)
	i := len(r)
	for i > 0 && isASCIIDigit(r[i-1]) {
		i--
	}
	if i < len(r) {
		n, err := strconv.Atoi(string(r[i:]))
		if err != nil {
			return "", 0, uerr.Formatf("unit term %q: malformed exponent", symbol)
		}
		if i > 0 && r[i-1] == '-' {
			n = -n
			i--
		}
		return checkedBase(symbol, r[:i], n)
	}

	n, scale := 0, 1
	for i > 0 {
		d, ok := superscriptValue(r[i-1])
		if !ok {
			break
		}
		n += d * scale
		scale *= 10
		i--
	}
	if i < len(r) {
		if i > 0 && r[i-1] == superscriptMinus {
			n = -n
			i--
		}
		return checkedBase(symbol, r[:i], n)
	}
	return checkedBase(symbol, r, 1)
}

func checkedBase(symbol string, base []rune, exp int) (string, int, error) {
	if len(base) == 0 {
		return "", 0, uerr.Formatf("unit term %q: missing unit symbol", symbol)
	}
	if isExponentRune(base[len(base)-1]) {
		return "", 0, uerr.Formatf("unit term %q: malformed exponent", symbol)
	}
	return string(base), exp, nil
}

// resolveSymbol finds the unit (and prefix) named by an exponent-free symbol.
// Exact matches win; otherwise the longest prefix whose remainder is an ASCII or
// Unicode unit symbol accepting that prefix is used.
func resolveSymbol(cat Catalog, symbol string) (*Unit, *Prefix, error) {
	if u, ok := cat.LookupUnit(symbol); ok {
		return u, nil, nil
	}
	if u, ok := cat.LookupAlternate(symbol); ok {
		return u, nil, nil
	}

	type candidate struct {
		prefix   *Prefix
		spelling string
	}
	var candidates []candidate
	for _, p := range cat.Prefixes() {
		for _, spelling := range p.Symbols() {
			if spelling != "" && len(spelling) < len(symbol) && strings.HasPrefix(symbol, spelling) {
				candidates = append(candidates, candidate{prefix: p, spelling: spelling})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return utf8.RuneCountInString(candidates[i].spelling) > utf8.RuneCountInString(candidates[j].spelling)
	})

	var rejected error
	for _, c := range candidates {
		u, ok := cat.LookupUnit(symbol[len(c.spelling):])
		if !ok {
			continue
		}
		if u.AcceptsPrefix(c.prefix) {
			return u, c.prefix, nil
		}
		if rejected == nil {
			rejected = uerr.Domainf("unit %q does not accept prefix %q", u.Symbol, c.prefix.Symbol)
		}
	}
	if rejected != nil {
		return nil, nil, rejected
	}
	return nil, nil, uerr.Domainf("unknown unit symbol %q", symbol)
}

// SIBaseUnitTerm returns the SI base unit term of an axis, e.g. kg for mass.
func SIBaseUnitTerm(cat Catalog, axis dimension.Axis) (UnitTerm, error) {
	sym, err := dimension.SIBaseUnitSymbol(axis)
	if err != nil {
		return UnitTerm{}, err
	}
	return ParseTerm(cat, sym)
}
