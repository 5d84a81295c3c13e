// Package dimension encodes physical dimensions as exponent vectors over a fixed
// set of axes and converts between vectors and their textual dimension codes.
//
// A dimension code lists (axis letter, exponent) pairs, e.g. "MLT-2" for force or
// "L2" for area. The literal "1" denotes a dimensionless quantity. Exponents are a
// single digit with an optional minus sign; an exponent of 1 is written by omitting it.
package dimension

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/inference-sim/unitconv/units/uerr"
)

// Axis is a base dimension, identified by its code letter.
type Axis byte

const (
	Mass        Axis = 'M'
	Length      Axis = 'L'
	Time        Axis = 'T'
	Current     Axis = 'I'
	Temperature Axis = 'H'
	Amount      Axis = 'N'
	Luminosity  Axis = 'J'
	Angle       Axis = 'A'
	Digital     Axis = 'D'
	Currency    Axis = 'C'
)

// Dimensionless is the code of a dimensionless quantity.
const Dimensionless = "1"

// axes lists every axis in canonical priority order.
var axes = []Axis{Mass, Length, Time, Current, Temperature, Amount, Luminosity, Angle, Digital, Currency}

var axisNames = map[Axis]string{
	Mass:        "mass",
	Length:      "length",
	Time:        "time",
	Current:     "electric current",
	Temperature: "temperature",
	Amount:      "amount of substance",
	Luminosity:  "luminous intensity",
	Angle:       "plane angle",
	Digital:     "digital information",
	Currency:    "currency",
}

var siBaseUnitSymbols = map[Axis]string{
	Mass:        "kg",
	Length:      "m",
	Time:        "s",
	Current:     "A",
	Temperature: "K",
	Amount:      "mol",
	Luminosity:  "cd",
	Angle:       "rad",
	Digital:     "B",
	Currency:    "USD",
}

var codePattern = regexp.MustCompile(`^(?:[A-Z](?:-?\d)?)+$`)

// Axes returns all axes in canonical priority order.
func Axes() []Axis {
	out := make([]Axis, len(axes))
	copy(out, axes)
	return out
}

// Name returns the human-readable axis name, or "" for an unknown axis.
func (a Axis) Name() string { return axisNames[a] }

func (a Axis) String() string { return string(a) }

// Valid reports whether a is one of the known axes.
func (a Axis) Valid() bool {
	_, ok := axisNames[a]
	return ok
}

// priority returns the canonical sort index of a, or -1 if unknown.
func (a Axis) priority() int {
	for i, ax := range axes {
		if ax == a {
			return i
		}
	}
	return -1
}

// AxisIndex maps a single axis letter to its canonical priority index.
func AxisIndex(letter string) (int, error) {
	if len(letter) != 1 {
		return 0, uerr.Domainf("dimension: axis letter must be a single character, got %q", letter)
	}
	idx := Axis(letter[0]).priority()
	if idx < 0 {
		return 0, uerr.Domainf("dimension: unknown axis letter %q", letter)
	}
	return idx, nil
}

// SIBaseUnitSymbol returns the symbol of the SI (or conventional) base unit for an axis.
func SIBaseUnitSymbol(a Axis) (string, error) {
	sym, ok := siBaseUnitSymbols[a]
	if !ok {
		return "", uerr.Domainf("dimension: unknown axis %q", string(a))
	}
	return sym, nil
}

// IsValid reports whether code is syntactically a dimension code.
// Multi-digit exponents are not part of the grammar.
func IsValid(code string) bool {
	return code == Dimensionless || codePattern.MatchString(code)
}

// Vector maps axes to integer exponents.
type Vector map[Axis]int

// Decompose parses a dimension code into a Vector. Repeated axis letters accumulate.
func Decompose(code string) (Vector, error) {
	if !IsValid(code) {
		return nil, uerr.Domainf("dimension: invalid dimension code %q", code)
	}
	v := Vector{}
	if code == Dimensionless {
		return v, nil
	}
	for i := 0; i < len(code); {
		a := Axis(code[i])
		if !a.Valid() {
			return nil, uerr.Domainf("dimension: invalid dimension code %q: unknown axis %q", code, string(a))
		}
		i++
		sign := 1
		if i < len(code) && code[i] == '-' {
			sign = -1
			i++
		}
		exp := 1
		if i < len(code) && code[i] >= '0' && code[i] <= '9' {
			exp = int(code[i] - '0')
			i++
		}
		v[a] += sign * exp
	}
	return v, nil
}

// Compose renders v as a canonical code: axes in priority order, zero exponents
// omitted, exponents of 1 omitted, "1" for the empty vector.
func Compose(v Vector) string {
	return format(v, false)
}

func format(v Vector, keepZero bool) string {
	keys := make([]Axis, 0, len(v))
	for a, exp := range v {
		if exp == 0 && !keepZero {
			continue
		}
		keys = append(keys, a)
	}
	if len(keys) == 0 {
		return Dimensionless
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].priority() < keys[j].priority() })
	var b strings.Builder
	for _, a := range keys {
		b.WriteByte(byte(a))
		if exp := v[a]; exp != 1 {
			b.WriteString(strconv.Itoa(exp))
		}
	}
	return b.String()
}

// Normalize returns the canonical form of code.
func Normalize(code string) (string, error) {
	v, err := Decompose(code)
	if err != nil {
		return "", err
	}
	return Compose(v), nil
}

// ApplyExponent raises the dimension to the power n by scaling every exponent.
// With n == 0 the axes are kept with explicit zero exponents ("L" -> "L0"); callers
// that want "1" must Normalize the result.
func ApplyExponent(code string, n int) (string, error) {
	v, err := Decompose(code)
	if err != nil {
		return "", err
	}
	return format(v.Scale(n), n == 0), nil
}

// Multiply returns the normalized code of the product of the given dimensions.
func Multiply(codes ...string) (string, error) {
	sum := Vector{}
	for _, code := range codes {
		v, err := Decompose(code)
		if err != nil {
			return "", err
		}
		sum = sum.Add(v)
	}
	return Compose(sum), nil
}

// Add returns the exponent-wise sum of v and o.
func (v Vector) Add(o Vector) Vector {
	out := make(Vector, len(v)+len(o))
	for a, exp := range v {
		out[a] += exp
	}
	for a, exp := range o {
		out[a] += exp
	}
	return out
}

// Scale returns v with every exponent multiplied by n.
func (v Vector) Scale(n int) Vector {
	out := make(Vector, len(v))
	for a, exp := range v {
		out[a] = exp * n
	}
	return out
}

// BaseAxis reports whether code names a single axis with exponent 1 and returns it.
func BaseAxis(code string) (Axis, bool) {
	v, err := Decompose(code)
	if err != nil {
		return 0, false
	}
	var found Axis
	n := 0
	for a, exp := range v {
		if exp == 0 {
			continue
		}
		if exp != 1 {
			return 0, false
		}
		found = a
		n++
	}
	return found, n == 1
}
