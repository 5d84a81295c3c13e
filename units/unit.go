package units

import (
	"fmt"
	"strings"

	"github.com/inference-sim/unitconv/units/dimension"
)

// PrefixGroup is a bit set of prefix families a unit accepts.
type PrefixGroup uint8

const (
	SmallMetric PrefixGroup = 1 << iota // d, c, m, μ, n, ...
	LargeMetric                         // da, h, k, M, G, ...
	Binary                              // Ki, Mi, Gi, ...

	NoPrefixes  PrefixGroup = 0
	Metric      PrefixGroup = SmallMetric | LargeMetric
	Large       PrefixGroup = LargeMetric | Binary
	AllPrefixes PrefixGroup = Metric | Binary
)

var prefixGroupNames = map[string]PrefixGroup{
	"":             NoPrefixes,
	"none":         NoPrefixes,
	"small_metric": SmallMetric,
	"large_metric": LargeMetric,
	"metric":       Metric,
	"binary":       Binary,
	"large":        Large,
	"all":          AllPrefixes,
}

// ParsePrefixGroup maps a table name ("metric", "binary", ...) to a PrefixGroup.
func ParsePrefixGroup(name string) (PrefixGroup, error) {
	g, ok := prefixGroupNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown prefix group %q", name)
	}
	return g, nil
}

// String returns the canonical table name of g.
func (g PrefixGroup) String() string {
	switch g {
	case NoPrefixes:
		return "none"
	case SmallMetric:
		return "small_metric"
	case LargeMetric:
		return "large_metric"
	case Metric:
		return "metric"
	case Binary:
		return "binary"
	case Large:
		return "large"
	case AllPrefixes:
		return "all"
	}
	return fmt.Sprintf("PrefixGroup(%d)", uint8(g))
}

// System is a measurement system a unit belongs to.
type System string

const (
	SI           System = "si"
	SIAccepted   System = "si_accepted"
	Imperial     System = "imperial"
	USCustomary  System = "us_customary"
	CGS          System = "cgs"
	Nautical     System = "nautical"
	Astronomical System = "astronomical"
	Common       System = "common"
)

// Prefix scales a unit by Base^Exponent.
type Prefix struct {
	Name     string
	Symbol   string
	Unicode  string
	Aliases  []string
	Base     int
	Exponent int
	Group    PrefixGroup
}

// Multiplier returns Base^Exponent.
func (p *Prefix) Multiplier() float64 {
	if p == nil {
		return 1
	}
	return pow(p.Base, p.Exponent)
}

// Symbols returns every spelling of the prefix: ASCII, Unicode, then aliases.
func (p *Prefix) Symbols() []string {
	out := []string{p.Symbol}
	if p.Unicode != "" && p.Unicode != p.Symbol {
		out = append(out, p.Unicode)
	}
	return append(out, p.Aliases...)
}

// UnicodeSymbol returns the Unicode spelling, falling back to the ASCII symbol.
func (p *Prefix) UnicodeSymbol() string {
	if p.Unicode != "" {
		return p.Unicode
	}
	return p.Symbol
}

// Expansion names the base-form equivalent of a named derived unit:
// 1 unit = Multiplier × Symbol.
type Expansion struct {
	Symbol     string
	Multiplier float64
}

// Unit is a registered unit of measure. Units are shared by pointer and must not be
// modified once handed to a Catalog.
type Unit struct {
	Name      string
	Symbol    string
	Unicode   string
	Alternate string
	Dimension string
	Prefixes  PrefixGroup
	Systems   []System
	Expansion *Expansion
}

// Scalar is the dimensionless unit with an empty symbol.
var Scalar = &Unit{Name: "scalar", Dimension: dimension.Dimensionless}

// AcceptsPrefix reports whether p may be applied to u.
func (u *Unit) AcceptsPrefix(p *Prefix) bool {
	return p != nil && u.Prefixes&p.Group != 0
}

// UnicodeSymbol returns the Unicode spelling, falling back to the ASCII symbol.
func (u *Unit) UnicodeSymbol() string {
	if u.Unicode != "" {
		return u.Unicode
	}
	return u.Symbol
}

// InSystem reports whether u belongs to s.
func (u *Unit) InSystem(s System) bool {
	for _, sys := range u.Systems {
		if sys == s {
			return true
		}
	}
	return false
}

// Equal compares units by symbol and dimension.
func (u *Unit) Equal(o *Unit) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.Symbol == o.Symbol && u.Dimension == o.Dimension
}

func (u *Unit) String() string { return u.Symbol }

// UnitLookup resolves exact, unprefixed unit symbols.
type UnitLookup interface {
	// LookupUnit matches the ASCII or Unicode symbol of a unit.
	LookupUnit(symbol string) (*Unit, bool)
	// LookupAlternate matches an alternate symbol; these never take a prefix.
	LookupAlternate(symbol string) (*Unit, bool)
}

// PrefixLookup enumerates the registered prefixes.
type PrefixLookup interface {
	Prefixes() []*Prefix
}

// ConversionSource enumerates registered conversions between unprefixed units.
type ConversionSource interface {
	// Conversions returns the edges registered for a normalized dimension code,
	// in registration order.
	Conversions(dim string) []Conversion
}

// QuantityNamer names the quantity type of a dimension, e.g. "L" -> "length".
type QuantityNamer interface {
	QuantityName(dim string) (string, bool)
}

// Catalog is the read-only view of the unit, prefix, conversion and quantity tables
// consumed by the parser and the converters.
type Catalog interface {
	UnitLookup
	PrefixLookup
	ConversionSource
	QuantityNamer
}
