// Package registry provides the bundled units.Catalog: an in-memory set of prefix,
// unit, conversion and quantity tables.
//
// A Registry is filled from a YAML or msgpack tables document (see Tables) or built
// programmatically with the Add* methods. Default returns a fresh registry over the
// embedded data/units.yaml. A Registry is not safe for concurrent mutation; after
// mutating a registry that backs a units.Converters, call Converters.Clear.
package registry

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/unitconv/units"
	"github.com/inference-sim/unitconv/units/dimension"
	"github.com/inference-sim/unitconv/units/uerr"
)

// reservedRunes may not appear in a unit or prefix symbol: they are part of the
// compound-unit grammar.
const reservedRunes = "*/·⋅() \t-"

type edgeKey struct {
	from, to string
}

// Registry is an in-memory units.Catalog.
type Registry struct {
	version string

	prefixes      []*units.Prefix
	prefixSymbols map[string]*units.Prefix

	units     []*units.Unit
	symbols   map[string]*units.Unit // ASCII and Unicode symbols
	alternate map[string]*units.Unit

	conversions map[string][]units.Conversion // by normalized dimension
	edges       map[edgeKey]bool
	edgeOrder   []ConversionSpec

	quantities     map[string]string
	quantityOrder  []QuantitySpec
	quantityByName map[string]string
}

var _ units.Catalog = (*Registry)(nil)

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		prefixSymbols:  make(map[string]*units.Prefix),
		symbols:        make(map[string]*units.Unit),
		alternate:      make(map[string]*units.Unit),
		conversions:    make(map[string][]units.Conversion),
		edges:          make(map[edgeKey]bool),
		quantities:     make(map[string]string),
		quantityByName: make(map[string]string),
	}
}

// Version returns the version string of the loaded tables, if any.
func (r *Registry) Version() string { return r.version }

// LookupUnit matches the ASCII or Unicode symbol of a registered unit.
func (r *Registry) LookupUnit(symbol string) (*units.Unit, bool) {
	u, ok := r.symbols[symbol]
	return u, ok
}

// LookupAlternate matches an alternate symbol.
func (r *Registry) LookupAlternate(symbol string) (*units.Unit, bool) {
	u, ok := r.alternate[symbol]
	return u, ok
}

// Prefixes returns the registered prefixes in registration order.
func (r *Registry) Prefixes() []*units.Prefix {
	out := make([]*units.Prefix, len(r.prefixes))
	copy(out, r.prefixes)
	return out
}

// Units returns the registered units in registration order.
func (r *Registry) Units() []*units.Unit {
	out := make([]*units.Unit, len(r.units))
	copy(out, r.units)
	return out
}

// Conversions returns the edges registered for a normalized dimension code.
func (r *Registry) Conversions(dim string) []units.Conversion {
	src := r.conversions[dim]
	out := make([]units.Conversion, len(src))
	copy(out, src)
	return out
}

// QuantityName names the quantity type of a normalized dimension code.
func (r *Registry) QuantityName(dim string) (string, bool) {
	name, ok := r.quantities[dim]
	return name, ok
}

// QuantityDimension returns the dimension code registered for a quantity name.
func (r *Registry) QuantityDimension(name string) (string, bool) {
	dim, ok := r.quantityByName[strings.ToLower(name)]
	return dim, ok
}

// AddPrefix registers a prefix. Every spelling (symbol, Unicode form, aliases) must be
// unused by other prefixes.
func (r *Registry) AddPrefix(spec PrefixSpec) error {
	if spec.Name == "" || spec.Symbol == "" {
		return uerr.Domainf("registry: prefix needs a name and a symbol")
	}
	if spec.Base < 2 {
		return uerr.Domainf("registry: prefix %q: base must be >= 2, got %d", spec.Symbol, spec.Base)
	}
	if spec.Exponent == 0 {
		return uerr.Domainf("registry: prefix %q: exponent must not be zero", spec.Symbol)
	}
	group, err := units.ParsePrefixGroup(spec.Group)
	if err != nil {
		return uerr.Domainf("registry: prefix %q: %v", spec.Symbol, err)
	}
	switch group {
	case units.SmallMetric, units.LargeMetric, units.Binary:
	default:
		return uerr.Domainf("registry: prefix %q: group must be small_metric, large_metric or binary, got %q", spec.Symbol, spec.Group)
	}

	p := &units.Prefix{
		Name:     spec.Name,
		Symbol:   spec.Symbol,
		Unicode:  spec.Unicode,
		Aliases:  append([]string(nil), spec.Aliases...),
		Base:     spec.Base,
		Exponent: spec.Exponent,
		Group:    group,
	}
	for _, s := range p.Symbols() {
		if err := checkSymbol("prefix", s); err != nil {
			return err
		}
		if other, ok := r.prefixSymbols[s]; ok {
			return uerr.Domainf("registry: prefix symbol %q already used by %q", s, other.Name)
		}
	}
	for _, s := range p.Symbols() {
		r.prefixSymbols[s] = p
	}
	r.prefixes = append(r.prefixes, p)
	return nil
}

// AddUnit registers a unit. The dimension is normalized; symbols must be unique
// across ASCII, Unicode and alternate spellings. Expansion targets are checked by
// Validate, since they may name units registered later.
func (r *Registry) AddUnit(spec UnitSpec) (*units.Unit, error) {
	if spec.Name == "" || spec.Symbol == "" {
		return nil, uerr.Domainf("registry: unit needs a name and a symbol")
	}
	dim, err := dimension.Normalize(spec.Dimension)
	if err != nil {
		return nil, fmt.Errorf("registry: unit %q: %w", spec.Symbol, err)
	}
	group, err := units.ParsePrefixGroup(spec.Prefixes)
	if err != nil {
		return nil, uerr.Domainf("registry: unit %q: %v", spec.Symbol, err)
	}

	spellings := []string{spec.Symbol}
	if spec.Unicode != "" && spec.Unicode != spec.Symbol {
		spellings = append(spellings, spec.Unicode)
	}
	if spec.Alternate != "" {
		spellings = append(spellings, spec.Alternate)
	}
	for _, s := range spellings {
		if err := checkSymbol("unit", s); err != nil {
			return nil, err
		}
		if other, ok := r.symbols[s]; ok {
			return nil, uerr.Domainf("registry: unit symbol %q already used by %q", s, other.Name)
		}
		if other, ok := r.alternate[s]; ok {
			return nil, uerr.Domainf("registry: unit symbol %q already used by %q", s, other.Name)
		}
	}

	u := &units.Unit{
		Name:      spec.Name,
		Symbol:    spec.Symbol,
		Unicode:   spec.Unicode,
		Alternate: spec.Alternate,
		Dimension: dim,
		Prefixes:  group,
	}
	for _, s := range spec.Systems {
		u.Systems = append(u.Systems, units.System(s))
	}
	if spec.Expansion != nil {
		m := spec.Expansion.Multiplier
		if m == 0 {
			m = 1
		}
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, uerr.Domainf("registry: unit %q: expansion multiplier must be finite", spec.Symbol)
		}
		u.Expansion = &units.Expansion{Symbol: spec.Expansion.Symbol, Multiplier: m}
	}

	r.symbols[u.Symbol] = u
	if u.Unicode != "" {
		r.symbols[u.Unicode] = u
	}
	if u.Alternate != "" {
		r.alternate[u.Alternate] = u
	}
	r.units = append(r.units, u)
	return u, nil
}

// AddConversion registers 1 From = Factor To between two unprefixed units of the
// same dimension.
func (r *Registry) AddConversion(spec ConversionSpec) error {
	from, ok := r.symbols[spec.From]
	if !ok {
		return uerr.Domainf("registry: conversion %s -> %s: unknown unit %q", spec.From, spec.To, spec.From)
	}
	to, ok := r.symbols[spec.To]
	if !ok {
		return uerr.Domainf("registry: conversion %s -> %s: unknown unit %q", spec.From, spec.To, spec.To)
	}
	if from == to {
		return uerr.Domainf("registry: conversion %s -> %s: endpoints are the same unit", spec.From, spec.To)
	}
	if from.Dimension != to.Dimension {
		return uerr.Domainf("registry: conversion %s -> %s: dimension %q does not match %q", spec.From, spec.To, from.Dimension, to.Dimension)
	}
	v, err := units.NewConversionValue(spec.Factor, spec.Error)
	if err != nil {
		return uerr.Domainf("registry: conversion %s -> %s: %v", spec.From, spec.To, err)
	}
	key := edgeKey{from.Symbol, to.Symbol}
	if r.edges[key] {
		return uerr.Domainf("registry: conversion %s -> %s registered twice", spec.From, spec.To)
	}
	if r.edges[edgeKey{to.Symbol, from.Symbol}] {
		logrus.Warnf("registry: conversion %s -> %s also registered in reverse", spec.From, spec.To)
	}
	r.edges[key] = true
	r.conversions[from.Dimension] = append(r.conversions[from.Dimension], units.Conversion{
		Src:   from.Symbol,
		Dest:  to.Symbol,
		Value: v,
	})
	r.edgeOrder = append(r.edgeOrder, ConversionSpec{From: from.Symbol, To: to.Symbol, Factor: v.Value, Error: v.RelativeError})
	return nil
}

// AddQuantity names the quantity type of a dimension.
func (r *Registry) AddQuantity(spec QuantitySpec) error {
	if spec.Name == "" {
		return uerr.Domainf("registry: quantity needs a name")
	}
	dim, err := dimension.Normalize(spec.Dimension)
	if err != nil {
		return fmt.Errorf("registry: quantity %q: %w", spec.Name, err)
	}
	if other, ok := r.quantities[dim]; ok {
		return uerr.Domainf("registry: dimension %q already named %q", dim, other)
	}
	key := strings.ToLower(spec.Name)
	if other, ok := r.quantityByName[key]; ok {
		return uerr.Domainf("registry: quantity %q already registered for %q", spec.Name, other)
	}
	r.quantities[dim] = spec.Name
	r.quantityByName[key] = dim
	r.quantityOrder = append(r.quantityOrder, QuantitySpec{Name: spec.Name, Dimension: dim})
	return nil
}

// Validate checks cross-table references: every expansion must parse against the
// registry and have its unit's dimension. Units of compound dimension that can take
// part in no conversion are reported at warn level.
func (r *Registry) Validate() error {
	for _, u := range r.units {
		if u.Expansion == nil {
			continue
		}
		target, err := units.Parse(r, u.Expansion.Symbol)
		if err != nil {
			return fmt.Errorf("registry: unit %q: expansion: %w", u.Symbol, err)
		}
		if target.Dimension() != u.Dimension {
			return uerr.Domainf("registry: unit %q: expansion %q has dimension %q, expected %q",
				u.Symbol, u.Expansion.Symbol, target.Dimension(), u.Dimension)
		}
	}
	for _, u := range r.units {
		if u.Expansion != nil || u.Dimension == dimension.Dimensionless {
			continue
		}
		if _, base := dimension.BaseAxis(u.Dimension); base {
			continue
		}
		if !r.hasEdge(u.Symbol) {
			logrus.Warnf("registry: unit %q (%s) has neither an expansion nor a conversion", u.Symbol, u.Dimension)
		}
	}
	return nil
}

func (r *Registry) hasEdge(symbol string) bool {
	for k := range r.edges {
		if k.from == symbol || k.to == symbol {
			return true
		}
	}
	return false
}

// checkSymbol rejects symbols the compound-unit parser could not read back.
func checkSymbol(kind, s string) error {
	if s == "" {
		return uerr.Domainf("registry: empty %s symbol", kind)
	}
	if strings.ContainsAny(s, reservedRunes) {
		return uerr.Domainf("registry: %s symbol %q contains a reserved character", kind, s)
	}
	last := []rune(s)
	if r := last[len(last)-1]; unicode.IsDigit(r) || strings.ContainsRune("⁰¹²³⁴⁵⁶⁷⁸⁹⁻", r) {
		return uerr.Domainf("registry: %s symbol %q must not end in a digit", kind, s)
	}
	return nil
}
