package units

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/unitconv/units/uerr"
)

type symbolPair struct {
	src, dest string
}

// Converter resolves conversion factors between units of one dimension. It reads the
// registered conversions of its dimension lazily, on the first lookup, and memoizes
// every resolved pair, including pairs with no path. Converters are obtained from
// Converters.GetByDimension and are not safe for concurrent use.
type Converter struct {
	set       *Converters
	dimension string

	// graph holds the registered edges: graph[src][dest]. nil until first use.
	graph map[string]map[string]ConversionValue
	// symbols lists the units taking part in the graph, in registration order.
	symbols []string
	// memo caches resolved pairs of unprefixed symbols and derived caches resolved
	// pairs of canonical derived-unit symbols. A nil entry records that no path exists.
	memo    map[symbolPair]*Conversion
	derived map[symbolPair]*Conversion
}

func newConverter(set *Converters, dim string) *Converter {
	return &Converter{
		set:       set,
		dimension: dim,
		memo:      make(map[symbolPair]*Conversion),
		derived:   make(map[symbolPair]*Conversion),
	}
}

// Dimension returns the normalized dimension code served by c.
func (c *Converter) Dimension() string { return c.dimension }

// reset drops the graph and all memoized results.
func (c *Converter) reset() {
	c.graph = nil
	c.symbols = nil
	c.memo = make(map[symbolPair]*Conversion)
	c.derived = make(map[symbolPair]*Conversion)
}

func (c *Converter) buildGraph() {
	if c.graph != nil {
		return
	}
	c.graph = make(map[string]map[string]ConversionValue)
	seen := make(map[string]bool)
	edges := 0
	for _, conv := range c.set.catalog.Conversions(c.dimension) {
		if c.graph[conv.Src] == nil {
			c.graph[conv.Src] = make(map[string]ConversionValue)
		}
		c.graph[conv.Src][conv.Dest] = conv.Value
		edges++
		for _, sym := range []string{conv.Src, conv.Dest} {
			if !seen[sym] {
				seen[sym] = true
				c.symbols = append(c.symbols, sym)
			}
		}
	}
	logrus.Debugf("converter %s: graph built with %d units and %d conversions", c.dimension, len(c.symbols), edges)
}

// edge returns the registered conversion src -> dest.
func (c *Converter) edge(src, dest string) (ConversionValue, bool) {
	v, ok := c.graph[src][dest]
	return v, ok
}

// pathStrategy composes a two-hop conversion a -> b through the intermediate m.
type pathStrategy struct {
	name    string
	compose func(c *Converter, a, m, b string) (ConversionValue, bool)
}

// pathStrategies are tried for each intermediate unit in this order. With f(X->Y)
// the registered factor: chain f(A->M)·f(M->B), divergent f(M->B)/f(M->A),
// convergent f(A->M)/f(B->M), reversed chain 1/(f(B->M)·f(M->A)).
var pathStrategies = []pathStrategy{
	{name: "chain", compose: func(c *Converter, a, m, b string) (ConversionValue, bool) {
		am, ok1 := c.edge(a, m)
		mb, ok2 := c.edge(m, b)
		if !ok1 || !ok2 {
			return ConversionValue{}, false
		}
		return am.Mul(mb), true
	}},
	{name: "divergent", compose: func(c *Converter, a, m, b string) (ConversionValue, bool) {
		ma, ok1 := c.edge(m, a)
		mb, ok2 := c.edge(m, b)
		if !ok1 || !ok2 {
			return ConversionValue{}, false
		}
		return mb.Div(ma), true
	}},
	{name: "convergent", compose: func(c *Converter, a, m, b string) (ConversionValue, bool) {
		am, ok1 := c.edge(a, m)
		bm, ok2 := c.edge(b, m)
		if !ok1 || !ok2 {
			return ConversionValue{}, false
		}
		return am.Div(bm), true
	}},
	{name: "reversed chain", compose: func(c *Converter, a, m, b string) (ConversionValue, bool) {
		bm, ok1 := c.edge(b, m)
		ma, ok2 := c.edge(m, a)
		if !ok1 || !ok2 {
			return ConversionValue{}, false
		}
		return bm.Mul(ma).Inverse(), true
	}},
}

// resolve finds the conversion between two unprefixed unit symbols of this dimension.
//
// A direct edge (or the reciprocal of the reverse edge) is used as is. Otherwise every
// other unit is tried as an intermediate, with each strategy in order; the first
// candidate with zero relative error wins, else the first candidate found.
func (c *Converter) resolve(src, dest string) (Conversion, bool) {
	if src == dest {
		return Conversion{Src: src, Dest: dest, Value: exact}, true
	}
	key := symbolPair{src, dest}
	if conv, ok := c.memo[key]; ok {
		if conv == nil {
			return Conversion{}, false
		}
		return *conv, true
	}

	c.buildGraph()
	conv, found := c.search(src, dest)
	if !found {
		logrus.Debugf("converter %s: no path from %q to %q", c.dimension, src, dest)
		c.memo[key] = nil
		return Conversion{}, false
	}
	c.memo[key] = &conv
	return conv, true
}

func (c *Converter) search(src, dest string) (Conversion, bool) {
	if v, ok := c.edge(src, dest); ok {
		return Conversion{Src: src, Dest: dest, Value: v}, true
	}
	if v, ok := c.edge(dest, src); ok {
		return Conversion{Src: src, Dest: dest, Value: v.Inverse()}, true
	}

	var first *Conversion
	for _, m := range c.symbols {
		if m == src || m == dest {
			continue
		}
		for _, strategy := range pathStrategies {
			v, ok := strategy.compose(c, src, m, dest)
			if !ok {
				continue
			}
			if v.RelativeError == 0 {
				logrus.Debugf("converter %s: %q -> %q via %q (%s, exact)", c.dimension, src, dest, m, strategy.name)
				return Conversion{Src: src, Dest: dest, Value: v}, true
			}
			if first == nil {
				logrus.Debugf("converter %s: %q -> %q via %q (%s)", c.dimension, src, dest, m, strategy.name)
				first = &Conversion{Src: src, Dest: dest, Value: v}
			}
		}
	}
	if first == nil {
		return Conversion{}, false
	}
	return *first, true
}

// ValidateUnit parses symbol and checks that its dimension is the converter's.
func (c *Converter) ValidateUnit(symbol string) (DerivedUnit, error) {
	u, err := Parse(c.set.catalog, symbol)
	if err != nil {
		return DerivedUnit{}, err
	}
	if err := c.ValidateDerived(u); err != nil {
		return DerivedUnit{}, err
	}
	return u, nil
}

// ValidateDerived checks that u has the converter's dimension.
func (c *Converter) ValidateDerived(u DerivedUnit) error {
	if u.Dimension() == c.dimension {
		return nil
	}
	if name, ok := c.set.catalog.QuantityName(c.dimension); ok {
		return uerr.Domainf("unit %q is invalid for %s quantities", u.Symbol(), name)
	}
	return uerr.Domainf("unit %q has dimension %q, expected %q", u.Symbol(), u.Dimension(), c.dimension)
}

// GetConversion resolves the conversion from src to dest. ok is false when both
// units are valid but no conversion path exists.
func (c *Converter) GetConversion(src, dest string) (Conversion, bool, error) {
	s, err := c.ValidateUnit(src)
	if err != nil {
		return Conversion{}, false, err
	}
	d, err := c.ValidateUnit(dest)
	if err != nil {
		return Conversion{}, false, err
	}
	return c.ConversionBetween(s, d)
}

// GetConversionFactor returns the factor f with value_dest = value_src × f.
func (c *Converter) GetConversionFactor(src, dest string) (float64, bool, error) {
	conv, ok, err := c.GetConversion(src, dest)
	if err != nil || !ok {
		return 0, false, err
	}
	return conv.Factor(), true, nil
}

// ConversionBetween resolves the conversion between two derived units of the
// converter's dimension.
func (c *Converter) ConversionBetween(src, dest DerivedUnit) (Conversion, bool, error) {
	if err := c.ValidateDerived(src); err != nil {
		return Conversion{}, false, err
	}
	if err := c.ValidateDerived(dest); err != nil {
		return Conversion{}, false, err
	}
	key := symbolPair{src.Symbol(), dest.Symbol()}
	if conv, ok := c.derived[key]; ok {
		if conv == nil {
			return Conversion{}, false, nil
		}
		return *conv, true, nil
	}
	v, ok, err := c.set.factor(src, dest)
	if err != nil {
		return Conversion{}, false, err
	}
	if !ok {
		c.derived[key] = nil
		return Conversion{}, false, nil
	}
	conv := Conversion{Src: key.src, Dest: key.dest, Value: v}
	c.derived[key] = &conv
	return conv, true, nil
}

// Convert converts value from src to dest. Unlike the query methods it fails with
// an ErrNoPath error when no conversion exists.
func (c *Converter) Convert(value float64, src, dest string) (float64, error) {
	conv, ok, err := c.GetConversion(src, dest)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, uerr.NoPathf("converter %s: no conversion from %q to %q", c.dimension, src, dest)
	}
	return conv.Apply(value), nil
}

func (c *Converter) String() string {
	return fmt.Sprintf("Converter(%s)", c.dimension)
}
