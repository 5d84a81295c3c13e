// Package quantity does arithmetic on values carrying a unit and a relative error.
package quantity

import (
	"fmt"
	"math"

	"github.com/inference-sim/unitconv/units"
	"github.com/inference-sim/unitconv/units/uerr"
)

// Quantity is a value expressed in a derived unit.
type Quantity struct {
	Value         float64
	RelativeError float64
	Unit          units.DerivedUnit
}

// AbsoluteError returns |Value| × RelativeError.
func (q Quantity) AbsoluteError() float64 {
	return math.Abs(q.Value) * q.RelativeError
}

func (q Quantity) String() string {
	sym := q.Unit.Symbol()
	if q.Unit.Len() == 0 {
		return fmt.Sprintf("%g", q.Value)
	}
	return fmt.Sprintf("%g %s", q.Value, sym)
}

// Calculator combines quantities, converting operands through a converter set.
type Calculator struct {
	convs *units.Converters
}

// NewCalculator returns a Calculator over convs.
func NewCalculator(convs *units.Converters) *Calculator {
	return &Calculator{convs: convs}
}

// New parses symbol and returns an exact quantity.
func (c *Calculator) New(value float64, symbol string) (Quantity, error) {
	u, err := c.convs.Parse(symbol)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: value, Unit: u}, nil
}

// To converts q into the unit named by symbol.
func (c *Calculator) To(q Quantity, symbol string) (Quantity, error) {
	u, err := c.convs.Parse(symbol)
	if err != nil {
		return Quantity{}, err
	}
	return c.ToUnit(q, u)
}

// ToUnit converts q into u. It fails with ErrDomain when the dimensions differ and
// with ErrNoPath when no conversion exists.
func (c *Calculator) ToUnit(q Quantity, u units.DerivedUnit) (Quantity, error) {
	conv, err := c.convs.ForUnit(q.Unit)
	if err != nil {
		return Quantity{}, err
	}
	cv, ok, err := conv.ConversionBetween(q.Unit, u)
	if err != nil {
		return Quantity{}, err
	}
	if !ok {
		return Quantity{}, uerr.NoPathf("quantity: no conversion from %q to %q", q.Unit.Symbol(), u.Symbol())
	}
	return Quantity{
		Value:         cv.Apply(q.Value),
		RelativeError: q.RelativeError + cv.RelativeError(),
		Unit:          u,
	}, nil
}

// Add returns a + b in the unit of a.
func (c *Calculator) Add(a, b Quantity) (Quantity, error) {
	return c.sum(a, b, 1)
}

// Sub returns a - b in the unit of a.
func (c *Calculator) Sub(a, b Quantity) (Quantity, error) {
	return c.sum(a, b, -1)
}

func (c *Calculator) sum(a, b Quantity, sign float64) (Quantity, error) {
	bb, err := c.ToUnit(b, a.Unit)
	if err != nil {
		return Quantity{}, err
	}
	v := a.Value + sign*bb.Value
	abs := a.AbsoluteError() + bb.AbsoluteError()
	return Quantity{Value: v, RelativeError: relative(abs, v), Unit: a.Unit}, nil
}

func relative(abs, v float64) float64 {
	switch {
	case abs == 0:
		return 0
	case v == 0:
		return math.Inf(1)
	}
	return abs / math.Abs(v)
}

// Mul returns a × b. Terms of the same unit dimension are merged into the unit of
// the first such term, so m × ft yields m².
func (c *Calculator) Mul(a, b Quantity) (Quantity, error) {
	u, err := a.Unit.Multiply(b.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return c.merged(a.Value*b.Value, a.RelativeError+b.RelativeError, u)
}

// Div returns a / b, merged like Mul. Division by a zero value is a Domain error.
func (c *Calculator) Div(a, b Quantity) (Quantity, error) {
	if b.Value == 0 {
		return Quantity{}, uerr.Domainf("quantity: division by zero %s", b.Unit.Symbol())
	}
	u, err := a.Unit.Divide(b.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return c.merged(a.Value/b.Value, a.RelativeError+b.RelativeError, u)
}

func (c *Calculator) merged(value, relErr float64, u units.DerivedUnit) (Quantity, error) {
	v, m, err := c.convs.Merge(value, u)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: v, RelativeError: relErr, Unit: m}, nil
}

// Expand rewrites named units of q one level into their definitions, e.g. kN -> kg·m/s².
func (c *Calculator) Expand(q Quantity) (Quantity, error) {
	v, u, err := c.convs.Expand(q.Value, q.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: v, RelativeError: q.RelativeError, Unit: u}, nil
}

// Compare converts b into the unit of a and returns -1, 0 or +1.
func (c *Calculator) Compare(a, b Quantity) (int, error) {
	bb, err := c.ToUnit(b, a.Unit)
	if err != nil {
		return 0, err
	}
	switch {
	case a.Value < bb.Value:
		return -1, nil
	case a.Value > bb.Value:
		return 1, nil
	}
	return 0, nil
}
