package units

import (
	"fmt"
	"math"
)

// ConversionValue is a conversion factor with its relative (fractional) uncertainty.
// Relative errors add under multiplication and division.
type ConversionValue struct {
	Value         float64
	RelativeError float64
}

// exact is the identity factor.
var exact = ConversionValue{Value: 1}

// NewConversionValue validates and returns a ConversionValue.
func NewConversionValue(value, relativeError float64) (ConversionValue, error) {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return ConversionValue{}, fmt.Errorf("conversion value must be finite and non-zero, got %v", value)
	}
	if relativeError < 0 || math.IsNaN(relativeError) || math.IsInf(relativeError, 0) {
		return ConversionValue{}, fmt.Errorf("relative error must be finite and >= 0, got %v", relativeError)
	}
	return ConversionValue{Value: value, RelativeError: relativeError}, nil
}

// Mul composes two factors applied one after the other.
func (v ConversionValue) Mul(o ConversionValue) ConversionValue {
	return ConversionValue{Value: v.Value * o.Value, RelativeError: v.RelativeError + o.RelativeError}
}

// Div divides v by o.
func (v ConversionValue) Div(o ConversionValue) ConversionValue {
	return ConversionValue{Value: v.Value / o.Value, RelativeError: v.RelativeError + o.RelativeError}
}

// Inverse returns the reciprocal factor; the relative error is unchanged.
func (v ConversionValue) Inverse() ConversionValue {
	return ConversionValue{Value: 1 / v.Value, RelativeError: v.RelativeError}
}

// Pow raises the factor to n; the relative error scales by |n|.
func (v ConversionValue) Pow(n int) ConversionValue {
	switch n {
	case 1:
		return v
	case -1:
		return v.Inverse()
	}
	return ConversionValue{
		Value:         math.Pow(v.Value, float64(n)),
		RelativeError: math.Abs(float64(n)) * v.RelativeError,
	}
}

// AbsoluteError returns |Value| × RelativeError.
func (v ConversionValue) AbsoluteError() float64 {
	return math.Abs(v.Value) * v.RelativeError
}

// Conversion is a directed relationship: 1 Src = Value.Value Dest.
type Conversion struct {
	Src   string
	Dest  string
	Value ConversionValue
}

// Factor returns the multiplicative factor from Src to Dest.
func (c Conversion) Factor() float64 { return c.Value.Value }

// RelativeError returns the relative uncertainty of the factor.
func (c Conversion) RelativeError() float64 { return c.Value.RelativeError }

// Inverse returns the conversion from Dest to Src.
func (c Conversion) Inverse() Conversion {
	return Conversion{Src: c.Dest, Dest: c.Src, Value: c.Value.Inverse()}
}

// Apply converts a value expressed in Src into Dest.
func (c Conversion) Apply(x float64) float64 { return x * c.Value.Value }

func (c Conversion) String() string {
	return fmt.Sprintf("1 %s = %g %s (±%g)", c.Src, c.Value.Value, c.Dest, c.Value.RelativeError)
}
