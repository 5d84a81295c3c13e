package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/unitconv/units"
	"github.com/inference-sim/unitconv/units/quantity"
)

var (
	convertUnicode   bool // Print Unicode unit symbols
	convertShowError bool // Print the propagated absolute error
)

// --- unitconv convert VALUE FROM TO ---

var convertCmd = &cobra.Command{
	Use:   "convert VALUE FROM TO",
	Short: "Convert a value between two units of the same dimension",
	Long:  "Convert VALUE expressed in FROM into TO. Compound units such as kg*m/s2, J/(mol*K) or m·s⁻¹ are accepted.",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConvert(os.Stdout, mustConverters(), args[0], args[1], args[2]); err != nil {
			logrus.Fatalf("Conversion failed: %v", err)
		}
	},
}

// --- unitconv factor FROM TO ---

var factorCmd = &cobra.Command{
	Use:   "factor FROM TO",
	Short: "Print the conversion factor and its relative error",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFactor(os.Stdout, mustConverters(), args[0], args[1]); err != nil {
			logrus.Fatalf("Factor lookup failed: %v", err)
		}
	},
}

func runConvert(w io.Writer, convs *units.Converters, valueArg, from, to string) error {
	value, err := parseValue(valueArg)
	if err != nil {
		return err
	}
	calc := quantity.NewCalculator(convs)
	q, err := calc.New(value, from)
	if err != nil {
		return err
	}
	out, err := calc.To(q, to)
	if err != nil {
		return err
	}
	sym := out.Unit.Symbol()
	if convertUnicode {
		sym = out.Unit.UnicodeSymbol()
	}
	if convertShowError && out.RelativeError > 0 {
		_, err = fmt.Fprintf(w, "%s ± %g\n", formatValue(out.Value, sym), out.AbsoluteError())
		return err
	}
	_, err = fmt.Fprintln(w, formatValue(out.Value, sym))
	return err
}

func runFactor(w io.Writer, convs *units.Converters, from, to string) error {
	src, err := convs.Parse(from)
	if err != nil {
		return err
	}
	c, err := convs.ForUnit(src)
	if err != nil {
		return err
	}
	conv, ok, err := c.GetConversion(from, to)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w from %q to %q", units.ErrNoPath, from, to)
	}
	_, err = fmt.Fprintln(w, conv.String())
	return err
}

func init() {
	convertCmd.Flags().BoolVar(&convertUnicode, "unicode", false, "Print the result unit with Unicode symbols")
	convertCmd.Flags().BoolVar(&convertShowError, "show-error", false, "Print the absolute error propagated from inexact conversions")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(factorCmd)
}
