package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/unitconv/units"
)

// rewriteFunc re-expresses a value in a rewritten unit, e.g. Converters.Expand.
type rewriteFunc func(value float64, u units.DerivedUnit) (float64, units.DerivedUnit, error)

// --- unitconv expand VALUE SYMBOL ---

var expandCmd = &cobra.Command{
	Use:   "expand VALUE SYMBOL",
	Short: "Rewrite named units one level into their definitions (kN -> kg*m/s2)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		convs := mustConverters()
		if err := runRewrite(os.Stdout, convs, convs.Expand, args[0], args[1]); err != nil {
			logrus.Fatalf("Expand failed: %v", err)
		}
	},
}

// --- unitconv merge VALUE SYMBOL ---

var mergeCmd = &cobra.Command{
	Use:   "merge VALUE SYMBOL",
	Short: "Combine terms of the same dimension into one unit (m*ft -> m2)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		convs := mustConverters()
		if err := runRewrite(os.Stdout, convs, convs.Merge, args[0], args[1]); err != nil {
			logrus.Fatalf("Merge failed: %v", err)
		}
	},
}

func runRewrite(w io.Writer, convs *units.Converters, rewrite rewriteFunc, valueArg, symbol string) error {
	value, err := parseValue(valueArg)
	if err != nil {
		return err
	}
	u, err := convs.Parse(symbol)
	if err != nil {
		return err
	}
	v, out, err := rewrite(value, u)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, formatValue(v, out.Symbol()))
	return err
}

func init() {
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(mergeCmd)
}
