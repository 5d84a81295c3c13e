package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/unitconv/units"
	"github.com/inference-sim/unitconv/units/dimension"
)

var dimCmd = &cobra.Command{
	Use:   "dim",
	Short: "Inspect dimension codes",
}

// --- unitconv dim normalize CODE ---

var dimNormalizeCmd = &cobra.Command{
	Use:   "normalize CODE",
	Short: "Print the canonical form of a dimension code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDimNormalize(os.Stdout, args[0]); err != nil {
			logrus.Fatalf("Invalid dimension: %v", err)
		}
	},
}

// --- unitconv dim of SYMBOL ---

var dimOfCmd = &cobra.Command{
	Use:   "of SYMBOL",
	Short: "Print the dimension and quantity name of a unit",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDimOf(os.Stdout, mustConverters(), args[0]); err != nil {
			logrus.Fatalf("Invalid unit: %v", err)
		}
	},
}

func runDimNormalize(w io.Writer, code string) error {
	norm, err := dimension.Normalize(code)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, norm)
	return err
}

func runDimOf(w io.Writer, convs *units.Converters, symbol string) error {
	u, err := convs.Parse(symbol)
	if err != nil {
		return err
	}
	dim := u.Dimension()
	if name, ok := convs.Catalog().QuantityName(dim); ok {
		_, err = fmt.Fprintf(w, "%s (%s)\n", dim, name)
		return err
	}
	_, err = fmt.Fprintln(w, dim)
	return err
}

func init() {
	dimCmd.AddCommand(dimNormalizeCmd)
	dimCmd.AddCommand(dimOfCmd)
	rootCmd.AddCommand(dimCmd)
}
