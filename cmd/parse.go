package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/unitconv/units"
)

// parsedUnit is the YAML report printed by `unitconv parse`.
type parsedUnit struct {
	Symbol    string       `yaml:"symbol"`
	Unicode   string       `yaml:"unicode"`
	Dimension string       `yaml:"dimension"`
	Quantity  string       `yaml:"quantity,omitempty"`
	Terms     []parsedTerm `yaml:"terms"`
}

type parsedTerm struct {
	Unit      string `yaml:"unit"`
	Name      string `yaml:"name"`
	Prefix    string `yaml:"prefix,omitempty"`
	Exponent  int    `yaml:"exponent"`
	Dimension string `yaml:"dimension"`
}

// --- unitconv parse SYMBOL ---

var parseCmd = &cobra.Command{
	Use:   "parse SYMBOL",
	Short: "Parse a compound unit and print its terms as YAML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runParse(os.Stdout, mustConverters(), args[0]); err != nil {
			logrus.Fatalf("Parse failed: %v", err)
		}
	},
}

func runParse(w io.Writer, convs *units.Converters, symbol string) error {
	u, err := convs.Parse(symbol)
	if err != nil {
		return err
	}
	report := parsedUnit{
		Symbol:    u.Symbol(),
		Unicode:   u.UnicodeSymbol(),
		Dimension: u.Dimension(),
		Terms:     []parsedTerm{},
	}
	if name, ok := convs.Catalog().QuantityName(report.Dimension); ok {
		report.Quantity = name
	}
	for _, t := range u.Terms() {
		pt := parsedTerm{
			Unit:      t.Unit().Symbol,
			Name:      t.Unit().Name,
			Exponent:  t.Exponent(),
			Dimension: t.Dimension(),
		}
		if p := t.Prefix(); p != nil {
			pt.Prefix = p.Name
		}
		report.Terms = append(report.Terms, pt)
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("YAML marshal failed: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
