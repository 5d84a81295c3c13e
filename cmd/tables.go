package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/unitconv/units"
	"github.com/inference-sim/unitconv/units/dimension"
	"github.com/inference-sim/unitconv/units/registry"
)

var (
	exportFormat string // yaml or msgpack
	exportOutput string // output file; stdout when empty
	listSystem   string // filter units by measurement system
	listDim      string // filter units by dimension code
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Inspect or export the unit tables",
}

// --- unitconv tables export ---

var tablesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the active unit tables as YAML or msgpack",
	Long:  "Write the active unit tables (embedded defaults or --tables) to stdout or --output. The msgpack form loads faster and can be passed back through --tables.",
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := loadRegistry(tablesPath)
		if err != nil {
			logrus.Fatalf("Failed to load unit tables: %v", err)
		}
		if exportOutput == "" {
			if err := runTablesExport(os.Stdout, reg, exportFormat); err != nil {
				logrus.Fatalf("Export failed: %v", err)
			}
			return
		}
		if err := exportToFile(exportOutput, reg, exportFormat); err != nil {
			logrus.Fatalf("Export failed: %v", err)
		}
	},
}

// --- unitconv tables units ---

var tablesUnitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List registered units",
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := loadRegistry(tablesPath)
		if err != nil {
			logrus.Fatalf("Failed to load unit tables: %v", err)
		}
		if err := runTablesUnits(os.Stdout, reg, listSystem, listDim); err != nil {
			logrus.Fatalf("Listing failed: %v", err)
		}
	},
}

func runTablesExport(w io.Writer, reg *registry.Registry, format string) error {
	switch format {
	case "yaml":
		return reg.WriteYAML(w)
	case "msgpack":
		return reg.WriteMsgpack(w)
	default:
		return fmt.Errorf("unknown format %q; valid: yaml, msgpack", format)
	}
}

// exportToFile writes the tables to path. The file is closed before returning and a
// failed close is reported like a failed write.
func exportToFile(path string, reg *registry.Registry, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := runTablesExport(f, reg, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runTablesUnits(w io.Writer, reg *registry.Registry, system, dim string) error {
	if dim != "" {
		norm, err := dimension.Normalize(dim)
		if err != nil {
			return err
		}
		dim = norm
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tNAME\tDIMENSION\tPREFIXES")
	for _, u := range reg.Units() {
		if system != "" && !u.InSystem(units.System(system)) {
			continue
		}
		if dim != "" && u.Dimension != dim {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.UnicodeSymbol(), u.Name, u.Dimension, u.Prefixes)
	}
	return tw.Flush()
}

func init() {
	tablesExportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "Output format (yaml, msgpack)")
	tablesExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")

	tablesUnitsCmd.Flags().StringVar(&listSystem, "system", "", "Only list units of this system (si, imperial, us_customary, ...)")
	tablesUnitsCmd.Flags().StringVar(&listDim, "dimension", "", "Only list units of this dimension code")

	tablesCmd.AddCommand(tablesExportCmd)
	tablesCmd.AddCommand(tablesUnitsCmd)
	rootCmd.AddCommand(tablesCmd)
}
