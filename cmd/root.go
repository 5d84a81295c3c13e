package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/unitconv/units"
	"github.com/inference-sim/unitconv/units/registry"
)

var (
	logLevel   string // Log verbosity level
	tablesPath string // Optional tables file replacing the embedded defaults
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "unitconv",
	Short: "Dimensional analysis and unit conversion",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// loadRegistry returns the registry from path, or the embedded defaults when path is empty.
func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.LoadFile(path)
}

// mustConverters loads the tables selected by --tables and wraps them in a converter set.
func mustConverters() *units.Converters {
	reg, err := loadRegistry(tablesPath)
	if err != nil {
		logrus.Fatalf("Failed to load unit tables: %v", err)
	}
	logrus.Debugf("Loaded unit tables version %q", reg.Version())
	return units.NewConverters(reg)
}

// parseValue parses a numeric CLI argument.
func parseValue(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", arg, err)
	}
	return v, nil
}

// formatValue renders a value with its unit symbol; dimensionless values print bare.
func formatValue(v float64, symbol string) string {
	if symbol == "" {
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("%g %s", v, symbol)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&tablesPath, "tables", "", "Path to a YAML or msgpack unit tables file (default: embedded tables)")
}
