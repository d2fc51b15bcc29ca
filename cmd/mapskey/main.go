// Package main is the entry point for the mapskey CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/szaher/mapskey/internal/config"
	"github.com/szaher/mapskey/internal/secrets"
)

// Version information set at build time.
var version = "0.1.0"

// Global flags.
var (
	configFile  string
	variable    string
	placeholder string
	strict      bool
	definesBlob string
	infoPlist   string
	xcconfig    string
	metricsFile string
	logLevel    string
	logFormat   string
)

// processEnv is replaced in tests.
var processEnv secrets.Environment = secrets.OSEnv{}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mapskey",
		Short: "Resolve and validate the Google Maps API key for a Flutter iOS build",
		Long: `mapskey resolves the Maps API key exactly as the app does at launch:
the MAPS_API_KEY environment variable first, then the matching entry in the
DART_DEFINES build metadata, and finally the YOUR_API_KEY placeholder, which
is always rejected.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config", config.DefaultFile, "Path to config file")
	root.PersistentFlags().StringVar(&variable, "variable", secrets.DefaultVariable, "Environment variable and define key holding the API key")
	root.PersistentFlags().StringVar(&placeholder, "placeholder", secrets.DefaultPlaceholder, "Placeholder value that is never accepted")
	root.PersistentFlags().BoolVar(&strict, "strict", false, "Fail on malformed define tokens instead of skipping them")
	root.PersistentFlags().StringVar(&definesBlob, "defines", "", "Encoded DART_DEFINES blob (overrides --info-plist and --xcconfig)")
	root.PersistentFlags().StringVar(&infoPlist, "info-plist", "", "Info.plist carrying DART_DEFINES")
	root.PersistentFlags().StringVar(&xcconfig, "xcconfig", "", "Generated.xcconfig carrying DART_DEFINES")
	root.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "json", "Log format (json|text)")

	root.AddCommand(newResolveCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newDefinesCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
