// Package main provides the bespaarwijzer comparison CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bespaarwijzer/backend/config"
	"github.com/bespaarwijzer/backend/internal/observability"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// Configuration and logger
	cfg    *config.Config
	logger zerolog.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "compare",
		Short: "Compare grocery promotions across retailers",
		Long: `compare runs the cross-retailer comparison engine on a local file of
promotion records, or resolves a single promotional mechanism.

Records are read from JSON (an array or {"products": [...]}) or YAML.
Results are written to stdout as JSON; logs go to stderr.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadFrom(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			level := cfg.Logging.Level
			if verbose {
				level = "debug"
			}
			logger = observability.NewLogger(observability.LogConfig{
				Level:       level,
				Format:      cfg.Logging.Format,
				Output:      cmd.ErrOrStderr(),
				ServiceName: "bespaarwijzer-cli",
			})
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: search ./config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newMechanismCmd())
	return root
}

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execute(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}
