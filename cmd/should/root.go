package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cgast/should/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// validFormats defines the allowed output formats.
var validFormats = []string{"text", "json"}

// app is the state shared by subcommands once the root has run.
type app struct {
	opts   RootOptions
	cfg    config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "should",
		Short: "Run declarative check plans",
		Long: `should runs check plans: YAML documents that apply an ordered chain of
named checks to a JSON or YAML subject and report the first failure with
its identity, message and metadata.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, a.opts.Format) {
				return usageError(fmt.Errorf("invalid format %q: must be one of %v", a.opts.Format, validFormats))
			}
			cfg, err := config.LoadConfig(a.opts.ConfigPath)
			if err != nil {
				return usageError(err)
			}
			// Logs go to stderr so JSON output stays parseable.
			logger, err := cfg.Logger(cmd.ErrOrStderr(), a.opts.Verbose)
			if err != nil {
				return usageError(err)
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&a.opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&a.opts.ConfigPath, "config", config.DefaultPath, "config file")

	cmd.AddCommand(newCheckCommand(a))
	cmd.AddCommand(newValidateCommand(a))
	cmd.AddCommand(newCodesCommand(a))
	cmd.AddCommand(newHistoryCommand(a))
	cmd.AddCommand(newInitCommand(a))
	cmd.AddCommand(newServeCommand(a))

	return cmd
}
