// Package cli provides the command-line interface of cxxapidoc.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/cxxapidoc/internal/docgen"
	"github.com/example/cxxapidoc/internal/output"
	"github.com/example/cxxapidoc/internal/validator"
)

// UsageError reports a bad command line or configuration. Callers exit
// with status 2 after printing Usage.
type UsageError struct {
	Err   error
	Usage string
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// Execute creates and runs the root command with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the cxxapidoc command.
func NewRootCommand() *cobra.Command {
	defaults := docgen.DefaultOptions()
	config := ExtractConfig{
		Format:  output.FormatText,
		Skip:    defaults.Skip,
		Include: defaults.Include,
	}

	cmd := &cobra.Command{
		Use:   "cxxapidoc <input-xml-dir> <output-file>",
		Short: "Extract binding docstrings from Doxygen XML",
		Long: `Reads the class, struct and namespace compound files of a Doxygen XML
output directory and writes a table of documentation strings keyed by
dotted symbol names, e.g. CDPL.Vis.Color.__eq__(1).

Use '-' as output file to write the table to standard output.`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.InputDir, config.OutputPath = args[0], args[1]

			if err := loadConfigFile(&config, cmd.Flags().Changed); err != nil {
				return err
			}
			if err := validator.Struct(&config); err != nil {
				return &UsageError{Err: err, Usage: cmd.UsageString()}
			}
			return Extract(cmd.Context(), &config, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &UsageError{Err: err, Usage: c.UsageString()}
	})

	cmd.Flags().StringVar(&config.ConfigPath, "config", "", "Path to a .cxxapidoc.yml config file")
	cmd.Flags().StringVarP(&config.Format, "format", "f", output.FormatText, "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&config.Sort, "sort", false, "Sort entries by key instead of extraction order")
	cmd.Flags().StringSliceVar(&config.Exclude, "exclude", nil, "Glob pattern of compound file names to leave out (repeatable)")
	cmd.Flags().BoolVar(&config.Check, "check", false, "Fail if the output file is not up to date instead of writing it")
	cmd.Flags().StringVar(&config.Log.Level, "log-level", "warn", "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&config.Log.Format, "log-format", "console", "Log format: console or json")

	return cmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &UsageError{
				Err:   fmt.Errorf("expected <input-xml-dir> and <output-file>, got %d argument(s)", len(args)),
				Usage: cmd.UsageString(),
			}
		}
		return nil
	}
}
