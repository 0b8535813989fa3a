package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/statgate/statgate/internal/config"
	"github.com/statgate/statgate/internal/expect"
	"github.com/statgate/statgate/internal/report"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Output    string // suite file to write
	Tolerance int64  // percentage applied to every metric
	Force     bool   // overwrite an existing suite
}

// InitResult holds the bootstrap result.
type InitResult struct {
	Suite      string `json:"suite"`
	ReportPath string `json:"report_path"`
	Checks     int    `json:"checks"`
	Tolerance  int64  `json:"tolerance"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts, Tolerance: -1}

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Bootstrap an expectation suite from the current report",
		Long: `Generate an expectation suite from the build-output report's observed
values, pinning every integer metric at its current value with a uniform
tolerance.

The generated suite is a starting point: trim it to the metrics worth
guarding and adjust tolerances per metric.

Examples:
  statgate init
  statgate init --tolerance 10
  statgate init --output ci-metrics.properties --force`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			workdir := "."
			if len(args) == 1 {
				workdir = args[0]
			}
			return runInit(opts, workdir, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Output, "output", "", "suite file to write (default: conventional suite name in dir)")
	cmd.Flags().Int64Var(&opts.Tolerance, "tolerance", -1, "tolerance percentage for every metric (default: from config)")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "overwrite an existing suite file")

	return cmd
}

func runInit(opts *InitOptions, workdir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := config.LoadConfigWithTarget(opts.ConfigPath, workdir)
	if err != nil {
		if outErr := formatter.Error(ErrCodeConfig, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, ErrCodeConfig, err)
	}

	tolerance := cfg.Init.Tolerance
	if opts.Tolerance >= 0 {
		tolerance = opts.Tolerance
	}
	output := opts.Output
	if output == "" {
		output = filepath.Join(workdir, cfg.Suite.Name)
	}

	if !opts.Force {
		if _, err := os.Stat(output); err == nil {
			return NewExitError(ExitCommandError,
				fmt.Sprintf("%s already exists. Use --force to overwrite", output))
		}
	}

	reportPath, err := report.Locate(workdir, cfg.Conventions())
	if err != nil {
		return commandError(formatter, err)
	}
	tree, err := report.Load(reportPath)
	if err != nil {
		return commandError(formatter, err)
	}

	metrics := tree.Metrics()
	suite := &expect.Suite{Resource: filepath.Base(output)}
	for _, metric := range metrics {
		suite.Expectations = append(suite.Expectations, expect.Expectation{
			Path:      metric.Path,
			Expected:  metric.Value,
			Tolerance: tolerance,
		})
	}

	data, err := expect.MarshalProperties(suite)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render suite", err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write suite file", err)
	}

	result := InitResult{
		Suite:      output,
		ReportPath: reportPath,
		Checks:     len(metrics),
		Tolerance:  tolerance,
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %d check(s) at %d%% tolerance\n",
		output, result.Checks, tolerance)
	return nil
}
