package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/statgate/statgate/internal/config"
	"github.com/statgate/statgate/internal/report"
	"github.com/statgate/statgate/internal/schema"
)

// VetResult holds the schema vetting result.
type VetResult struct {
	ReportPath string         `json:"report_path"`
	Valid      bool           `json:"valid"`
	Issues     []schema.Issue `json:"issues,omitempty"`
}

// NewVetCommand creates the vet command.
func NewVetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet [dir]",
		Short: "Check the build-output report against the stats schema",
		Long: `Locate the build-output report and validate its structure against the
native-image stats schema.

Distinguishes malformed JSON from well-formed JSON that is not a
build-output report, with positioned issues for each mismatch. The
verify command itself does not require schema conformance; vet is a
diagnostic for unexpected report shapes.

Exit codes:
  0 - Report matches the schema
  1 - Report is valid JSON but does not match the schema
  2 - Command error (discovery failed, unreadable report, bad JSON)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			workdir := "."
			if len(args) == 1 {
				workdir = args[0]
			}
			return runVet(rootOpts, workdir, cmd)
		},
	}

	return cmd
}

func runVet(opts *RootOptions, workdir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := config.LoadConfigWithTarget(opts.ConfigPath, workdir)
	if err != nil {
		if outErr := formatter.Error(ErrCodeConfig, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, ErrCodeConfig, err)
	}

	reportPath, err := report.Locate(workdir, cfg.Conventions())
	if err != nil {
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Vetting %s", reportPath)

	data, err := os.ReadFile(reportPath)
	if err != nil {
		return commandError(formatter, fmt.Errorf("could not load build output: %w", err))
	}

	vetErr := schema.Vet(filepath.Base(reportPath), data)
	if vetErr == nil {
		return outputVetResult(cmd, opts, VetResult{ReportPath: reportPath, Valid: true})
	}

	var mismatch *schema.VetError
	if errors.As(vetErr, &mismatch) {
		return outputVetResult(cmd, opts, VetResult{
			ReportPath: reportPath,
			Issues:     mismatch.Issues,
		})
	}

	// Not a schema verdict: unreadable JSON or an unusable schema.
	return commandError(formatter, vetErr)
}

func outputVetResult(cmd *cobra.Command, opts *RootOptions, result VetResult) error {
	if opts.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    ErrCodeSchema,
				Message: fmt.Sprintf("%d schema issue(s)", len(result.Issues)),
			}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		if !result.Valid {
			return NewExitError(ExitFailure, fmt.Sprintf("%d schema issue(s)", len(result.Issues)))
		}
		return nil
	}

	w := cmd.OutOrStdout()
	if result.Valid {
		fmt.Fprintf(w, "✓ %s matches the build-output schema\n", result.ReportPath)
		return nil
	}

	fmt.Fprintf(w, "✗ %s does not match the build-output schema\n", result.ReportPath)
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  %s\n", issue)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d schema issue(s)", len(result.Issues)))
}
