package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/statgate/statgate/internal/expect"
)

// LintFinding is one suite problem found by lint.
type LintFinding struct {
	Key     string `json:"key,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LintResult holds lint results for one suite file.
type LintResult struct {
	Suite    string        `json:"suite"`
	Valid    bool          `json:"valid"`
	Checks   int           `json:"checks"`
	Findings []LintFinding `json:"findings,omitempty"`
}

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <suite-file>",
		Short: "Check an expectation suite without a report",
		Long: `Check an expectation suite for malformed entries without running a
verification: missing .tolerance companions, non-integer values,
incomplete YAML entries, and orphan .tolerance keys.

All findings are collected in one pass, unlike verification, which
aborts on the first suite problem.

Exit codes:
  0 - Suite is well-formed
  1 - Suite has findings
  2 - Suite file unreadable`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runLint(opts *RootOptions, suitePath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	dir := filepath.Dir(suitePath)
	name := filepath.Base(suitePath)
	suite, errs := expect.Lint(os.DirFS(dir), name)

	// An unreadable file is a command error, not a finding.
	if len(errs) > 0 {
		var suiteErr *expect.SuiteError
		if errors.As(errs[0], &suiteErr) && suiteErr.Code == expect.CodeUnreadable {
			return commandError(formatter, errs[0])
		}
	}

	result := LintResult{
		Suite: suitePath,
		Valid: len(errs) == 0,
	}
	if suite != nil {
		result.Checks = len(suite.Expectations)
	}
	for _, err := range errs {
		finding := LintFinding{Code: ErrCodeSuite, Message: err.Error()}
		var suiteErr *expect.SuiteError
		if errors.As(err, &suiteErr) {
			finding.Key = suiteErr.Key
			finding.Code = string(suiteErr.Code)
		}
		result.Findings = append(result.Findings, finding)
	}

	if opts.Format == "json" {
		return outputLintJSON(cmd, result)
	}
	return outputLintText(cmd, result)
}

// outputLintJSON outputs the lint result as JSON.
func outputLintJSON(cmd *cobra.Command, result LintResult) error {
	status := "ok"
	if !result.Valid {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}
	if !result.Valid {
		response.Error = &CLIError{
			Code:    ErrCodeSuite,
			Message: fmt.Sprintf("%d suite finding(s)", len(result.Findings)),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d suite finding(s)", len(result.Findings)))
	}
	return nil
}

// outputLintText outputs the lint result as text.
func outputLintText(cmd *cobra.Command, result LintResult) error {
	w := cmd.OutOrStdout()

	if result.Valid {
		fmt.Fprintf(w, "✓ %s: %d check(s), no findings\n", result.Suite, result.Checks)
		return nil
	}

	fmt.Fprintf(w, "✗ %s\n", result.Suite)
	for _, finding := range result.Findings {
		fmt.Fprintf(w, "  %s: %s\n", finding.Code, finding.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d suite finding(s)", len(result.Findings)))
}
