package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/statgate/statgate"
	"github.com/statgate/statgate/internal/config"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Suite    string // expectation suite resource name
	SuiteDir string // directory suite names resolve against
}

// VerifyResult holds the overall verification result.
type VerifyResult struct {
	RunID       string           `json:"run_id"`
	GeneratedAt string           `json:"generated_at"`
	ReportPath  string           `json:"report_path"`
	Suite       string           `json:"suite"`
	Checks      []statgate.Check `json:"checks"`
	Passed      int              `json:"passed"`
	Failed      int              `json:"failed"`
	Total       int              `json:"total"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify [dir]",
		Short: "Verify build statistics against the expectation suite",
		Long: `Verify the native-image build-output statistics under a working
directory against an expectation suite.

Locates the single *-build-output-stats.json report under target/,
loads the suite (image-metrics-test.properties by default), and checks
every metric against its expected value and tolerance.

Exit codes:
  0 - All metrics within tolerance
  1 - One or more metrics out of range
  2 - Command error (ambiguous discovery, bad report, bad suite)

Examples:
  statgate verify
  statgate verify ./service
  statgate verify --suite ci-metrics.properties
  statgate verify --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			workdir := "."
			if len(args) == 1 {
				workdir = args[0]
			}
			return runVerify(opts, workdir, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Suite, "suite", "", "expectation suite resource name")
	cmd.Flags().StringVar(&opts.SuiteDir, "suite-dir", "", "directory suite names resolve against (default: working directory)")

	return cmd
}

func runVerify(opts *VerifyOptions, workdir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := config.LoadConfigWithTarget(opts.ConfigPath, workdir)
	if err != nil {
		if outErr := formatter.Error(ErrCodeConfig, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, ErrCodeConfig, err)
	}

	suiteName := cfg.Suite.Name
	if opts.Suite != "" {
		suiteName = opts.Suite
	}
	suiteDir := workdir
	if cfg.Suite.Dir != "" {
		suiteDir = cfg.Suite.Dir
	}
	if opts.SuiteDir != "" {
		suiteDir = opts.SuiteDir
	}

	formatter.VerboseLog("Verifying %s against %s", workdir, suiteName)

	verifier := statgate.New(
		statgate.WithWorkdir(workdir),
		statgate.WithSuite(suiteName),
		statgate.WithSuiteFS(os.DirFS(suiteDir)),
		statgate.WithConventions(cfg.Conventions()),
		statgate.WithLogger(buildLogger(opts.Verbose)),
	)
	result, err := verifier.Run()
	if err != nil {
		return commandError(formatter, err)
	}

	verifyResult := VerifyResult{
		RunID:       newRunID(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		ReportPath:  result.ReportPath,
		Suite:       result.Suite,
		Checks:      result.Checks,
		Total:       len(result.Checks),
	}
	for _, c := range result.Checks {
		if c.Pass {
			verifyResult.Passed++
		} else {
			verifyResult.Failed++
		}
	}

	if opts.Format == "json" {
		return outputVerifyJSON(cmd, verifyResult)
	}
	return outputVerifyText(cmd, result, verifyResult)
}

// newRunID generates a time-ordered unique ID for one verification run.
func newRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// outputVerifyJSON outputs the verification result as JSON.
func outputVerifyJSON(cmd *cobra.Command, result VerifyResult) error {
	status := "ok"
	if result.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}
	if result.Failed > 0 {
		response.Error = &CLIError{
			Code:    ErrCodeOutOfRange,
			Message: fmt.Sprintf("%d metric(s) out of range", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d metric(s) out of range", result.Failed))
	}
	return nil
}

// outputVerifyText outputs the verification result as text.
func outputVerifyText(cmd *cobra.Command, report *statgate.Report, result VerifyResult) error {
	fmt.Fprint(cmd.OutOrStdout(), report.Render())

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d metric(s) out of range", result.Failed))
	}
	return nil
}
