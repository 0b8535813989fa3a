package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statgate/statgate/internal/config"
	"github.com/statgate/statgate/internal/report"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Paths []string // specific dotted paths to resolve
}

// ResolvedPath is one inspected report node.
type ResolvedPath struct {
	Path  string      `json:"path"`
	Kind  string      `json:"kind"`
	Value interface{} `json:"value,omitempty"`
}

// InspectResult holds the inspection output.
type InspectResult struct {
	ReportPath string          `json:"report_path"`
	Metrics    []report.Metric `json:"metrics,omitempty"`
	Resolved   []ResolvedPath  `json:"resolved,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Show the metrics a build report exposes",
		Long: `Locate and parse the build-output report, then list every verifiable
integer metric with its dotted path and current value. With --path,
resolve specific paths instead, whatever their kind.

Useful for writing expectation suites: paths printed here are exactly
the keys a suite may verify.

Examples:
  statgate inspect
  statgate inspect ./service
  statgate inspect --path image_details.total_bytes --path general_info.name`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			workdir := "."
			if len(args) == 1 {
				workdir = args[0]
			}
			return runInspect(opts, workdir, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Paths, "path", nil, "dotted path to resolve (repeatable)")

	return cmd
}

func runInspect(opts *InspectOptions, workdir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

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
	tree, err := report.Load(reportPath)
	if err != nil {
		return commandError(formatter, err)
	}

	result := InspectResult{ReportPath: reportPath}

	if len(opts.Paths) == 0 {
		result.Metrics = tree.Metrics()
		return outputInspect(cmd, opts.RootOptions, result)
	}

	for _, path := range opts.Paths {
		node, err := tree.Resolve(path)
		if err != nil {
			return commandError(formatter, err)
		}
		result.Resolved = append(result.Resolved, ResolvedPath{
			Path:  path,
			Kind:  report.Kind(node),
			Value: renderValue(node),
		})
	}
	return outputInspect(cmd, opts.RootOptions, result)
}

// renderValue converts a report node to a JSON-encodable value. Composite
// nodes render as their key or element count; the inspect surface is for
// orientation, not extraction.
func renderValue(v report.Value) interface{} {
	switch val := v.(type) {
	case report.Int:
		return int64(val)
	case report.Float:
		return float64(val)
	case report.String:
		return string(val)
	case report.Bool:
		return bool(val)
	case report.Null:
		return nil
	case report.Array:
		return fmt.Sprintf("%d element(s)", len(val))
	case report.Object:
		return fmt.Sprintf("%d key(s)", len(val))
	default:
		return nil
	}
}

func outputInspect(cmd *cobra.Command, opts *RootOptions, result InspectResult) error {
	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "report: %s\n\n", result.ReportPath)

	for _, metric := range result.Metrics {
		fmt.Fprintf(w, "  %s = %d\n", metric.Path, metric.Value)
	}
	for _, resolved := range result.Resolved {
		fmt.Fprintf(w, "  %s (%s) = %v\n", resolved.Path, resolved.Kind, resolved.Value)
	}
	return nil
}
