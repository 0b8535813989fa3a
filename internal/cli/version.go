package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statgate/statgate/internal/version"
)

// VersionInfo is the version payload for JSON output.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.Format == "json" {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(CLIResponse{
					Status: "ok",
					Data: VersionInfo{
						Version: version.Short(),
						Commit:  version.Commit,
						Date:    version.Date,
					},
				})
			}
			if rootOpts.Verbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.Full())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "statgate version %s\n", version.Short())
			return nil
		},
	}
}
