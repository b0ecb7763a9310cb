// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"

	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands/common"
	"github.com/hashgraph/kmod-weaver/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Long:  "Show the version, commit and build mode of kmod along with the running kernel release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Print(cmd)
	},
}

func GetCmd() *cobra.Command {
	return versionCmd
}

// Print writes the version information in the format selected by the --output flag
func Print(cmd *cobra.Command) error {
	format, err := common.FlagOutput.Value(cmd, nil)
	if err != nil {
		return err
	}

	output, err := version.Get().Format(format)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
	return err
}
