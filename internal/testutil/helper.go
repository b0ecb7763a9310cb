// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

// PrepareSubCmdForTest creates a root command with the given subcommand added.
// Use this from tests in other packages to avoid duplicating the helper.
func PrepareSubCmdForTest(sub *cobra.Command) *cobra.Command {
	root := &cobra.Command{Use: "root"}
	root.AddCommand(sub)
	return root
}

// ExecuteCmd runs root with args and returns everything written to stdout and stderr
func ExecuteCmd(root *cobra.Command, args ...string) (string, error) {
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

// RequireRoot skips the test unless it runs with root privileges
func RequireRoot(t *testing.T) {
	t.Helper()
	if unix.Geteuid() != 0 {
		t.Skip("This test requires root privileges")
	}
}
