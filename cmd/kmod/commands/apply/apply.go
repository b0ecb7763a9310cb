// SPDX-License-Identifier: Apache-2.0

package apply

import (
	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands/common"
	"github.com/hashgraph/kmod-weaver/internal/state"
	"github.com/hashgraph/kmod-weaver/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	flagStateFile       string
	flagReport          string
	flagStopOnError     bool
	flagRollbackOnError bool
	flagContinueOnError bool

	applyCmd = &cobra.Command{
		Use:   "apply",
		Short: "Apply a kernel module state file",
		Long:  "Apply every [[present]] and [[absent]] declaration of a TOML state file as one workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			execMode, err := common.GetExecutionMode(flagContinueOnError, flagStopOnError, flagRollbackOnError)
			if err != nil {
				return err
			}

			decls, err := state.LoadFile(flagStateFile)
			if err != nil {
				return err
			}

			mgr, err := common.NewManager()
			if err != nil {
				return err
			}

			r, err := common.NewReconciler(mgr)
			if err != nil {
				return err
			}

			wb := workflows.NewApplyStateWorkflow(mgr, r, decls).WithExecutionMode(execMode)
			common.RunWorkflow(cmd.Context(), wb, flagReport)
			return nil
		},
	}
)

func init() {
	common.FlagStateFile.SetVar(applyCmd, &flagStateFile, true)
	common.FlagReport.SetVar(applyCmd, &flagReport, false)
	common.FlagStopOnError.SetVar(applyCmd, &flagStopOnError, false)
	common.FlagRollbackOnError.SetVar(applyCmd, &flagRollbackOnError, false)
	common.FlagContinueOnError.SetVar(applyCmd, &flagContinueOnError, false)
}

func GetCmd() *cobra.Command {
	return applyCmd
}
