// SPDX-License-Identifier: Apache-2.0

package absent

import (
	"github.com/automa-saga/logx"
	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands/common"
	"github.com/hashgraph/kmod-weaver/internal/kmod"
	"github.com/spf13/cobra"
)

var (
	flagMods    []string
	flagPersist bool
	flagComment bool

	absentCmd = &cobra.Command{
		Use:   "absent NAME",
		Short: "Ensure kernel modules are not loaded",
		Long: "Ensure kernel modules are unloaded, and with --persist that they are no longer loaded at boot. " +
			"Boot configuration entries are commented out unless --comment=false is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := common.FlagOutput.Value(cmd, nil)
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

			req := kmod.AbsentRequest{
				Name:    args[0],
				Mods:    flagMods,
				Persist: flagPersist,
				Comment: flagComment,
			}

			logx.As().Debug().
				Str("name", req.Name).
				Strs("mods", req.Mods).
				Bool("persist", req.Persist).
				Bool("comment", req.Comment).
				Bool("dry_run", r.DryRun()).
				Msg("Ensuring kernel modules are absent")

			out, err := r.Absent(cmd.Context(), req)
			if err != nil {
				return err
			}

			return common.PrintOutcome(cmd.OutOrStdout(), out, format)
		},
	}
)

func init() {
	common.FlagMods.SetVar(absentCmd, &flagMods, false)
	common.FlagPersist.SetVar(absentCmd, &flagPersist, false)
	common.FlagComment.SetVar(absentCmd, &flagComment, false)
}

func GetCmd() *cobra.Command {
	return absentCmd
}
