// SPDX-License-Identifier: Apache-2.0

package present

import (
	"github.com/automa-saga/logx"
	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands/common"
	"github.com/hashgraph/kmod-weaver/internal/kmod"
	"github.com/spf13/cobra"
)

var (
	flagMods    []string
	flagPersist bool

	presentCmd = &cobra.Command{
		Use:   "present NAME",
		Short: "Ensure kernel modules are loaded",
		Long: "Ensure kernel modules are loaded, and with --persist that they are loaded at boot. " +
			"NAME is the module to load unless --mods lists the modules, in which case NAME is only a label.",
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

			req := kmod.PresentRequest{
				Name:    args[0],
				Mods:    flagMods,
				Persist: flagPersist,
			}

			logx.As().Debug().
				Str("name", req.Name).
				Strs("mods", req.Mods).
				Bool("persist", req.Persist).
				Bool("dry_run", r.DryRun()).
				Msg("Ensuring kernel modules are present")

			out, err := r.Present(cmd.Context(), req)
			if err != nil {
				return err
			}

			return common.PrintOutcome(cmd.OutOrStdout(), out, format)
		},
	}
)

func init() {
	common.FlagMods.SetVar(presentCmd, &flagMods, false)
	common.FlagPersist.SetVar(presentCmd, &flagPersist, false)
}

func GetCmd() *cobra.Command {
	return presentCmd
}
