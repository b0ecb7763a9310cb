// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"

	"github.com/automa-saga/logx"
	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands/absent"
	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands/apply"
	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands/common"
	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands/list"
	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands/present"
	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands/version"
	"github.com/hashgraph/kmod-weaver/internal/config"
	"github.com/hashgraph/kmod-weaver/internal/doctor"
	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"
)

// examples:
// ./kmod present br_netfilter --persist
// ./kmod present k8s --mods overlay,br_netfilter --test -o json
// ./kmod absent pcspkr --persist --comment=false
// ./kmod apply -f ./state.toml --config ./config.yaml

var (
	// Used for flags.
	flagConfig       string
	flagVersion      bool
	flagOutputFormat string
	flagTest         bool

	rootCmd = &cobra.Command{
		Use:   "kmod",
		Short: "Converge loaded kernel modules towards a desired state",
		Long:  "kmod - Load, unload and persist Linux kernel modules idempotently",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagVersion {
				return version.Print(cmd)
			}

			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path")

	// support '--version', '-v' to show version information
	rootCmd.PersistentFlags().BoolVarP(&flagVersion, "version", "v", false, "Show version")
	common.FlagOutput.SetVarP(rootCmd, &flagOutputFormat, false)
	common.FlagTest.SetVarP(rootCmd, &flagTest, false)

	// disable command sorting to keep the order of commands as added
	cobra.EnableCommandSorting = false

	// add subcommands
	rootCmd.AddCommand(present.GetCmd())
	rootCmd.AddCommand(absent.GetCmd())
	rootCmd.AddCommand(apply.GetCmd())
	rootCmd.AddCommand(list.GetCmd())
	rootCmd.AddCommand(version.GetCmd())
}

// Execute executes the root command.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errorx.IllegalArgument.New("context is required")
	}

	cobra.OnInitialize(func() {
		initConfig(ctx)
	})

	// execute the root command
	_, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		// keep the error type so doctor can map it to a code
		return errorx.Decorate(err, "failed to execute command")
	}

	return nil
}

func initConfig(ctx context.Context) {
	var err error
	err = config.Initialize(flagConfig)
	if err != nil {
		doctor.CheckErr(ctx, err)
	}

	// --test on the command line wins over the config file
	if flagTest {
		config.SetDryRun(true)
	}

	logConfig := config.Get().Log
	err = logx.Initialize(logConfig)
	if err != nil {
		doctor.CheckErr(ctx, err)
	}
}
