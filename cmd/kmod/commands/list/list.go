// SPDX-License-Identifier: Apache-2.0

package list

import (
	"fmt"

	"github.com/hashgraph/kmod-weaver/cmd/kmod/commands/common"
	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"
)

const (
	SourceLoaded    = "loaded"
	SourcePersisted = "persisted"
	SourceAvailable = "available"
)

// Listing is the output of the list command
type Listing struct {
	Source  string   `yaml:"source" json:"source"`
	Modules []string `yaml:"modules" json:"modules"`
}

var (
	flagPersisted bool
	flagAvailable bool

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List kernel modules",
		Long:  "List loaded kernel modules, or the persisted or available ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagPersisted && flagAvailable {
				return errorx.IllegalArgument.New("--persisted and --available are mutually exclusive")
			}

			format, err := common.FlagOutput.Value(cmd, nil)
			if err != nil {
				return err
			}

			mgr, err := common.NewManager()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			listing := Listing{Source: SourceLoaded}
			switch {
			case flagPersisted:
				listing.Source = SourcePersisted
				listing.Modules, err = mgr.Persisted(ctx)
			case flagAvailable:
				listing.Source = SourceAvailable
				listing.Modules, err = mgr.Available(ctx)
			default:
				listing.Modules, err = mgr.Loaded(ctx)
			}
			if err != nil {
				return err
			}
			if listing.Modules == nil {
				listing.Modules = []string{}
			}

			out, err := common.Format(listing, format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
)

func init() {
	listCmd.Flags().BoolVar(&flagPersisted, "persisted", false, "List modules configured to load at boot")
	listCmd.Flags().BoolVar(&flagAvailable, "available", false, "List modules that can be loaded on this host")
}

func GetCmd() *cobra.Command {
	return listCmd
}
