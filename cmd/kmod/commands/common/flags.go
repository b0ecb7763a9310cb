// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"
	"fmt"

	"github.com/automa-saga/automa"
	"github.com/hashgraph/kmod-weaver/internal/doctor"
	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	FlagOutput = FlagDefinition[string]{
		Name:        "output",
		ShortName:   "o",
		Description: fmt.Sprintf("Output format %s", []string{FormatYAML, FormatJSON}),
		Default:     FormatYAML,
	}

	FlagTest = FlagDefinition[bool]{
		Name:        "test",
		ShortName:   "t",
		Description: "Dry-run: report the changes that would be made without making them",
		Default:     false,
	}

	FlagMods = FlagDefinition[[]string]{
		Name:        "mods",
		ShortName:   "m",
		Description: "Kernel modules to manage; NAME becomes a label when set",
		Default:     nil,
	}

	FlagPersist = FlagDefinition[bool]{
		Name:        "persist",
		ShortName:   "p",
		Description: "Also manage the boot-time module configuration",
		Default:     false,
	}

	FlagComment = FlagDefinition[bool]{
		Name:        "comment",
		ShortName:   "",
		Description: "Comment out boot configuration entries instead of deleting them",
		Default:     true,
	}

	FlagStateFile = FlagDefinition[string]{
		Name:        "file",
		ShortName:   "f",
		Description: "Path to the kernel module state file (TOML)",
		Default:     "",
	}

	FlagReport = FlagDefinition[string]{
		Name:        "report",
		ShortName:   "",
		Description: "Save the workflow report to this file",
		Default:     "",
	}

	FlagStopOnError = FlagDefinition[bool]{
		Name:        "stop-on-error",
		ShortName:   "",
		Description: "Stop execution on first error (default behaviour)",
		Default:     false,
	}

	FlagRollbackOnError = FlagDefinition[bool]{
		Name:        "rollback-on-error",
		ShortName:   "",
		Description: "Rollback executed steps on error",
		Default:     false,
	}

	FlagContinueOnError = FlagDefinition[bool]{
		Name:        "continue-on-error",
		ShortName:   "",
		Description: "Continue executing steps even if some steps fail",
		Default:     false,
	}
)

// FlagDefinition defines a command-line flag typed by T.
type FlagDefinition[T any] struct {
	Name        string
	ShortName   string
	Description string
	Default     T
}

// valueFrom contains the common type-switch logic to extract a value
// from the provided pflag.FlagSet.
func (fp *FlagDefinition[T]) valueFrom(flags *pflag.FlagSet) (T, error) {
	var zero T
	switch any(zero).(type) {
	case string:
		v, err := flags.GetString(fp.Name)
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	case bool:
		v, err := flags.GetBool(fp.Name)
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	case []string:
		v, err := flags.GetStringSlice(fp.Name)
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	default:
		return zero, fmt.Errorf("unsupported flag type: %T", zero)
	}
}

// Value extracts the flag value (from the full flag set: persistent, non-persistent or from parent) of the provided cobra command.
func (fp *FlagDefinition[T]) Value(cmd *cobra.Command, args []string) (T, error) {
	if args == nil {
		args = []string{}
	}

	err := cmd.ParseFlags(args)
	if err != nil {
		var zero T
		return zero, errorx.InternalError.Wrap(err, "failed to parse flags for command %s", cmd.Name())
	}

	return fp.valueFrom(cmd.Flags())
}

// SetVarP sets up the persistent flag and exits on error.
func (fp *FlagDefinition[T]) SetVarP(cmd *cobra.Command, p *T, required bool) {
	if err := fp.varP(cmd, p, required); err != nil {
		doctor.CheckErr(context.Background(), err, fmt.Sprintf("failed to set flag %s", fp.Name))
	}
}

// SetVar sets up the non-persistent flag and exits on error.
func (fp *FlagDefinition[T]) SetVar(cmd *cobra.Command, p *T, required bool) {
	if err := fp.varNP(cmd, p, required); err != nil {
		doctor.CheckErr(context.Background(), err, fmt.Sprintf("failed to set flag %s", fp.Name))
	}
}

func (fp *FlagDefinition[T]) varP(cmd *cobra.Command, p *T, required bool) error {
	if err := fp.setFlagVar(cmd.PersistentFlags(), cmd, p); err != nil {
		return err
	}

	if required {
		if err := cmd.MarkPersistentFlagRequired(fp.Name); err != nil {
			return errorx.InternalError.Wrap(err, "failed to mark persistent flag %s as required", fp.Name)
		}
	}
	return nil
}

func (fp *FlagDefinition[T]) varNP(cmd *cobra.Command, p *T, required bool) error {
	if err := fp.setFlagVar(cmd.Flags(), cmd, p); err != nil {
		return err
	}

	if required {
		if err := cmd.MarkFlagRequired(fp.Name); err != nil {
			return errorx.InternalError.Wrap(err, "failed to mark flag %s as required", fp.Name)
		}
	}
	return nil
}

func (fp *FlagDefinition[T]) setFlagVar(flags *pflag.FlagSet, cmd *cobra.Command, p *T) error {
	if p == nil {
		return errorx.IllegalArgument.New("pointer for flag %s is nil", fp.Name)
	}
	if cmd == nil {
		return errorx.IllegalArgument.New("command for flag %s is nil", fp.Name)
	}

	switch ptr := any(p).(type) {
	case *string:
		flags.StringVarP(ptr, fp.Name, fp.ShortName, any(fp.Default).(string), fp.Description)
	case *bool:
		flags.BoolVarP(ptr, fp.Name, fp.ShortName, any(fp.Default).(bool), fp.Description)
	case *[]string:
		flags.StringSliceVarP(ptr, fp.Name, fp.ShortName, any(fp.Default).([]string), fp.Description)
	default:
		return fmt.Errorf("unsupported flag type: %T", p)
	}

	return nil
}

// GetExecutionMode determines the execution mode based on the provided flags.
// It ensures that only one of the flags is set; otherwise, it returns an error.
func GetExecutionMode(continueOnErr bool, stopOnErr bool, rollbackOnErr bool) (automa.TypeMode, error) {
	count := 0
	for _, set := range []bool{continueOnErr, stopOnErr, rollbackOnErr} {
		if set {
			count++
		}
	}

	if count > 1 {
		return automa.StopOnError, errorx.IllegalArgument.New("only one of execution mode can be set; "+
			"found continue-on-error: %t, stop-on-error: %t, rollback-on-error: %t", continueOnErr, stopOnErr, rollbackOnErr)
	}

	switch {
	case continueOnErr:
		return automa.ContinueOnError, nil
	case rollbackOnErr:
		return automa.RollbackOnError, nil
	default:
		return automa.StopOnError, nil
	}
}
