// SPDX-License-Identifier: Apache-2.0

package common

import (
	"testing"

	"github.com/automa-saga/automa"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagDefinition_String(t *testing.T) {
	fp := FlagDefinition[string]{Name: "file", ShortName: "f", Description: "a file", Default: "state.toml"}
	var v string
	cmd := &cobra.Command{}
	require.NoError(t, fp.varNP(cmd, &v, false))

	got, err := fp.Value(cmd, nil)
	require.NoError(t, err)
	require.Equal(t, "state.toml", got)

	require.NoError(t, cmd.Flags().Set(fp.Name, "other.toml"))
	got, err = fp.Value(cmd, nil)
	require.NoError(t, err)
	require.Equal(t, "other.toml", got)
	require.Equal(t, "other.toml", v)
}

func TestFlagDefinition_Bool(t *testing.T) {
	var v bool
	cmd := &cobra.Command{}
	require.NoError(t, FlagComment.varNP(cmd, &v, false))

	// comment defaults to true
	got, err := FlagComment.Value(cmd, nil)
	require.NoError(t, err)
	require.True(t, got)

	require.NoError(t, cmd.Flags().Set(FlagComment.Name, "false"))
	got, err = FlagComment.Value(cmd, nil)
	require.NoError(t, err)
	require.False(t, got)
}

func TestFlagDefinition_StringSlice(t *testing.T) {
	var v []string
	cmd := &cobra.Command{}
	require.NoError(t, FlagMods.varNP(cmd, &v, false))

	got, err := FlagMods.Value(cmd, []string{"--mods", "overlay,br_netfilter"})
	require.NoError(t, err)
	require.Equal(t, []string{"overlay", "br_netfilter"}, got)
}

func TestFlagDefinition_NilPointer_ReturnsError(t *testing.T) {
	cmd := &cobra.Command{}
	err := FlagPersist.varNP(cmd, nil, false)
	require.Error(t, err)
}

func TestFlagDefinition_RequiredFlag_IsMarked(t *testing.T) {
	var v string
	cmd := &cobra.Command{}
	require.NoError(t, FlagStateFile.varNP(cmd, &v, true))

	flag := cmd.Flags().Lookup(FlagStateFile.Name)
	require.NotNil(t, flag)
	ann := flag.Annotations[cobra.BashCompOneRequiredFlag]
	require.Equal(t, []string{"true"}, ann)
}

func TestValue_CheckPersistentFlagInParentCommand(t *testing.T) {
	var out string
	parent := &cobra.Command{Use: "parent"}
	child := &cobra.Command{Use: "child", Run: func(cmd *cobra.Command, args []string) {}}
	parent.AddCommand(child)
	require.NoError(t, FlagOutput.varP(parent, &out, false))

	parent.SetArgs([]string{"child", "--output", "json"})
	require.NoError(t, parent.Execute())

	got, err := FlagOutput.Value(child, nil)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got)
}

func TestGetExecutionMode_ValidCases(t *testing.T) {
	tests := []struct {
		name                             string
		continueOnErr, stop, rollbackErr bool
		expected                         automa.TypeMode
	}{
		{"none set", false, false, false, automa.StopOnError},
		{"continue only", true, false, false, automa.ContinueOnError},
		{"stop only", false, true, false, automa.StopOnError},
		{"rollback only", false, false, true, automa.RollbackOnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := GetExecutionMode(tt.continueOnErr, tt.stop, tt.rollbackErr)
			require.NoError(t, err)
			require.Equal(t, tt.expected, mode)
		})
	}
}

func TestGetExecutionMode_MutuallyExclusiveFlags_ReturnsError(t *testing.T) {
	_, err := GetExecutionMode(true, false, true)
	require.Error(t, err)

	_, err = GetExecutionMode(true, true, true)
	require.Error(t, err)
}
