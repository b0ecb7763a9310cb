// SPDX-License-Identifier: Apache-2.0

package present

import (
	"testing"

	"github.com/hashgraph/kmod-weaver/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentCmd_RequiresName(t *testing.T) {
	root := testutil.PrepareSubCmdForTest(GetCmd())

	_, err := testutil.ExecuteCmd(root, "present")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestPresentCmd_Flags(t *testing.T) {
	cmd := GetCmd()

	mods := cmd.Flags().Lookup("mods")
	require.NotNil(t, mods)
	assert.Equal(t, "m", mods.Shorthand)

	persist := cmd.Flags().Lookup("persist")
	require.NotNil(t, persist)
	assert.Equal(t, "false", persist.DefValue)
}
