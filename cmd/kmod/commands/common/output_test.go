// SPDX-License-Identifier: Apache-2.0

package common

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/hashgraph/kmod-weaver/internal/kmod"
	"github.com/hashgraph/kmod-weaver/pkg/kernel"
	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// outcome runs a present request against a mocked kernel to get a real Outcome
func outcome(t *testing.T, loadResult kernel.Result) *kmod.Outcome {
	t.Helper()
	ctrl := gomock.NewController(t)
	mgr := kernel.NewMockManager(ctrl)
	mgr.EXPECT().Loaded(gomock.Any()).Return(nil, nil)
	mgr.EXPECT().Available(gomock.Any()).Return([]string{"dummy"}, nil)
	mgr.EXPECT().Load(gomock.Any(), "dummy", false).Return(loadResult)

	r, err := kmod.NewReconciler(mgr)
	require.NoError(t, err)
	out, err := r.Present(context.Background(), kmod.PresentRequest{Name: "dummy"})
	require.NoError(t, err)
	return out
}

func TestPrintOutcome_JSON(t *testing.T) {
	out := outcome(t, kernel.Changed("dummy"))

	var buf bytes.Buffer
	require.NoError(t, PrintOutcome(&buf, out, FormatJSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "dummy", decoded["name"])
	assert.Equal(t, true, decoded["result"])
	assert.Equal(t, map[string]interface{}{"dummy": "loaded"}, decoded["changes"])
	assert.Equal(t, "Loaded kernel module dummy", decoded["comment"])
}

func TestPrintOutcome_YAMLFailure(t *testing.T) {
	out := outcome(t, kernel.Failed(kernel.LoadError.New("operation not permitted")))

	var buf bytes.Buffer
	err := PrintOutcome(&buf, out, FormatYAML)
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, kmod.ConvergenceError))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, false, decoded["result"])
	assert.Contains(t, decoded["comment"], "Failed to load kernel module dummy: operation not permitted")
}

func TestFormat_UnsupportedFormat(t *testing.T) {
	_, err := Format(map[string]string{}, "xml")
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, errorx.IllegalArgument))
}
