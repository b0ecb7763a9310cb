// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/automa-saga/automa"
	"github.com/golang/mock/gomock"
	"github.com/hashgraph/kmod-weaver/internal/doctor"
	"github.com/hashgraph/kmod-weaver/pkg/kernel"
	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPrivilegesStep(t *testing.T) {
	asUser(t, "1000")

	stp, err := CheckPrivilegesStep().Build()
	require.NoError(t, err)

	report := stp.Execute(context.Background())
	require.Error(t, report.Error)
	res, ok := errorx.ExtractProperty(report.Error, doctor.ErrPropertyResolution)
	require.True(t, ok)
	assert.Contains(t, res, "sudo")

	asUser(t, "0")
	report = stp.Execute(context.Background())
	require.NoError(t, report.Error)
}

func TestCheckModuleLoadingEnabledStep(t *testing.T) {
	asUser(t, "0")

	tests := []struct {
		name    string
		value   string
		err     error
		wantErr bool
		meta    string
	}{
		{name: "enabled", value: "0\n", meta: "0"},
		{name: "disabled", value: "1", wantErr: true, meta: "1"},
		{name: "knob missing", err: errors.New("no such file"), meta: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sysctlGet = func(name string) (string, error) {
				require.Equal(t, modulesDisabledKey, name)
				return tt.value, tt.err
			}

			stp, err := CheckModuleLoadingEnabledStep().Build()
			require.NoError(t, err)

			report := stp.Execute(context.Background())
			if tt.wantErr {
				require.Error(t, report.Error)
				assert.Equal(t, automa.StatusFailed, report.Status)
			} else {
				require.NoError(t, report.Error)
			}
			assert.Equal(t, tt.meta, report.Metadata[modulesDisabledKey])
		})
	}
}

func TestCheckModuleSupportStep(t *testing.T) {
	asUser(t, "0")
	ctx := context.Background()

	t.Run("should report host facts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inv := kernel.NewMockManager(ctrl)
		inv.EXPECT().Loaded(gomock.Any()).Return([]string{"overlay"}, nil)
		inv.EXPECT().Available(gomock.Any()).Return([]string{"overlay", "dummy"}, nil)

		stp, err := CheckModuleSupportStep(inv).Build()
		require.NoError(t, err)

		report := stp.Execute(ctx)
		require.NoError(t, report.Error)
		assert.Equal(t, "1", report.Metadata["loaded_count"])
		assert.Equal(t, "2", report.Metadata["available_count"])
		assert.Equal(t, "6.8.0-test", report.Metadata["kernel_release"])
		assert.Equal(t, "ubuntu", report.Metadata["os_vendor"])
	})

	t.Run("should fail when the module index is missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inv := kernel.NewMockManager(ctrl)
		inv.EXPECT().Loaded(gomock.Any()).Return([]string{"overlay"}, nil)
		inv.EXPECT().Available(gomock.Any()).Return(nil, kernel.InventoryError.New("modules.dep missing"))

		stp, err := CheckModuleSupportStep(inv).Build()
		require.NoError(t, err)

		report := stp.Execute(ctx)
		require.Error(t, report.Error)
		res, ok := errorx.ExtractProperty(report.Error, doctor.ErrPropertyResolution)
		require.True(t, ok)
		assert.Contains(t, res, "depmod")
	})
}
