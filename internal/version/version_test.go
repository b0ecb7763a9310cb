// SPDX-License-Identifier: Apache-2.0

package version

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"
)

func TestIsReleaseBuild(t *testing.T) {
	testCases := []struct {
		name      string
		buildMode string
		expected  bool
	}{
		{name: "release build", buildMode: "release", expected: true},
		{name: "release build with whitespace", buildMode: "  release\n", expected: true},
		{name: "empty build mode", buildMode: "", expected: false},
		{name: "dev build", buildMode: "dev", expected: false},
		{name: "case mismatch", buildMode: "Release", expected: false},
	}

	orig := buildMode
	t.Cleanup(func() { buildMode = orig })

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buildMode = tc.buildMode
			require.Equal(t, tc.expected, IsReleaseBuild())
			if tc.expected {
				require.Equal(t, "release", BuildMode())
			} else {
				require.Equal(t, "dev", BuildMode())
			}
		})
	}
}

func TestInfo_Format(t *testing.T) {
	info := Info{Number: "0.1.0", Commit: "abc123", GoVersion: "go1.25.2", BuildMode: "dev", Platform: "linux/amd64", Kernel: "6.8.0-45-generic"}

	out, err := info.Format(FormatJSON)
	require.NoError(t, err)
	var decoded Info
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, info, decoded)

	out, err = info.Format("YAML")
	require.NoError(t, err)
	decoded = Info{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, info, decoded)

	_, err = info.Format("xml")
	require.Error(t, err)
	assert.True(t, errorx.IsOfType(err, errorx.IllegalFormat))
}

func TestGet(t *testing.T) {
	orig := uname
	t.Cleanup(func() { uname = orig })
	uname = func(uts *unix.Utsname) error {
		copy(uts.Release[:], "6.8.0-test")
		return nil
	}

	info := Get()
	assert.Equal(t, Number(), info.Number)
	assert.Equal(t, Commit(), info.Commit)
	assert.NotEmpty(t, info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, "6.8.0-test", info.Kernel)
}

func TestGet_UnameFailure(t *testing.T) {
	orig := uname
	t.Cleanup(func() { uname = orig })
	uname = func(uts *unix.Utsname) error {
		return unix.EPERM
	}

	info := Get()
	assert.Empty(t, info.Kernel)

	out, err := info.Format(FormatJSON)
	require.NoError(t, err)
	assert.NotContains(t, out, "kernel")
}
