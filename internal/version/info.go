// SPDX-License-Identifier: Apache-2.0

package version

import (
	"encoding/json"
	"runtime"
	"strings"

	"github.com/joomcode/errorx"
	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"
)

// Info describes this build and the kernel it runs on
type Info struct {
	Number    string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	GoVersion string `json:"go" yaml:"go"`
	BuildMode string `json:"buildMode" yaml:"buildMode"`
	Platform  string `json:"platform" yaml:"platform"`
	Kernel    string `json:"kernel,omitempty" yaml:"kernel,omitempty"`
}

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// use var to allow mocking in tests
var uname = unix.Uname

func (v Info) Format(format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		output, err := json.Marshal(v)
		if err != nil {
			return "", errorx.IllegalFormat.Wrap(err, "failed to marshal version info to JSON")
		}
		return string(output), nil
	case FormatYAML:
		output, err := yaml.Marshal(v)
		if err != nil {
			return "", errorx.IllegalFormat.Wrap(err, "failed to marshal version info to YAML")
		}
		return string(output), nil
	default:
		return "", errorx.IllegalFormat.New("unsupported format: %s", format)
	}
}

// kernelRelease returns the running kernel release, or "" when uname fails
func kernelRelease() string {
	var uts unix.Utsname
	if err := uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uts.Release[:])
}

// Get returns the build information along with the running kernel release
func Get() Info {
	return Info{
		Number:    Number(),
		Commit:    Commit(),
		GoVersion: runtime.Version(),
		BuildMode: BuildMode(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Kernel:    kernelRelease(),
	}
}
