// SPDX-License-Identifier: Apache-2.0

package common

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/hashgraph/kmod-weaver/internal/kmod"
	"github.com/joomcode/errorx"
	"gopkg.in/yaml.v3"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Format renders v as YAML or JSON
func Format(v interface{}, format string) (string, error) {
	var output []byte
	var err error
	switch strings.ToLower(format) {
	case FormatJSON:
		output, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", errorx.IllegalFormat.Wrap(err, "failed to marshal output to JSON")
		}
		output = append(output, '\n')
	case FormatYAML:
		output, err = yaml.Marshal(v)
		if err != nil {
			return "", errorx.IllegalFormat.Wrap(err, "failed to marshal output to YAML")
		}
	default:
		return "", errorx.IllegalArgument.New("unsupported output format: %s", format).
			WithProperty(errorx.PropertyPayload(), "--output")
	}

	return string(output), nil
}

// PrintOutcome writes the outcome and returns a ConvergenceError when it failed,
// so the command exits with a non-zero status.
func PrintOutcome(w io.Writer, out *kmod.Outcome, format string) error {
	s, err := Format(out, format)
	if err != nil {
		return err
	}

	if _, err = io.WriteString(w, s); err != nil {
		return errorx.ExternalError.Wrap(err, "failed to write output")
	}

	if !out.Succeeded() {
		return kmod.ConvergenceError.New("kernel modules for %s did not converge", out.Name).
			WithProperty(errorx.PropertyPayload(), out.Comment)
	}

	return nil
}
