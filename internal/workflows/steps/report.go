// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/moby/sys/atomicwriter"
	"gopkg.in/yaml.v3"
)

// PrintWorkflowReport prints the workflow execution report in YAML format.
// When reportPath is set, the report is also saved to that file.
var PrintWorkflowReport = func(report *automa.Report, reportPath string) {
	b, err := yaml.Marshal(report)
	if err != nil {
		fmt.Printf("Failed to marshal report: %v\n", err)
		return
	}
	fmt.Printf("Workflow Execution Report:\n%s\n", b)

	if reportPath == "" {
		return
	}

	if err = os.MkdirAll(filepath.Dir(reportPath), 0o755); err == nil {
		err = atomicwriter.WriteFile(reportPath, b, 0o644)
	}
	if err != nil {
		logx.As().Warn().Err(err).Str("report_path", reportPath).Msg("Failed to save workflow report")
		return
	}
	logx.As().Info().Str("report_path", reportPath).Msg("Workflow report is saved")
}
