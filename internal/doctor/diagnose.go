// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/hashgraph/kmod-weaver/internal/config"
	"github.com/hashgraph/kmod-weaver/internal/kmod"
	"github.com/hashgraph/kmod-weaver/internal/state"
	"github.com/hashgraph/kmod-weaver/internal/version"
	"github.com/hashgraph/kmod-weaver/pkg/kernel"
	"github.com/joomcode/errorx"
)

// ErrPropertyResolution carries a human readable fix alongside an error
var ErrPropertyResolution = errorx.RegisterPrintableProperty("resolution")

type ErrorDiagnosis struct {
	Error      error    `yaml:"error" json:"error"`
	Message    string   `yaml:"message" json:"message"`
	Cause      string   `yaml:"cause" json:"cause"`
	ErrorType  string   `yaml:"errorType" json:"errorType"`
	TraceId    string   `yaml:"traceId" json:"traceId"`
	Commit     string   `yaml:"commit" json:"commit"`
	Version    string   `yaml:"version" json:"version"`
	Pid        int      `yaml:"pid" json:"pid"`
	Code       int      `yaml:"code" json:"code"`
	Logfile    string   `yaml:"log" json:"log"`
	Resolution []string `yaml:"steps" json:"steps"`
}

// use var to allow mocking in tests
var exit = os.Exit

func toErrorCode(err error) int {
	switch {
	case errorx.IsOfType(err, errorx.IllegalArgument):
		return 10400
	case errorx.IsOfType(err, errorx.IllegalFormat), errorx.IsOfType(err, state.ParseError),
		errorx.IsOfType(err, config.ReadError):
		return 10422
	case errorx.IsOfType(err, state.InvalidDeclarationError):
		return 10409
	case errorx.IsOfType(err, kernel.LoadError), errorx.IsOfType(err, kernel.UnloadError),
		errorx.IsOfType(err, kmod.ConvergenceError):
		return 10503
	default:
		if errorx.HasTrait(err, errorx.NotFound()) {
			return 10404
		}
		return 10500
	}
}

func toErrorMessage(err error) (string, string) {
	e := errorx.Cast(err)
	if e == nil {
		return err.Error(), ""
	}

	if e.Cause() == nil {
		return e.Message(), ""
	}
	return e.Message(), fmt.Sprintf("%s", e.Cause())
}

func findResolution(err error) []string {
	if res, ok := errorx.ExtractProperty(err, ErrPropertyResolution); ok {
		if s, ok := res.(string); ok && s != "" {
			return []string{s}
		}
	}

	switch {
	case errorx.IsOfType(err, errorx.IllegalArgument):
		if arg, ok := errorx.ExtractProperty(err, errorx.PropertyPayload()); ok {
			return []string{fmt.Sprintf("Ensure %q is valid.", arg)}
		}
		return []string{"Ensure all required arguments are provided."}
	case errorx.IsOfType(err, errorx.IllegalFormat):
		return []string{"Ensure provided data is in correct format."}
	case errorx.IsOfType(err, config.NotFoundError), errorx.IsOfType(err, config.ReadError):
		if arg, ok := errorx.ExtractProperty(err, errorx.PropertyPayload()); ok {
			return []string{fmt.Sprintf("Ensure configuration file %q exists, is correctly formatted and accessible", arg)}
		}
		return []string{"Ensure configuration file exists and is accessible."}
	case errorx.IsOfType(err, state.FileNotFoundError), errorx.IsOfType(err, state.ParseError):
		if arg, ok := errorx.ExtractProperty(err, errorx.PropertyPayload()); ok {
			return []string{fmt.Sprintf("Ensure state file %q exists and is valid TOML with [[present]] and [[absent]] tables", arg)}
		}
		return []string{"Ensure the state file exists and is valid TOML."}
	case errorx.IsOfType(err, state.InvalidDeclarationError):
		if arg, ok := errorx.ExtractProperty(err, errorx.PropertyPayload()); ok {
			return []string{fmt.Sprintf("Fix declaration %q in the state file: ids must be unique and module names valid", arg)}
		}
		return []string{"Ensure every declaration has a name, a unique id and valid module names."}
	case errorx.IsOfType(err, kmod.ConvergenceError):
		return []string{"Review the outcome comment above; unavailable modules need the matching modules package installed."}
	case errorx.IsOfType(err, kernel.InventoryError), errorx.IsOfType(err, kmod.InventoryError):
		return []string{"Ensure /proc is mounted and the modules of the running kernel are installed."}
	case errorx.IsOfType(err, kernel.PersistError):
		return []string{"Ensure the boot configuration files under /etc are writable by the current user."}
	default:
		return []string{"Check error message for details or contact support"}
	}
}

// Diagnose attempts to find a resolution and provide a human friendly error response
func Diagnose(ctx context.Context, ex error) *ErrorDiagnosis {
	msg, cause := toErrorMessage(ex)
	return &ErrorDiagnosis{
		Error:      ex,
		ErrorType:  errorx.GetTypeName(ex),
		Message:    msg,
		Cause:      cause,
		TraceId:    TraceId(ctx),
		Code:       toErrorCode(ex),
		Commit:     version.Commit(),
		Version:    version.Number(),
		Pid:        os.Getpid(),
		Logfile:    config.Get().Log.Filename,
		Resolution: findResolution(ex),
	}
}

// Print writes the diagnosis in the same layout CheckErr uses
func Print(w io.Writer, resp *ErrorDiagnosis, instructions ...string) {
	p := paletteFor(w)

	_, _ = fmt.Fprintf(w, "\n%s%s************************************** Error Diagnostics ******************************************%s\n", p.bold, p.red, p.reset)
	_, _ = fmt.Fprintf(w, "%s*%s\t%sError:%s %s\n", p.red, p.reset, p.bold+p.white, p.reset, resp.Message)
	if resp.Cause != "" {
		_, _ = fmt.Fprintf(w, "%s*%s\t%sCause:%s %s\n", p.red, p.reset, p.bold+p.white, p.reset, resp.Cause)
	}
	_, _ = fmt.Fprintf(w, "%s*%s\t%sError Type:%s %s\n", p.red, p.reset, p.bold+p.white, p.reset, resp.ErrorType)
	_, _ = fmt.Fprintf(w, "%s*%s\t%sError Code:%s %d\n", p.red, p.reset, p.bold+p.white, p.reset, resp.Code)
	_, _ = fmt.Fprintf(w, "%s*%s\t%sCommit:%s %s\n", p.red, p.reset, p.gray, p.reset, resp.Commit)
	_, _ = fmt.Fprintf(w, "%s*%s\t%sPid:%s %d\n", p.red, p.reset, p.gray, p.reset, resp.Pid)
	_, _ = fmt.Fprintf(w, "%s*%s\t%sTraceId:%s %s\n", p.red, p.reset, p.gray, p.reset, resp.TraceId)
	_, _ = fmt.Fprintf(w, "%s*%s\t%sVersion:%s %s\n", p.red, p.reset, p.gray, p.reset, resp.Version)
	if resp.Logfile != "" {
		_, _ = fmt.Fprintf(w, "%s*%s\t%sLogfile:%s %s\n", p.red, p.reset, p.cyan, p.reset, resp.Logfile)
	}
	_, _ = fmt.Fprintf(w, "%s%s***************************************************************************************************%s\n", p.bold, p.red, p.reset)
	_, _ = fmt.Fprintf(w, "\n%s%s****************************************** Resolution *********************************************%s\n", p.bold, p.yellow, p.reset)

	// Print custom instructions first if provided
	if len(instructions) > 0 && instructions[0] != "" {
		for _, line := range strings.Split(instructions[0], "\n") {
			if line == "" {
				_, _ = fmt.Fprintf(w, "%s*%s\n", p.yellow, p.reset)
			} else {
				_, _ = fmt.Fprintf(w, "%s*%s\t%s\n", p.yellow, p.reset, p.bold+p.white+line+p.reset)
			}
		}
		if len(resp.Resolution) > 0 {
			_, _ = fmt.Fprintf(w, "%s*%s\n", p.yellow, p.reset)
		}
	}

	for _, r := range resp.Resolution {
		_, _ = fmt.Fprintf(w, "%s*%s\t%s\n", p.yellow, p.reset, p.white+r+p.reset)
	}

	_, _ = fmt.Fprintf(w, "%s%s***************************************************************************************************%s\n", p.bold, p.yellow, p.reset)
}

// CheckErr prints diagnosis and exit with error code 1
// Optional instructions can be provided to give additional context to the user
func CheckErr(ctx context.Context, err error, instructions ...string) {
	logx.As().Error().Err(err).Msg("error occurred")
	fmt.Printf("%+v\n", err)

	Print(os.Stdout, Diagnose(ctx, err), instructions...)

	exit(1)
}

// GetInstructionsFromReport recursively searches for instructions in report metadata.
// Returns the first non-empty instructions found in the report tree, or an empty string if none exist.
func GetInstructionsFromReport(report *automa.Report) string {
	if report == nil {
		return ""
	}

	if instructions, ok := report.Metadata["instructions"]; ok {
		return instructions
	}

	for _, stepReport := range report.StepReports {
		if instructions := GetInstructionsFromReport(stepReport); instructions != "" {
			return instructions
		}
	}

	return ""
}
