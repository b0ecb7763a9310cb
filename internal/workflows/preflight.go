// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/hashgraph/kmod-weaver/internal/doctor"
	"github.com/hashgraph/kmod-weaver/internal/workflows/notify"
	"github.com/hashgraph/kmod-weaver/pkg/kernel"
	"github.com/joomcode/errorx"
	"github.com/lorenzosaino/go-sysctl"
	"github.com/zcalusic/sysinfo"
)

const modulesDisabledKey = "kernel.modules_disabled"

// use var to allow mocking in tests
var (
	currentUser = user.Current
	sysctlGet   = sysctl.Get
	hostInfo    = func() *sysinfo.SysInfo {
		var si sysinfo.SysInfo
		si.GetSysInfo()
		return &si
	}
)

// CheckPrivilegesStep validates that the current user has superuser privileges
func CheckPrivilegesStep() automa.Builder {
	return automa.NewStepBuilder().WithId("validate-privileges").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			current, err := currentUser()
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(errorx.IllegalState.Wrap(err, "failed to get current user")))
			}

			if current.Uid != "0" {
				return automa.FailureReport(stp,
					automa.WithError(
						errorx.IllegalState.New("requires superuser privilege").
							WithProperty(doctor.ErrPropertyResolution,
								fmt.Sprintf("Run the command with 'sudo' or as root user: `sudo %s`",
									strings.Join(os.Args, " ")))))
			}

			logx.As().Info().Msg("Superuser privilege validated")
			return automa.SuccessReport(stp)
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting privilege validation")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Privilege validation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Privilege validation step completed successfully")
		})
}

// CheckModuleLoadingEnabledStep fails once kernel.modules_disabled is set, since the kernel then
// refuses every load and unload until reboot.
func CheckModuleLoadingEnabledStep() automa.Builder {
	return automa.NewStepBuilder().WithId("validate-module-loading-enabled").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			value, err := sysctlGet(modulesDisabledKey)
			if err != nil {
				// older kernels do not have the knob at all
				logx.As().Debug().Err(err).Str("key", modulesDisabledKey).Msg("Unable to read sysctl, assuming module loading is enabled")
				return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{modulesDisabledKey: "unknown"}))
			}

			value = strings.TrimSpace(value)
			if value != "0" {
				return automa.FailureReport(stp,
					automa.WithError(
						errorx.IllegalState.New("kernel module loading is disabled (%s = %s)", modulesDisabledKey, value).
							WithProperty(doctor.ErrPropertyResolution,
								"Module loading stays disabled until the next reboot; remove the setting from /etc/sysctl.d and reboot")),
					automa.WithMetadata(map[string]string{modulesDisabledKey: value}))
			}

			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{modulesDisabledKey: value}))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting module loading validation")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Module loading validation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Module loading validation step completed successfully")
		})
}

// CheckModuleSupportStep validates that the running kernel exposes its module tables
func CheckModuleSupportStep(inv kernel.Inventory) automa.Builder {
	return automa.NewStepBuilder().WithId("validate-module-support").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			loaded, err := inv.Loaded(ctx)
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						errorx.IllegalState.Wrap(err, "kernel does not expose loaded modules").
							WithProperty(doctor.ErrPropertyResolution,
								"Ensure the kernel is built with loadable module support and /proc is mounted")))
			}

			available, err := inv.Available(ctx)
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						errorx.IllegalState.Wrap(err, "kernel module index is not readable").
							WithProperty(doctor.ErrPropertyResolution,
								"Install the modules package for the running kernel and run `depmod -a`")))
			}

			si := hostInfo()
			meta := map[string]string{
				"loaded_count":    fmt.Sprintf("%d", len(loaded)),
				"available_count": fmt.Sprintf("%d", len(available)),
				"kernel_release":  si.Kernel.Release,
				"os_vendor":       si.OS.Vendor,
				"os_version":      si.OS.Version,
			}

			logx.As().Info().
				Int("loaded", len(loaded)).
				Int("available", len(available)).
				Str("kernel_release", si.Kernel.Release).
				Str("os", si.OS.Name).
				Msg("Kernel module support validated")
			return automa.SuccessReport(stp, automa.WithMetadata(meta))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting kernel module support validation")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Kernel module support validation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Kernel module support validation step completed successfully")
		})
}

// NewPreflightWorkflow checks the host before any module is touched.
// Privileges are not required for a dry-run since nothing is changed.
func NewPreflightWorkflow(inv kernel.Inventory, dryRun bool) *automa.WorkflowBuilder {
	var checks []automa.Builder
	if !dryRun {
		checks = append(checks, CheckPrivilegesStep(), CheckModuleLoadingEnabledStep())
	}
	checks = append(checks, CheckModuleSupportStep(inv))

	return automa.NewWorkflowBuilder().
		WithId("kmod-preflight").Steps(checks...).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting preflight checks")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Preflight checks failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Preflight checks completed successfully")
		})
}
