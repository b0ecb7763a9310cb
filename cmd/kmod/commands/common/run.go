// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/hashgraph/kmod-weaver/internal/config"
	"github.com/hashgraph/kmod-weaver/internal/doctor"
	"github.com/hashgraph/kmod-weaver/internal/kmod"
	"github.com/hashgraph/kmod-weaver/internal/workflows/steps"
	"github.com/hashgraph/kmod-weaver/pkg/kernel"
)

// use var to allow mocking in tests
var (
	newManager = kernel.NewManager
	checkErr   = doctor.CheckErr
)

// NewManager builds the kernel module manager from the loaded configuration
func NewManager() (kernel.Manager, error) {
	opts := append(config.Get().Kmod.ManagerOptions(), kernel.WithLogger(logx.As()))
	return newManager(opts...)
}

// NewReconciler builds a reconciler honouring the configured dry-run flag
func NewReconciler(mgr kernel.Manager) (*kmod.Reconciler, error) {
	return kmod.NewReconciler(mgr,
		kmod.WithDryRun(config.Get().Kmod.DryRun),
		kmod.WithLogger(logx.As()),
	)
}

// RunWorkflow executes a workflow and handles error
func RunWorkflow(ctx context.Context, b automa.Builder, reportPath string) {
	wb, err := b.Build()
	if err != nil {
		checkErr(ctx, err)
		return
	}

	report := wb.Execute(ctx)
	CheckWorkflowReport(ctx, report, reportPath)
}

// CheckWorkflowReport prints the report and hands a failed workflow to the doctor
func CheckWorkflowReport(ctx context.Context, report *automa.Report, reportPath string) {
	steps.PrintWorkflowReport(report, reportPath)

	if report.Error != nil {
		checkErr(ctx, report.Error, doctor.GetInstructionsFromReport(report))
	}
}
