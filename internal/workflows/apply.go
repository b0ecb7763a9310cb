// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"context"

	"github.com/automa-saga/automa"
	"github.com/hashgraph/kmod-weaver/internal/kmod"
	"github.com/hashgraph/kmod-weaver/internal/state"
	"github.com/hashgraph/kmod-weaver/internal/workflows/notify"
	"github.com/hashgraph/kmod-weaver/internal/workflows/steps"
	"github.com/hashgraph/kmod-weaver/pkg/kernel"
)

const ApplyStateWorkflowId = "apply-kernel-module-state"

// NewApplyStateWorkflow runs the preflight checks followed by one step per declaration,
// in declaration order.
func NewApplyStateWorkflow(inv kernel.Inventory, r *kmod.Reconciler, decls []state.Declaration) *automa.WorkflowBuilder {
	builders := []automa.Builder{NewPreflightWorkflow(inv, r.DryRun())}
	builders = append(builders, DeclarationSteps(r, decls)...)

	return automa.NewWorkflowBuilder().
		WithId(ApplyStateWorkflowId).Steps(builders...).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Applying kernel module state")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Failed to apply kernel module state")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Kernel module state applied")
		})
}

// DeclarationSteps converts state declarations into workflow steps
func DeclarationSteps(r *kmod.Reconciler, decls []state.Declaration) []automa.Builder {
	builders := make([]automa.Builder, 0, len(decls))
	for _, d := range decls {
		switch d.Kind {
		case state.KindPresent:
			builders = append(builders, steps.EnsureKernelModulesPresent(d.ID, r, *d.Present))
		case state.KindAbsent:
			builders = append(builders, steps.EnsureKernelModulesAbsent(d.ID, r, *d.Absent))
		}
	}
	return builders
}
