// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/automa-saga/automa"
	"github.com/hashgraph/kmod-weaver/internal/kmod"
	"github.com/hashgraph/kmod-weaver/internal/workflows/notify"
)

const (
	KeyResult         = "result"
	KeyChanges        = "changes"
	KeyComment        = "comment"
	KeyLoadedModules  = "loaded_modules"
	KeyDryRun         = "dry_run"
	presentStepPrefix = "kernel-modules-present"
	absentStepPrefix  = "kernel-modules-absent"
)

// EnsureKernelModulesPresent loads the requested modules.
// The step fails when any module could not be loaded; a dry-run that would load modules succeeds.
// On rollback, it unloads the modules this step loaded, removing the boot entries it added.
func EnsureKernelModulesPresent(id string, r *kmod.Reconciler, req kmod.PresentRequest) automa.Builder {
	return automa.NewStepBuilder().WithId(stepId(presentStepPrefix, id)).
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			out, err := r.Present(ctx, req)
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to ensure kernel modules %s are present", req.Name)))
			}

			stp.State().Set(KeyLoadedModules, strings.Join(changedModules(out, kmod.ActionLoaded), ","))

			return outcomeReport(stp, r, out, "failed to load kernel modules for %s", req.Name)
		}).
		WithRollback(func(ctx context.Context, stp automa.Step) *automa.Report {
			loaded := stp.State().String(KeyLoadedModules)
			if loaded == "" {
				return automa.SkippedReport(stp, automa.WithDetail("no kernel modules were loaded by this step"))
			}

			out, err := r.Absent(ctx, kmod.AbsentRequest{
				Name:    req.Name,
				Mods:    strings.Split(loaded, ","),
				Persist: req.Persist,
			})
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to unload kernel modules %s", loaded)))
			}

			return outcomeReport(stp, r, out, "failed to unload kernel modules %s", loaded)
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Ensuring kernel modules %s are present", req.Name)
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "Kernel modules %s are present", req.Name)
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Failed to ensure kernel modules %s are present", req.Name)
		})
}

// EnsureKernelModulesAbsent unloads the requested modules.
// Rollback is a no-op: modules that were removed on purpose are never reloaded.
func EnsureKernelModulesAbsent(id string, r *kmod.Reconciler, req kmod.AbsentRequest) automa.Builder {
	return automa.NewStepBuilder().WithId(stepId(absentStepPrefix, id)).
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			out, err := r.Absent(ctx, req)
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to ensure kernel modules %s are absent", req.Name)))
			}

			return outcomeReport(stp, r, out, "failed to remove kernel modules for %s", req.Name)
		}).
		WithRollback(func(ctx context.Context, stp automa.Step) *automa.Report {
			return automa.SkippedReport(stp, automa.WithDetail("removed kernel modules are not reloaded"))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Ensuring kernel modules %s are absent", req.Name)
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "Kernel modules %s are absent", req.Name)
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Failed to ensure kernel modules %s are absent", req.Name)
		})
}

// outcomeReport turns a reconciler outcome into a step report carrying the outcome as metadata
func outcomeReport(stp automa.Step, r *kmod.Reconciler, out *kmod.Outcome, format string, args ...interface{}) *automa.Report {
	meta := outcomeMetadata(out)
	meta[KeyDryRun] = fmt.Sprintf("%t", r.DryRun())

	if !out.Succeeded() {
		return automa.FailureReport(stp,
			automa.WithError(
				automa.StepExecutionError.New(format+": %s", append(args, out.Comment)...)),
			automa.WithMetadata(meta))
	}

	return automa.SuccessReport(stp, automa.WithMetadata(meta))
}

func outcomeMetadata(out *kmod.Outcome) map[string]string {
	result, err := json.Marshal(out.Result)
	if err != nil {
		result = []byte(out.Result.String())
	}

	changes := make([]string, 0, len(out.Changes))
	for mod, action := range out.Changes {
		changes = append(changes, fmt.Sprintf("%s=%s", mod, action))
	}
	sort.Strings(changes)

	return map[string]string{
		KeyResult:  string(result),
		KeyChanges: strings.Join(changes, ", "),
		KeyComment: out.Comment,
	}
}

// changedModules returns the sorted modules the outcome recorded with the given action
func changedModules(out *kmod.Outcome, action kmod.Action) []string {
	var mods []string
	for mod, a := range out.Changes {
		if a == action {
			mods = append(mods, mod)
		}
	}
	sort.Strings(mods)
	return mods
}

func stepId(prefix, id string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ReplaceAll(strings.TrimSpace(id), " ", "-"))
}
