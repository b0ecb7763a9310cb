// SPDX-License-Identifier: Apache-2.0

// Package kmod converges the set of loaded kernel modules towards a desired state.
//
// Present and Absent compare the requested modules with what the kernel reports, call the
// loader only for modules that need work, and fold the per-module results into one Outcome.
// A failure on one module never stops the others from being processed.
package kmod

import (
	"context"
	"sort"

	"github.com/automa-saga/logx"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/hashgraph/kmod-weaver/pkg/kernel"
	"github.com/hashgraph/kmod-weaver/pkg/sanity"
	"github.com/joomcode/errorx"
	"github.com/rs/zerolog"
)

// PresentRequest asks for modules to be loaded.
// Mods takes precedence over Name; when Mods is empty Name is the only module.
type PresentRequest struct {
	Name    string
	Mods    []string
	Persist bool
}

// AbsentRequest asks for modules to be unloaded.
// With Persist set, boot configuration entries are commented out when Comment is set and deleted otherwise.
type AbsentRequest struct {
	Name    string
	Mods    []string
	Persist bool
	Comment bool
}

// Reconciler runs the present and absent convergence operations
type Reconciler struct {
	inventory kernel.Inventory
	loader    kernel.Loader
	dryRun    bool
	logger    *zerolog.Logger
}

// Option allows injecting various parameters for the Reconciler
type Option = func(r *Reconciler)

// WithDryRun makes the reconciler report intended changes without performing them
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) {
		r.dryRun = dryRun
	}
}

// WithLogger allows injecting a logger for the Reconciler
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReconciler returns a Reconciler that reads state from and applies changes through manager.
// It returns an IllegalArgument error when manager is nil.
func NewReconciler(manager kernel.Manager, opts ...Option) (*Reconciler, error) {
	if manager == nil {
		return nil, errorx.IllegalArgument.New("kernel module manager is required")
	}

	r := &Reconciler{
		inventory: manager,
		loader:    manager,
		logger:    logx.As(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// DryRun reports whether the reconciler suppresses changes
func (r *Reconciler) DryRun() bool {
	return r.dryRun
}

// Present ensures every requested module is loaded, and persisted when req.Persist is set.
// An error is returned only for invalid requests or when the current state cannot be read.
func (r *Reconciler) Present(ctx context.Context, req PresentRequest) (*Outcome, error) {
	requested, spelling, err := desiredSet(req.Name, req.Mods)
	if err != nil {
		return nil, err
	}

	out := newOutcome(req.Name)

	loaded, err := r.inventory.Loaded(ctx)
	if err != nil {
		return nil, InventoryError.Wrap(err, "failed to list loaded kernel modules")
	}
	current := canonicalSet(loaded)

	// a module only counts as present when it also survives a reboot
	if req.Persist {
		persisted, err := r.inventory.Persisted(ctx)
		if err != nil {
			return nil, InventoryError.Wrap(err, "failed to list persisted kernel modules")
		}
		current = current.Intersect(canonicalSet(persisted))
	}

	alreadyLoaded := requested.Intersect(current)
	if alreadyLoaded.Cardinality() > 0 {
		out.appendComment(describe(spelling.of(alreadyLoaded), "is already present", "are already present"))
	}

	if alreadyLoaded.Equal(requested) {
		return out, nil
	}

	notLoaded := requested.Difference(alreadyLoaded)

	if r.dryRun {
		out.Result = StatusPending
		out.appendComment(describe(spelling.of(notLoaded), "is set to be loaded", "are set to be loaded"))
		r.logger.Info().
			Strs("modules", sorted(notLoaded)).
			Bool("dry_run", true).
			Msg("Kernel modules would be loaded")
		return out, nil
	}

	available, err := r.inventory.Available(ctx)
	if err != nil {
		return nil, InventoryError.Wrap(err, "failed to list available kernel modules")
	}

	unavailable := notLoaded.Difference(canonicalSet(available))
	if unavailable.Cardinality() > 0 {
		out.Result = StatusFailure
		out.appendComment(describe(spelling.of(unavailable), "is unavailable", "are unavailable"))
		r.logger.Warn().Strs("modules", sorted(unavailable)).Msg("Kernel modules are unavailable")
	}

	var t tally
	loadedByDependency := mapset.NewSet[string]()
	for _, mod := range sorted(notLoaded.Difference(unavailable)) {
		if loadedByDependency.Contains(mod) {
			t.done = append(t.done, spelling[mod])
			continue
		}

		res := r.loader.Load(ctx, mod, req.Persist)
		switch {
		case res.Kind == kernel.KindChanged && len(res.Modules) > 0:
			for _, affected := range kernel.CanonicalNames(res.Modules) {
				out.Changes[affected] = ActionLoaded
				if affected != mod {
					loadedByDependency.Add(affected)
				}
			}
			t.done = append(t.done, spelling[mod])
		case res.Kind == kernel.KindFailed:
			out.Result = StatusFailure
			t.failed = append(t.failed, moduleFailure{module: spelling[mod], message: res.Message()})
		default:
			out.Result = StatusFailure
			t.notDone = append(t.notDone, spelling[mod])
		}

		r.logger.Debug().
			Str("module", mod).
			Bool("persist", req.Persist).
			Str("result", res.Kind.String()).
			Strs("affected", res.Modules).
			Msg("Kernel module load attempted")
	}

	t.summarize(out, "load", "Loaded")

	r.logger.Info().
		Str("name", out.Name).
		Str("result", out.Result.String()).
		Int("changes", len(out.Changes)).
		Msg("Kernel module present state converged")

	return out, nil
}

// Absent ensures none of the requested modules are loaded, and with req.Persist that none are
// configured to load at boot.
// An error is returned only for invalid requests or when the current state cannot be read.
func (r *Reconciler) Absent(ctx context.Context, req AbsentRequest) (*Outcome, error) {
	requested, spelling, err := desiredSet(req.Name, req.Mods)
	if err != nil {
		return nil, err
	}

	out := newOutcome(req.Name)

	loaded, err := r.inventory.Loaded(ctx)
	if err != nil {
		return nil, InventoryError.Wrap(err, "failed to list loaded kernel modules")
	}
	current := canonicalSet(loaded)

	// a persisted module still has to be dealt with even when it is not loaded right now
	if req.Persist {
		persisted, err := r.inventory.Persisted(ctx)
		if err != nil {
			return nil, InventoryError.Wrap(err, "failed to list persisted kernel modules")
		}
		current = current.Union(canonicalSet(persisted))
	}

	toUnload := requested.Intersect(current)
	if toUnload.Cardinality() == 0 {
		out.appendComment(describe(spelling.of(requested), "is already removed", "are already removed"))
		return out, nil
	}

	if r.dryRun {
		out.Result = StatusPending
		out.appendComment(describe(spelling.of(toUnload), "is set to be removed", "are set to be removed"))
		r.logger.Info().
			Strs("modules", sorted(toUnload)).
			Bool("dry_run", true).
			Msg("Kernel modules would be removed")
		return out, nil
	}

	var t tally
	for _, mod := range sorted(toUnload) {
		res := r.loader.Unload(ctx, mod, req.Persist, req.Comment)
		switch {
		case res.Kind == kernel.KindChanged && len(res.Modules) > 0:
			for _, affected := range kernel.CanonicalNames(res.Modules) {
				out.Changes[affected] = ActionRemoved
			}
			t.done = append(t.done, spelling[mod])
		case res.Kind == kernel.KindFailed:
			out.Result = StatusFailure
			t.failed = append(t.failed, moduleFailure{module: spelling[mod], message: res.Message()})
		default:
			out.Result = StatusFailure
			t.notDone = append(t.notDone, spelling[mod])
		}

		r.logger.Debug().
			Str("module", mod).
			Bool("persist", req.Persist).
			Bool("comment", req.Comment).
			Str("result", res.Kind.String()).
			Strs("affected", res.Modules).
			Msg("Kernel module unload attempted")
	}

	t.summarize(out, "remove", "Removed")

	r.logger.Info().
		Str("name", out.Name).
		Str("result", out.Result.String()).
		Int("changes", len(out.Changes)).
		Msg("Kernel module absent state converged")

	return out, nil
}

// spellings maps the kernel spelling of each requested module to the spelling the caller used
type spellings map[string]string

// of returns the caller's spellings of the modules in s, ordered by kernel spelling
func (sp spellings) of(s mapset.Set[string]) []string {
	mods := sorted(s)
	for i, mod := range mods {
		if name, ok := sp[mod]; ok {
			mods[i] = name
		}
	}
	return mods
}

// desiredSet normalizes the name/mods pair into a validated set of kernel module names.
// The kernel treats '-' and '_' alike, so the set holds canonical names and spellings keeps the
// caller's form for comments.
func desiredSet(name string, mods []string) (mapset.Set[string], spellings, error) {
	if len(mods) == 0 {
		mods = []string{name}
	}

	set := mapset.NewSet[string]()
	spelling := spellings{}
	for _, mod := range mods {
		if err := sanity.ModuleName(mod); err != nil {
			return nil, nil, errorx.IllegalArgument.Wrap(err, "invalid kernel module name %q", mod).
				WithProperty(errorx.PropertyPayload(), mod)
		}

		canonical := kernel.CanonicalName(mod)
		if _, ok := spelling[canonical]; !ok {
			spelling[canonical] = mod
		}
		set.Add(canonical)
	}

	return set, spelling, nil
}

func canonicalSet(names []string) mapset.Set[string] {
	return mapset.NewSet(kernel.CanonicalNames(names)...)
}

func sorted(s mapset.Set[string]) []string {
	out := s.ToSlice()
	sort.Strings(out)
	return out
}
