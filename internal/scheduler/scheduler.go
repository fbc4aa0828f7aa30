package scheduler

import (
	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/graph"
)

// Input is everything a planning run needs.
type Input struct {
	Packages    *entities.Packages
	ChangeFiles []entities.ChangeFile
	Context     entities.VersionContext
	// Targets restricts the output to these packages and what depends on them.
	Targets []string
}

// Plan is the frozen outcome of a planning run.
type Plan struct {
	// Releases is sorted by (order, name).
	Releases []*entities.ReleasePlan
	// Updates lists the manifests that must be written back.
	Updates []entities.ManifestUpdate
	Graph   *graph.DependencyGraph
	// Warnings collects every soft validation issue of the run.
	Warnings []string
}

// Ready returns the releases that carry an actual bump.
func (p *Plan) Ready() []*entities.ReleasePlan {
	ready := make([]*entities.ReleasePlan, 0, len(p.Releases))
	for _, release := range p.Releases {
		if release.Bump != entities.BumpNone {
			ready = append(ready, release)
		}
	}
	return ready
}

// Scheduler computes release plans.
type Scheduler struct {
	matcher Matcher
}

// NewScheduler creates a Scheduler using matcher for fixed-group rules.
func NewScheduler(matcher Matcher) *Scheduler {
	return &Scheduler{matcher: matcher}
}

// Plan runs the whole pipeline: graph, aggregation, propagation fixpoint, finalization,
// target pruning, ordering and manifest rewriting. It never touches the disk.
func (it *Scheduler) Plan(input Input) (*Plan, error) {
	ctx := input.Context
	packages := input.Packages
	byName := packages.ByName()

	deps := graph.Build(packages, graph.OptionsFrom(ctx))
	result := &Plan{
		Releases: make([]*entities.ReleasePlan, 0),
		Updates:  make([]entities.ManifestUpdate, 0),
		Graph:    deps,
		Warnings: append([]string(nil), deps.Warnings...),
	}

	seeded, warnings := Aggregate(input.ChangeFiles, byName, ctx)
	result.Warnings = append(result.Warnings, warnings...)
	if seeded.Len() == 0 {
		return result, nil
	}

	groups := ExpandGroups(it.matcher, ctx.Fixed, packages.Names())

	var targets targetSet
	if len(input.Targets) > 0 {
		var targetWarnings []string
		targets, targetWarnings = resolveTargets(
			input.Targets, seeded, groups, deps.Dependents, byName, ctx.Independent,
		)
		result.Warnings = append(result.Warnings, targetWarnings...)
		if len(targets) == 0 {
			return result, nil
		}
	}

	eng := &engine{
		ctx:        ctx,
		byName:     byName,
		dependents: deps.Dependents,
		groups:     groups,
	}

	baseline := seeded.Snapshot()
	final, err := eng.run(seeded)
	if err != nil {
		return nil, err
	}
	if finalizeErr := eng.finalize(final, baseline); finalizeErr != nil {
		return nil, finalizeErr
	}

	if targets != nil {
		targets.filter(final, groups)
	}

	result.Releases = Order(final, deps.Dependents)
	updates, err := Rewrite(result.Releases, byName, deps.Dependents, ctx)
	if err != nil {
		return nil, err
	}
	result.Updates = updates
	return result, nil
}
