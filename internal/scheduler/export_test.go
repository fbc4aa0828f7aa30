package scheduler

import (
	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/graph"
)

// Step exposes one fixpoint transition for testing.
func Step(
	state *State,
	ctx entities.VersionContext,
	packages *entities.Packages,
	dependents graph.Graph,
	groups [][]string,
) (*State, bool, error) {
	e := &engine{ctx: ctx, byName: packages.ByName(), dependents: dependents, groups: groups}
	return e.step(state)
}

// Run exposes the whole fixpoint with an explicit pass limit for testing.
func Run(
	state *State,
	ctx entities.VersionContext,
	packages *entities.Packages,
	dependents graph.Graph,
	groups [][]string,
	maxPasses int,
) (*State, error) {
	e := &engine{ctx: ctx, byName: packages.ByName(), dependents: dependents, groups: groups, maxPasses: maxPasses}
	return e.run(state)
}
