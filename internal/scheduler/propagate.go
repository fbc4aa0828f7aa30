package scheduler

import (
	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/graph"
	"github.com/xnmeet/evem/internal/versioning"
)

// engine runs the propagation fixpoint over a fixed workspace.
type engine struct {
	ctx        entities.VersionContext
	byName     map[string]*entities.Package
	dependents graph.Graph
	groups     [][]string
	// maxPasses bounds the fixpoint; zero selects the default derived from the workspace size.
	maxPasses int
}

// run repeats step until group unification stops changing the plan.
func (e *engine) run(state *State) (*State, error) {
	limit := e.maxPasses
	if limit <= 0 {
		limit = 4 * (len(e.byName) + 1) //nolint:mnd // three severity raises plus one baseline move per package
	}
	for pass := 1; ; pass++ {
		if pass > limit {
			return nil, entities.NewInternalError("release plan did not converge after %d passes", limit)
		}

		next, changed, err := e.step(state)
		if err != nil {
			return nil, err
		}
		state = next
		if !changed {
			return state, nil
		}
	}
}

// step is the pure transition of the fixpoint: it propagates bumps to dependents until the
// queue drains, then unifies the fixed groups once. The input state is left untouched.
func (e *engine) step(state *State) (*State, bool, error) {
	next := state.Clone()
	if err := e.propagate(next); err != nil {
		return nil, false, err
	}
	changed := UnifyGroups(next, e.groups, e.byName)
	return next, changed, nil
}

// propagate pushes the bump of every queued entry to the packages depending on it.
func (e *engine) propagate(state *State) error {
	queue := state.Names()

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		dependents, ok := e.dependents[name]
		if !ok {
			return entities.NewInternalError("could not find package %q in repository", name)
		}

		next := state.Get(name)
		if next.Bump == entities.BumpNone {
			continue
		}
		newVersion, err := versioning.IncrementVersion(next.OldVersion, next.Bump, e.ctx.PreName)
		if err != nil {
			return err
		}

		for _, dependentName := range dependents {
			dependent, found := e.byName[dependentName]
			if !found {
				return entities.NewInternalError("could not find dependent %q of %q in repository", dependentName, name)
			}

			existing := state.Get(dependentName)
			required, needed := e.requiredBump(dependent, next, newVersion, existing)
			if !needed {
				continue
			}
			if existing != nil && existing.Bump == required {
				continue
			}

			if existing != nil && required == entities.BumpMajor && existing.Bump != entities.BumpMajor {
				existing.Bump = entities.BumpMajor
				queue = append(queue, dependentName)
				continue
			}

			changes := make([]entities.ChangeInfo, 0)
			if existing != nil {
				changes = existing.Changes
			}
			state.Set(&entities.ReleasePlan{
				Name:       dependentName,
				Bump:       required,
				Cause:      entities.CauseDependency,
				OldVersion: dependent.Version(),
				Changes:    changes,
			})
			queue = append(queue, dependentName)
		}
	}

	return nil
}

// requiredBump decides the severity a dependent needs because of next. The second result is
// false when no relation asks for anything. When a package declares the dependency under
// several kinds, the highest requirement wins.
func (e *engine) requiredBump(
	dependent *entities.Package,
	next *entities.ReleasePlan,
	newVersion string,
	existing *entities.ReleasePlan,
) (entities.BumpType, bool) {
	required := entities.BumpNone
	needed := false

	for _, kind := range entities.DependencyKinds {
		declared, ok := dependent.Manifest.Ranges(kind)[next.Name]
		if !ok || declared == "" || versioning.IsLocalPathRange(declared) {
			continue
		}
		versionRange := effectiveRange(declared, next.OldVersion)

		var candidate entities.BumpType
		switch {
		case e.shouldBumpMajor(kind, next.Bump, newVersion, versionRange, existing):
			candidate = entities.BumpMajor
		case (existing == nil || existing.Bump == entities.BumpNone) &&
			!versioning.Satisfies(newVersion, versionRange):
			candidate = entities.BumpPatch
			if kind == entities.DevDependencies && e.ctx.IgnoreDevDependencies {
				candidate = entities.BumpNone
			}
		default:
			continue
		}

		if !needed || candidate.Level() > required.Level() {
			required = candidate
		}
		needed = true
	}

	return required, needed
}

// shouldBumpMajor carries breaking pressure across peer dependencies.
func (e *engine) shouldBumpMajor(
	kind entities.DependencyKind,
	bump entities.BumpType,
	newVersion, versionRange string,
	existing *entities.ReleasePlan,
) bool {
	if kind != entities.PeerDependencies {
		return false
	}
	if bump == entities.BumpNone || bump == entities.BumpPatch {
		return false
	}
	if e.ctx.OnlyUpdatePeerDependentsWhenOutOfRange && versioning.Satisfies(newVersion, versionRange) {
		return false
	}
	return existing == nil || existing.Bump != entities.BumpMajor
}

// effectiveRange turns a workspace range into the plain range it stands for today:
// "workspace:*" pins the current version, "workspace:^" and "workspace:~" are published
// as caret/tilde ranges of it.
func effectiveRange(declared, currentVersion string) string {
	if !versioning.IsWorkspaceRange(declared) {
		return declared
	}
	switch stripped := versioning.StripWorkspace(declared); stripped {
	case "*":
		return currentVersion
	case "^", "~":
		return stripped + currentVersion
	default:
		return stripped
	}
}
