package scheduler

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/graph"
)

// targetSet is the expanded set of packages a targeted run may release.
type targetSet map[string]bool

// resolveTargets keeps the targets that have a pending bump, adds their fixed-group
// co-members and, unless independent, every package downstream of them.
func resolveTargets(
	targets []string,
	seeded *State,
	groups [][]string,
	dependents graph.Graph,
	byName map[string]*entities.Package,
	independent bool,
) (targetSet, []string) {
	set := targetSet{}
	warnings := make([]string, 0)
	selected := make([]string, 0, len(targets))

	add := func(name string) {
		if !set[name] {
			set[name] = true
			selected = append(selected, name)
		}
	}

	for _, target := range targets {
		if _, ok := byName[target]; !ok {
			warning := fmt.Sprintf("Target %q is not a package of this workspace; ignoring", target)
			logger.Warn(warning)
			warnings = append(warnings, warning)
			continue
		}

		release := seeded.Get(target)
		if release == nil || release.Bump == entities.BumpNone {
			logger.Debugf("Target %q has no pending change; ignoring", target)
			continue
		}

		add(target)
		for _, member := range groupOf(groups, target) {
			add(member)
		}
	}

	if len(selected) > 0 && !independent {
		for _, name := range dependents.Reachable(selected) {
			set[name] = true
		}
	}
	return set, warnings
}

// filter prunes the plan to the target set. A fixed group with one released member inside
// the set is kept whole so the group still shares its version.
func (t targetSet) filter(state *State, groups [][]string) {
	keep := map[string]bool{}
	for name := range t {
		keep[name] = true
	}
	for _, group := range groups {
		hit := false
		for _, member := range group {
			if t[member] && state.Get(member) != nil {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		for _, member := range group {
			keep[member] = true
		}
	}

	state.Retain(func(name string) bool { return keep[name] })
}
