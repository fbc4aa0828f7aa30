package scheduler

import (
	"cmp"
	"slices"

	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/graph"
)

// Order assigns release orders so that each entry comes after the entries it depends on,
// and returns the plan sorted by (order, name).
func Order(state *State, dependents graph.Graph) []*entities.ReleasePlan {
	names := state.Names()
	slices.Sort(names)

	for _, name := range names {
		state.Get(name).Order = 0
	}

	settled := false
	for pass := 0; pass <= len(names); pass++ {
		changed := false
		for _, name := range names {
			release := state.Get(name)
			for _, dependentName := range dependents[name] {
				dependent := state.Get(dependentName)
				if dependent == nil || dependent.Order >= release.Order+1 {
					continue
				}
				dependent.Order = release.Order + 1
				changed = true
			}
		}
		if !changed {
			settled = true
			break
		}
	}
	if !settled {
		logger.Warn("Circular dependency between released packages; release order is approximate")
	}

	releases := make([]*entities.ReleasePlan, 0, len(names))
	for _, name := range names {
		releases = append(releases, state.Get(name))
	}
	slices.SortStableFunc(releases, func(a, b *entities.ReleasePlan) int {
		if a.Order != b.Order {
			return cmp.Compare(a.Order, b.Order)
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return releases
}
