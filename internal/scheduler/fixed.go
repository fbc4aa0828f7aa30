package scheduler

import (
	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/versioning"
)

// ExpandGroups resolves every fixed rule set to the package names it matches, in
// workspace order. Rule sets that match nothing are dropped.
func ExpandGroups(matcher Matcher, rules [][]string, names []string) [][]string {
	groups := make([][]string, 0, len(rules))
	for _, patterns := range rules {
		members := make([]string, 0)
		for _, name := range names {
			if matcher.MatchAny(patterns, name) {
				members = append(members, name)
			}
		}
		if len(members) > 0 {
			groups = append(groups, members)
		}
	}
	return groups
}

// UnifyGroups forces every member of a fixed group to the highest severity and the
// highest baseline version found in the group. Members without an entry get one caused
// by the group. It reports whether any entry changed.
func UnifyGroups(state *State, groups [][]string, byName map[string]*entities.Package) bool {
	changed := false

	for _, group := range groups {
		highestBump := entities.BumpNone
		versions := make([]string, 0, len(group))
		for _, name := range group {
			if release := state.Get(name); release != nil {
				highestBump = entities.MaxBump(highestBump, release.Bump)
				versions = append(versions, release.OldVersion)
				continue
			}
			versions = append(versions, byName[name].Version())
		}
		highestVersion := versioning.Highest(versions)

		for _, name := range group {
			release := state.Get(name)
			if release == nil {
				state.Set(&entities.ReleasePlan{
					Name:       name,
					Bump:       highestBump,
					Cause:      entities.CauseFixedGroup,
					OldVersion: highestVersion,
					Changes:    make([]entities.ChangeInfo, 0),
				})
				changed = true
				continue
			}
			if release.Bump != highestBump || release.OldVersion != highestVersion {
				release.Bump = highestBump
				release.OldVersion = highestVersion
				changed = true
			}
		}
	}

	return changed
}

// groupOf returns the fixed group containing name, or nil.
func groupOf(groups [][]string, name string) []string {
	for _, group := range groups {
		for _, member := range group {
			if member == name {
				return group
			}
		}
	}
	return nil
}
