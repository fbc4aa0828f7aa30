package scheduler

import (
	"fmt"
	"slices"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/graph"
	"github.com/xnmeet/evem/internal/versioning"
)

// ShouldUpdateDependency decides whether a declared range must follow a released version.
// A range the new version leaves is always updated. Inside the range, peer dependencies
// follow the out-of-range policy and every other kind is updated for any real bump.
func ShouldUpdateDependency(
	newVersion string,
	bump entities.BumpType,
	declared string,
	kind entities.DependencyKind,
	onlyUpdatePeerDependentsWhenOutOfRange bool,
) bool {
	if !versioning.Satisfies(newVersion, declared) {
		return true
	}
	if kind == entities.PeerDependencies {
		return !onlyUpdatePeerDependentsWhenOutOfRange
	}
	return bump.Level() >= entities.BumpPatch.Level()
}

// Rewrite derives the manifest of every released package: its own version is replaced and
// the ranges it declares on other released packages follow their new versions. Each rewrite
// adds a dependency note to the release's change log. Only manifests that differ from disk
// are returned.
func Rewrite(
	releases []*entities.ReleasePlan,
	byName map[string]*entities.Package,
	dependents graph.Graph,
	ctx entities.VersionContext,
) ([]entities.ManifestUpdate, error) {
	updates := make([]entities.ManifestUpdate, 0)

	for _, release := range releases {
		pkg, ok := byName[release.Name]
		if !ok {
			return nil, entities.NewInternalError("could not find package %q in repository", release.Name)
		}

		manifest := pkg.Manifest.Clone()
		manifest.Version = release.NewVersion
		hasChange := release.OldVersion != release.NewVersion

		for _, kind := range entities.DependencyKinds {
			ranges := manifest.Ranges(kind)
			if len(ranges) == 0 {
				continue
			}

			for _, dependency := range releases {
				if dependency.Name == release.Name {
					continue
				}
				declared, declaredOK := ranges[dependency.Name]
				if !declaredOK || declared == "" || versioning.IsLocalPathRange(declared) {
					continue
				}
				if !ShouldUpdateDependency(
					dependency.NewVersion, dependency.Bump, declared, kind,
					ctx.OnlyUpdatePeerDependentsWhenOutOfRange,
				) {
					continue
				}

				usesWorkspace := versioning.IsWorkspaceRange(declared)
				if !usesWorkspace && ctx.WorkspaceProtocolOnly {
					continue
				}

				current := declared
				if usesWorkspace {
					// the workspace tool resolves these on publish, so only the note is recorded
					if versioning.IsWorkspaceAlias(declared) {
						addDependencyNote(release, dependency)
						continue
					}
					current = versioning.StripWorkspace(declared)
				}

				if versioning.IsWildcardRange(current) && !versioning.IsPrerelease(dependency.NewVersion) {
					continue
				}
				// a range may name a package that only coincides with a workspace package
				if !dependents.Contains(dependency.Name, release.Name) {
					continue
				}

				hasChange = true
				addDependencyNote(release, dependency)

				rewritten := versioning.RangeOperator(current) + dependency.NewVersion
				if usesWorkspace {
					rewritten = versioning.WithWorkspace(rewritten)
				}
				ranges[dependency.Name] = rewritten
			}
		}

		if hasChange {
			updates = append(updates, entities.ManifestUpdate{
				PackageName: release.Name,
				Dir:         pkg.Dir,
				Manifest:    manifest,
			})
		}
	}

	return updates, nil
}

// DependencyNote is the change-log line recorded for an induced dependency update.
func DependencyNote(name, oldVersion, newVersion string) string {
	if oldVersion == "" {
		return fmt.Sprintf("Updating dependency %q to `%s`", name, newVersion)
	}
	return fmt.Sprintf("Updating dependency %q from `%s` to `%s`", name, oldVersion, newVersion)
}

func addDependencyNote(release, dependency *entities.ReleasePlan) {
	if dependency.NewVersion == dependency.OldVersion {
		return
	}
	note := entities.ChangeInfo{
		PackageName: release.Name,
		Type:        entities.BumpNone,
		Kind:        entities.KindDependency,
		Comment:     DependencyNote(dependency.Name, dependency.OldVersion, dependency.NewVersion),
	}
	if slices.ContainsFunc(release.Changes, func(c entities.ChangeInfo) bool {
		return c.Kind == entities.KindDependency && c.Comment == note.Comment
	}) {
		return
	}
	release.Changes = append(release.Changes, note)
}
