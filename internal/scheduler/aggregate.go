package scheduler

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
)

// Aggregate folds the change files into one entry per package. The severity of an entry
// is the highest severity declared for it. In prerelease only-none mode the result is
// inverted once: none becomes patch and everything else none.
func Aggregate(
	files []entities.ChangeFile,
	byName map[string]*entities.Package,
	ctx entities.VersionContext,
) (*State, []string) {
	state := NewState()
	warnings := make([]string, 0)
	unknown := map[string]bool{}

	for _, file := range files {
		pkg, ok := byName[file.PackageName]
		if !ok {
			if !unknown[file.PackageName] {
				unknown[file.PackageName] = true
				warning := fmt.Sprintf(
					"Change file %q targets %q, which is not a package of this workspace; skipping",
					file.Path, file.PackageName,
				)
				logger.Warn(warning)
				warnings = append(warnings, warning)
			}
			continue
		}

		release := state.Get(pkg.Name)
		if release == nil {
			release = &entities.ReleasePlan{
				Name:       pkg.Name,
				Bump:       entities.BumpNone,
				Cause:      entities.CauseDeclared,
				OldVersion: pkg.Version(),
				Changes:    make([]entities.ChangeInfo, 0, len(file.Changes)),
			}
			state.Set(release)
		}

		for _, change := range file.Changes {
			change.Kind = entities.KindOf(change.Type)
			release.Changes = append(release.Changes, change)
			release.Bump = entities.MaxBump(release.Bump, change.Type)
		}
	}

	if ctx.IsOnlyNone() {
		for _, name := range state.Names() {
			release := state.Get(name)
			if release.Bump == entities.BumpNone {
				release.Bump = entities.BumpPatch
			} else {
				release.Bump = entities.BumpNone
			}
		}
	}

	return state, warnings
}
