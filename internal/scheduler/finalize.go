package scheduler

import (
	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/versioning"
)

// finalize computes the new version of every entry and resets the old version to the
// one declared in the manifest.
//
// An entry keeps its manifest version when its final severity is none and its baseline
// was not moved by a fixed group. In prerelease only-none mode only induced entries and
// patch entries move at all.
func (e *engine) finalize(state *State, baseline Baseline) error {
	for _, name := range state.Names() {
		release := state.Get(name)
		pkg, ok := e.byName[name]
		if !ok {
			return entities.NewInternalError("could not find package %q in repository", name)
		}
		manifestVersion := pkg.Version()

		var skip bool
		if e.ctx.IsOnlyNone() {
			skip = !release.Cause.Induced() && release.Bump != entities.BumpPatch
		} else {
			baseVersion := manifestVersion
			if entry, seeded := baseline[name]; seeded {
				baseVersion = entry.Version
			}
			skip = release.Bump == entities.BumpNone && release.OldVersion == baseVersion
		}

		if skip {
			release.NewVersion = manifestVersion
		} else {
			newVersion, err := versioning.IncrementVersion(release.OldVersion, release.Bump, e.ctx.PreName)
			if err != nil {
				return err
			}
			release.NewVersion = newVersion
		}
		release.OldVersion = manifestVersion
	}
	return nil
}
