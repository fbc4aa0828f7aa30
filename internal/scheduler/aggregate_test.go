//go:build unit

package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/scheduler"
	builders "github.com/xnmeet/evem/test/domain/entitybuilders"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	t.Run("should keep the highest severity and every comment", func(t *testing.T) {
		t.Parallel()

		// given
		packages := builders.NewPackages(builders.NewPackageBuilder().WithName("b").WithVersion("1.4.0").BuildPackage())
		files := []entities.ChangeFile{
			builders.NewChangeFileBuilder().WithPackageName("b").WithChange(entities.BumpPatch, "fix").BuildChangeFile(),
			builders.NewChangeFileBuilder().WithPackageName("b").
				WithChange(entities.BumpMinor, "feature").
				WithChange(entities.BumpNone, "docs").BuildChangeFile(),
		}

		// when
		state, warnings := scheduler.Aggregate(files, packages.ByName(), entities.VersionContext{})

		// then
		assert.Empty(t, warnings)
		require.Equal(t, 1, state.Len())
		release := state.Get("b")
		assert.Equal(t, entities.BumpMinor, release.Bump)
		assert.Equal(t, entities.CauseDeclared, release.Cause)
		assert.Equal(t, "1.4.0", release.OldVersion)
		require.Len(t, release.Changes, 3)
		assert.Equal(t, entities.KindMinor, release.Changes[1].Bucket())
	})

	t.Run("should warn once and skip unknown packages", func(t *testing.T) {
		t.Parallel()

		// given
		packages := builders.NewPackages(builders.NewPackageBuilder().WithName("b").BuildPackage())
		files := []entities.ChangeFile{
			builders.NewChangeFileBuilder().WithPackageName("ghost").WithChange(entities.BumpPatch, "one").BuildChangeFile(),
			builders.NewChangeFileBuilder().WithPackageName("ghost").WithChange(entities.BumpPatch, "two").BuildChangeFile(),
		}

		// when
		state, warnings := scheduler.Aggregate(files, packages.ByName(), entities.VersionContext{})

		// then
		assert.Equal(t, 0, state.Len())
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], `"ghost"`)
	})

	t.Run("should invert severities once in prerelease only-none mode", func(t *testing.T) {
		t.Parallel()

		// given
		packages := builders.NewPackages(
			builders.NewPackageBuilder().WithName("docs-only").BuildPackage(),
			builders.NewPackageBuilder().WithName("feature").BuildPackage(),
		)
		files := []entities.ChangeFile{
			builders.NewChangeFileBuilder().WithPackageName("docs-only").
				WithChange(entities.BumpNone, "readme").
				WithChange(entities.BumpNone, "typo").BuildChangeFile(),
			builders.NewChangeFileBuilder().WithPackageName("feature").
				WithChange(entities.BumpNone, "readme").
				WithChange(entities.BumpMinor, "feature").BuildChangeFile(),
		}
		ctx := entities.VersionContext{PreName: "beta", OnlyNone: true}

		// when
		state, _ := scheduler.Aggregate(files, packages.ByName(), ctx)

		// then
		assert.Equal(t, entities.BumpPatch, state.Get("docs-only").Bump)
		assert.Equal(t, entities.BumpNone, state.Get("feature").Bump)
	})

	t.Run("should not invert without a prerelease label", func(t *testing.T) {
		t.Parallel()

		// given
		packages := builders.NewPackages(builders.NewPackageBuilder().WithName("b").BuildPackage())
		files := []entities.ChangeFile{
			builders.NewChangeFileBuilder().WithPackageName("b").WithChange(entities.BumpNone, "docs").BuildChangeFile(),
		}

		// when
		state, _ := scheduler.Aggregate(files, packages.ByName(), entities.VersionContext{OnlyNone: true})

		// then
		assert.Equal(t, entities.BumpNone, state.Get("b").Bump)
	})
}
