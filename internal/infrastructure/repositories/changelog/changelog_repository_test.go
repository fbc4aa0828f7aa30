//go:build unit

package changelog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/infrastructure/repositories/changelog"
)

func TestRepository(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("should start an empty changelog named after the package", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()

		// when
		loaded, err := changelog.NewRepositoryWithClock(clock).Load(context.Background(), dir, "pkg")

		// then
		require.NoError(t, err)
		assert.Equal(t, "pkg", loaded.Name)
		assert.Empty(t, loaded.Entries)
	})

	t.Run("should round trip entries and render the markdown file", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		repo := changelog.NewRepositoryWithClock(clock)
		release := &entities.ReleasePlan{
			Name:       "pkg",
			Bump:       entities.BumpMinor,
			OldVersion: "1.0.0",
			NewVersion: "1.1.0",
			Changes: []entities.ChangeInfo{
				{PackageName: "pkg", Type: entities.BumpMinor, Comment: "add option"},
			},
		}
		initial := &entities.Changelog{Name: "renamed", Entries: []entities.ChangelogEntry{}}
		initial.Prepend(entities.NewChangelogEntry(release, now))

		// when
		saveErr := repo.Save(context.Background(), dir, initial)
		loaded, loadErr := repo.Load(context.Background(), dir, "pkg")

		// then
		require.NoError(t, saveErr)
		require.NoError(t, loadErr)
		assert.Equal(t, "pkg", loaded.Name)
		require.Len(t, loaded.Entries, 1)
		assert.Equal(t, "pkg@1.1.0", loaded.Entries[0].Tag)
		assert.Equal(t, "Tue, 02 Jan 2024 03:04:05 GMT", loaded.Entries[0].Date)
		assert.Equal(t, "add option", loaded.Entries[0].Comments[entities.KindMinor][0].Comment)

		markdown, readErr := os.ReadFile(filepath.Join(dir, "CHANGELOG.md"))
		require.NoError(t, readErr)
		assert.Contains(t, string(markdown), "# renamed\n")
		assert.Contains(t, string(markdown), "### Minor changes\n\n- add option\n")
	})

	t.Run("should fail on a corrupt changelog", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.json"), []byte("not json"), 0o644))

		// when
		_, err := changelog.NewRepository().Load(context.Background(), dir, "pkg")

		// then
		require.Error(t, err)
	})
}
