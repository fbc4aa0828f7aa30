//go:build unit

package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xnmeet/evem/internal/domain/entities"
)

func TestNewChangelogEntry(t *testing.T) {
	t.Parallel()

	// given
	release := &entities.ReleasePlan{
		Name:       "@scope/a",
		NewVersion: "1.1.0",
		Changes: []entities.ChangeInfo{
			{PackageName: "@scope/a", Type: entities.BumpMinor, Comment: "add flag", Author: "dev@example.com"},
			{PackageName: "@scope/a", Type: entities.BumpPatch, Comment: "Updating dependency \"b\" from `1.0.0` to `1.0.1`", Kind: entities.KindDependency},
			{PackageName: "@scope/a", Type: entities.BumpPatch, Comment: ""},
		},
	}

	// when
	entry := entities.NewChangelogEntry(release, time.Date(2024, 3, 5, 10, 4, 5, 0, time.UTC))

	// then
	assert.Equal(t, "@scope/a@1.1.0", entry.Tag)
	assert.Equal(t, "Tue, 05 Mar 2024 10:04:05 GMT", entry.Date)
	assert.Len(t, entry.Comments[entities.KindMinor], 1)
	assert.Len(t, entry.Comments[entities.KindDependency], 1)
	assert.Empty(t, entry.Comments[entities.KindPatch])
}

func TestRenderChangelogMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("should render sections newest first", func(t *testing.T) {
		t.Parallel()

		// given
		changelog := &entities.Changelog{
			Name: "a",
			Entries: []entities.ChangelogEntry{
				{
					Version: "2.0.0",
					Date:    "Tue, 05 Mar 2024 10:04:05 GMT",
					Comments: map[entities.ChangeKind][]entities.ChangelogComment{
						entities.KindMajor:      {{Comment: "drop node 16"}},
						entities.KindDependency: {{Comment: "bump b"}},
						entities.KindNone:       {{Comment: "docs"}},
					},
				},
				{Version: "1.0.1", Comments: map[entities.ChangeKind][]entities.ChangelogComment{}},
				{Version: "1.0.0", Comments: map[entities.ChangeKind][]entities.ChangelogComment{}},
			},
		}

		// when
		markdown := entities.RenderChangelogMarkdown(changelog, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))

		// then
		expected := "# a\n\n" +
			"This log was last generated on Wed, 06 Mar 2024 00:00:00 GMT and should not be manually modified.\n\n" +
			"## 2.0.0\nTue, 05 Mar 2024 10:04:05 GMT\n\n" +
			"### Breaking changes\n\n- drop node 16\n\n" +
			"### Updates\n\n- docs\n- bump b\n\n" +
			"## 1.0.1\n\nVersion update only\n\n" +
			"## 1.0.0\n\nInitial release\n\n"
		assert.Equal(t, expected, markdown)
	})
}

func TestChangelogHasVersion(t *testing.T) {
	t.Parallel()

	// given
	changelog := &entities.Changelog{Name: "a"}
	changelog.Prepend(entities.ChangelogEntry{Version: "1.0.0"})
	changelog.Prepend(entities.ChangelogEntry{Version: "1.1.0"})

	// when
	found := changelog.HasVersion("1.0.0")
	missing := changelog.HasVersion("2.0.0")

	// then
	assert.True(t, found)
	assert.False(t, missing)
	assert.Equal(t, "1.1.0", changelog.Entries[0].Version)
}
