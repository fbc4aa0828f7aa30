//go:build unit

package versioning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xnmeet/evem/internal/versioning"
)

func TestHighest(t *testing.T) {
	t.Parallel()

	t.Run("should compare by precedence and not by insertion order", func(t *testing.T) {
		t.Parallel()

		// when
		result := versioning.Highest([]string{"1.9.0", "1.10.0", "1.2.0"})

		// then
		assert.Equal(t, "1.10.0", result)
	})

	t.Run("should rank a release above its prerelease", func(t *testing.T) {
		t.Parallel()

		// when
		result := versioning.Highest([]string{"2.0.0-beta.3", "2.0.0", "1.0.0"})

		// then
		assert.Equal(t, "2.0.0", result)
	})

	t.Run("should return empty for an empty list", func(t *testing.T) {
		t.Parallel()

		// when / then
		assert.Empty(t, versioning.Highest(nil))
	})
}

func TestSortDescending(t *testing.T) {
	t.Parallel()

	// given
	versions := []string{"0.1.0", "1.0.0-beta.1", "1.0.0", "0.10.0"}

	// when
	versioning.SortDescending(versions)

	// then
	assert.Equal(t, []string{"1.0.0", "1.0.0-beta.1", "0.10.0", "0.1.0"}, versions)
}

func TestSatisfies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		version  string
		r        string
		expected bool
	}{
		{name: "should match a caret range", version: "1.4.0", r: "^1.0.0", expected: true},
		{name: "should reject a major jump", version: "2.0.0", r: "^1.0.0", expected: false},
		{name: "should match a tilde range", version: "1.0.9", r: "~1.0.0", expected: true},
		{name: "should reject a minor jump on tilde", version: "1.1.0", r: "~1.0.0", expected: false},
		{name: "should treat empty as wildcard", version: "9.9.9", r: "", expected: true},
		{name: "should never satisfy a protocol range", version: "1.0.0", r: "workspace:*", expected: false},
		{name: "should never satisfy a dist-tag", version: "1.0.0", r: "latest", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when / then
			assert.Equal(t, tt.expected, versioning.Satisfies(tt.version, tt.r))
		})
	}
}

func TestRangeOperator(t *testing.T) {
	t.Parallel()

	for r, expected := range map[string]string{
		"^1.0.0":  "^",
		"~1.0.0":  "~",
		">=1.0.0": ">=",
		"<=1.0.0": "<=",
		">1.0.0":  ">",
		"1.0.0":   "",
	} {
		assert.Equal(t, expected, versioning.RangeOperator(r), r)
	}
}

func TestWorkspaceRanges(t *testing.T) {
	t.Parallel()

	t.Run("should recognise the latest-local aliases", func(t *testing.T) {
		t.Parallel()

		// when / then
		assert.True(t, versioning.IsWorkspaceAlias("workspace:*"))
		assert.True(t, versioning.IsWorkspaceAlias("workspace:^"))
		assert.True(t, versioning.IsWorkspaceAlias("workspace:~"))
		assert.False(t, versioning.IsWorkspaceAlias("workspace:^1.0.0"))
		assert.False(t, versioning.IsWorkspaceAlias("^1.0.0"))
	})

	t.Run("should strip and restore the protocol", func(t *testing.T) {
		t.Parallel()

		// when
		stripped := versioning.StripWorkspace("workspace:^1.2.0")

		// then
		assert.Equal(t, "^1.2.0", stripped)
		assert.Equal(t, "workspace:^1.2.0", versioning.WithWorkspace(stripped))
	})
}
