//go:build unit

package versioning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/versioning"
)

func TestIncrement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		current  string
		bump     entities.BumpType
		expected string
	}{
		{name: "should keep the version for none", current: "1.2.3", bump: entities.BumpNone, expected: "1.2.3"},
		{name: "should bump patch", current: "1.2.3", bump: entities.BumpPatch, expected: "1.2.4"},
		{name: "should bump minor", current: "1.2.3", bump: entities.BumpMinor, expected: "1.3.0"},
		{name: "should bump major", current: "1.2.3", bump: entities.BumpMajor, expected: "2.0.0"},
		{name: "should release a patch prerelease", current: "1.2.4-beta.1", bump: entities.BumpPatch, expected: "1.2.4"},
		{name: "should release a minor prerelease", current: "1.3.0-beta.0", bump: entities.BumpMinor, expected: "1.3.0"},
		{name: "should release a major prerelease", current: "2.0.0-rc.2", bump: entities.BumpMajor, expected: "2.0.0"},
		{name: "should move past a non-zero patch prerelease", current: "1.2.3-beta.0", bump: entities.BumpMinor, expected: "1.3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			result, err := versioning.Increment(tt.current, tt.bump)

			// then
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIncrementVersion(t *testing.T) {
	t.Parallel()

	t.Run("should return the same version for none", func(t *testing.T) {
		t.Parallel()

		// when
		result, err := versioning.IncrementVersion("3.1.4", entities.BumpNone, "beta")

		// then
		require.NoError(t, err)
		assert.Equal(t, "3.1.4", result)
	})

	t.Run("should use a dotted label as exact suffix", func(t *testing.T) {
		t.Parallel()

		// when
		result, err := versioning.IncrementVersion("1.0.0", entities.BumpMinor, "beta.7")

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.1.0-beta.7", result)
	})

	t.Run("should start a prerelease sequence from a stable version", func(t *testing.T) {
		t.Parallel()

		// when
		patch, patchErr := versioning.IncrementVersion("1.0.0", entities.BumpPatch, "beta")
		minor, minorErr := versioning.IncrementVersion("1.0.0", entities.BumpMinor, "beta")
		major, majorErr := versioning.IncrementVersion("1.0.0", entities.BumpMajor, "beta")

		// then
		require.NoError(t, patchErr)
		require.NoError(t, minorErr)
		require.NoError(t, majorErr)
		assert.Equal(t, "1.0.1-beta.0", patch)
		assert.Equal(t, "1.1.0-beta.0", minor)
		assert.Equal(t, "2.0.0-beta.0", major)
	})

	t.Run("should keep counting on repeated prerelease runs", func(t *testing.T) {
		t.Parallel()

		for _, bump := range []entities.BumpType{entities.BumpPatch, entities.BumpMinor, entities.BumpMajor} {
			// given
			first, err := versioning.IncrementVersion("1.0.0", bump, "beta")
			require.NoError(t, err)

			// when
			second, secondErr := versioning.IncrementVersion(first, bump, "beta")
			third, thirdErr := versioning.IncrementVersion(second, bump, "beta")

			// then
			require.NoError(t, secondErr)
			require.NoError(t, thirdErr)
			assert.True(t, versioning.IsNewerVersion(first, second), "%s: %s -> %s", bump, first, second)
			assert.True(t, versioning.IsNewerVersion(second, third), "%s: %s -> %s", bump, second, third)
		}
	})

	t.Run("should reuse the existing prefix when the formal version would jump", func(t *testing.T) {
		t.Parallel()

		// when
		result, err := versioning.IncrementVersion("1.1.0-beta.0", entities.BumpMinor, "beta")

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.1.0-beta.1", result)
	})

	t.Run("should switch label while keeping the formal version", func(t *testing.T) {
		t.Parallel()

		// when
		result, err := versioning.IncrementVersion("1.0.1-beta.3", entities.BumpPatch, "rc")

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.0.1-rc.0", result)
	})

	t.Run("should reset an unparseable counter to zero", func(t *testing.T) {
		t.Parallel()

		// when
		result, err := versioning.IncrementVersion("2.0.0-alpha", entities.BumpMajor, "alpha")

		// then
		require.NoError(t, err)
		assert.Equal(t, "2.0.0-alpha.0", result)
	})

	t.Run("should fail on an invalid version", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := versioning.IncrementVersion("not-a-version", entities.BumpPatch, "")

		// then
		require.Error(t, err)
	})
}
