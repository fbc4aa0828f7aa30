//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnmeet/evem/internal/domain/entities"
)

func writeSettings(t *testing.T, content string) (string, string) {
	t.Helper()
	root := t.TempDir()
	configPath := filepath.Join(root, entities.ConfigDir, entities.ConfigFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o755))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return root, configPath
}

func TestNewSettings(t *testing.T) {
	t.Parallel()

	t.Run("should apply the defaults and resolve the root directory", func(t *testing.T) {
		t.Parallel()

		// given
		root, configPath := writeSettings(t, `{"fixed": [["@scope/*"]], "include": ["packages/*"]}`)

		// when
		settings, err := entities.NewSettings(configPath)

		// then
		require.NoError(t, err)
		assert.Equal(t, root, settings.RootDir)
		assert.Equal(t, "main", settings.BaseBranch)
		assert.Equal(t, "@", settings.TagSeparator)
		assert.Equal(t, filepath.Join(root, ".evem", "changes"), settings.ChangesDir())
		assert.True(t, settings.ShouldIgnoreDevDependencies())
		assert.Equal(t, [][]string{{"@scope/*"}}, settings.Fixed)
	})

	t.Run("should keep an explicit ignoreDevDependencies false", func(t *testing.T) {
		t.Parallel()

		// given
		_, configPath := writeSettings(t, `{"ignoreDevDependencies": false}`)

		// when
		settings, err := entities.NewSettings(configPath)

		// then
		require.NoError(t, err)
		assert.False(t, settings.ShouldIgnoreDevDependencies())
		assert.False(t, settings.VersionContext("", false, false).IgnoreDevDependencies)
	})

	t.Run("should reject an unknown access level", func(t *testing.T) {
		t.Parallel()

		// given
		_, configPath := writeSettings(t, `{"access": "secret"}`)

		// when
		_, err := entities.NewSettings(configPath)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access")
	})

	t.Run("should reject an empty fixed group", func(t *testing.T) {
		t.Parallel()

		// given
		_, configPath := writeSettings(t, `{"fixed": [[]]}`)

		// when
		_, err := entities.NewSettings(configPath)

		// then
		require.Error(t, err)
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("should walk up to the closest configuration", func(t *testing.T) {
		t.Parallel()

		// given
		root, configPath := writeSettings(t, `{}`)
		nested := filepath.Join(root, "packages", "a", "src")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		// when
		found, err := entities.FindConfigFile(nested)

		// then
		require.NoError(t, err)
		assert.Equal(t, configPath, found)
	})

	t.Run("should fail when no configuration exists", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()

		// when
		_, err := entities.FindConfigFile(dir)

		// then
		require.Error(t, err)
	})
}
