//go:build unit

package changefiles_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/infrastructure/repositories/changefiles"
	builders "github.com/xnmeet/evem/test/domain/entitybuilders"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 14, 7, 31, 0, time.UTC)
}

func TestRepository_Save(t *testing.T) {
	t.Parallel()

	t.Run("should write below the scoped package path with an escaped branch name", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		repo := changefiles.NewRepositoryWithClock(fixedClock)
		file := builders.NewChangeFileBuilder().WithPackageName("@scope/pkg").
			WithChange(entities.BumpMinor, "add feature").BuildChangeFile()

		// when
		filePath, err := repo.Save(context.Background(), dir, "feat/new thing", file)

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "@scope", "pkg", "feat-new-thing_2024-03-05-14-07.json"), filePath)
		assert.FileExists(t, filePath)
	})

	t.Run("should name the file after the timestamp without a branch", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		repo := changefiles.NewRepositoryWithClock(fixedClock)
		file := builders.NewChangeFileBuilder().WithPackageName("pkg").
			WithChange(entities.BumpPatch, "fix").BuildChangeFile()

		// when
		filePath, err := repo.Save(context.Background(), dir, "", file)

		// then
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "pkg", "2024-03-05-14-07.json"), filePath)
	})
}

func TestRepository_List(t *testing.T) {
	t.Parallel()

	t.Run("should load what was saved", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		repo := changefiles.NewRepositoryWithClock(fixedClock)
		file := builders.NewChangeFileBuilder().WithPackageName("pkg").WithEmail("dev@example.com").
			WithChange(entities.BumpMajor, "breaking").BuildChangeFile()
		filePath, err := repo.Save(context.Background(), dir, "main", file)
		require.NoError(t, err)

		// when
		files, listErr := repo.List(context.Background(), dir)

		// then
		require.NoError(t, listErr)
		require.Len(t, files, 1)
		assert.Equal(t, filePath, files[0].Path)
		assert.Equal(t, "pkg", files[0].PackageName)
		assert.Equal(t, "dev@example.com", files[0].Email)
		assert.Equal(t, entities.BumpMajor, files[0].Changes[0].Type)
	})

	t.Run("should return nothing for a missing folder", func(t *testing.T) {
		t.Parallel()

		// given
		dir := filepath.Join(t.TempDir(), "absent")

		// when
		files, err := changefiles.NewRepository().List(context.Background(), dir)

		// then
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("should reject a change file with an unknown type", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		content := `{"packageName":"pkg","changes":[{"packageName":"pkg","type":"huge","comment":"x"}]}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(content), 0o644))

		// when
		_, err := changefiles.NewRepository().List(context.Background(), dir)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidChangeFile)
		assert.Contains(t, err.Error(), "bad.json")
	})

	t.Run("should reject malformed JSON", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

		// when
		_, err := changefiles.NewRepository().List(context.Background(), dir)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidChangeFile)
	})
}

func TestRepository_Delete(t *testing.T) {
	t.Parallel()

	// given
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0o644))

	// when
	err := changefiles.NewRepository().Delete(context.Background(), []string{existing, filepath.Join(dir, "gone.json")})

	// then
	require.NoError(t, err)
	assert.NoFileExists(t, existing)
}
