//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"path/filepath"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/domain/repositories"
)

// SpyChangeFileRepository implements repositories.ChangeFileRepository as a configurable spy.
type SpyChangeFileRepository struct {
	// --- List ---
	Files   []entities.ChangeFile
	ListErr error
	ListDir string

	// --- Save ---
	SaveErr error
	Saved   []SaveCall

	// --- Delete ---
	DeleteErr error
	Deleted   []string
}

// SaveCall records a single invocation of Save.
type SaveCall struct {
	Dir    string
	Branch string
	File   entities.ChangeFile
}

var _ repositories.ChangeFileRepository = (*SpyChangeFileRepository)(nil)

func (s *SpyChangeFileRepository) List(_ context.Context, dir string) ([]entities.ChangeFile, error) {
	s.ListDir = dir
	return s.Files, s.ListErr
}

func (s *SpyChangeFileRepository) Save(
	_ context.Context, dir, branch string, file entities.ChangeFile,
) (string, error) {
	s.Saved = append(s.Saved, SaveCall{Dir: dir, Branch: branch, File: file})
	return filepath.Join(dir, file.PackageName, branch+".json"), s.SaveErr
}

func (s *SpyChangeFileRepository) Delete(_ context.Context, paths []string) error {
	s.Deleted = append(s.Deleted, paths...)
	return s.DeleteErr
}
