//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/domain/repositories"
)

// SpyWorkspaceRepository implements repositories.WorkspaceRepository as a configurable spy.
type SpyWorkspaceRepository struct {
	mu sync.Mutex

	// --- GetPackages ---
	Packages    *entities.Packages
	GetErr      error
	LastRootDir string
	LastInclude []string

	// --- WriteManifest ---
	WriteErr error
	Written  []entities.ManifestUpdate
}

var _ repositories.WorkspaceRepository = (*SpyWorkspaceRepository)(nil)

func (s *SpyWorkspaceRepository) GetPackages(
	_ context.Context, rootDir string, include []string,
) (*entities.Packages, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastRootDir = rootDir
	s.LastInclude = include
	return s.Packages, s.GetErr
}

func (s *SpyWorkspaceRepository) WriteManifest(_ context.Context, update entities.ManifestUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Written = append(s.Written, update)
	return s.WriteErr
}
