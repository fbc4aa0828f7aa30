package repositories

import (
	"context"

	"github.com/xnmeet/evem/internal/domain/entities"
)

// WorkspaceRepository discovers workspace packages and writes manifests back.
type WorkspaceRepository interface {
	// GetPackages loads every package of the workspace rooted at rootDir,
	// keeping only those whose relative directory matches one of the include globs (all when empty).
	GetPackages(ctx context.Context, rootDir string, include []string) (*entities.Packages, error)

	// WriteManifest persists a rewritten manifest, keeping fields evem does not model.
	WriteManifest(ctx context.Context, update entities.ManifestUpdate) error
}
