package repositories

import (
	"context"

	"github.com/xnmeet/evem/internal/domain/entities"
)

// ChangelogRepository reads and writes CHANGELOG.json / CHANGELOG.md pairs.
type ChangelogRepository interface {
	// Load returns the changelog of the package in dir, or an empty one named after the package.
	Load(ctx context.Context, dir, packageName string) (*entities.Changelog, error)

	// Save writes both the JSON changelog and its markdown rendering.
	Save(ctx context.Context, dir string, changelog *entities.Changelog) error
}
