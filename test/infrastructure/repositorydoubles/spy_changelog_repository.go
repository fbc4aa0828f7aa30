//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/domain/repositories"
)

// SpyChangelogRepository implements repositories.ChangelogRepository as a configurable spy.
type SpyChangelogRepository struct {
	// --- Load ---
	// Existing holds the changelogs already on disk, by package name.
	Existing map[string]*entities.Changelog
	LoadErr  error

	// --- Save ---
	SaveErr error
	// Saved holds the written changelogs, by directory.
	Saved map[string]*entities.Changelog
}

var _ repositories.ChangelogRepository = (*SpyChangelogRepository)(nil)

func (s *SpyChangelogRepository) Load(_ context.Context, _, packageName string) (*entities.Changelog, error) {
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if existing, ok := s.Existing[packageName]; ok {
		return existing, nil
	}
	return &entities.Changelog{Name: packageName, Entries: []entities.ChangelogEntry{}}, nil
}

func (s *SpyChangelogRepository) Save(_ context.Context, dir string, changelog *entities.Changelog) error {
	if s.Saved == nil {
		s.Saved = make(map[string]*entities.Changelog)
	}
	s.Saved[dir] = changelog
	return s.SaveErr
}
