//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/domain/repositories"
)

// SpyRegistryRepository implements repositories.RegistryRepository as a configurable spy.
// It is safe for concurrent use.
type SpyRegistryRepository struct {
	mu sync.Mutex

	// --- Info ---
	// Infos holds the registry view per package name; absent names are unpublished.
	Infos     map[string]repositories.PackageInfo
	InfoErrs  map[string]error
	InfoCalls []string

	// --- Publish ---
	PublishErrs map[string]error
	Published   []repositories.PublishRequest
}

var _ repositories.RegistryRepository = (*SpyRegistryRepository)(nil)

func (s *SpyRegistryRepository) Info(_ context.Context, pkg entities.Package) (repositories.PackageInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InfoCalls = append(s.InfoCalls, pkg.Name)
	if err := s.InfoErrs[pkg.Name]; err != nil {
		return repositories.PackageInfo{}, err
	}
	if info, ok := s.Infos[pkg.Name]; ok {
		return info, nil
	}
	return repositories.PackageInfo{Name: pkg.Name}, nil
}

func (s *SpyRegistryRepository) Publish(_ context.Context, req repositories.PublishRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, req)
	return "", s.PublishErrs[req.Package.Name]
}

// PublishedNames returns the names passed to Publish, in call order.
func (s *SpyRegistryRepository) PublishedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.Published))
	for _, req := range s.Published {
		names = append(names, req.Package.Name)
	}
	return names
}
