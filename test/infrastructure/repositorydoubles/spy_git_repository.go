//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/xnmeet/evem/internal/domain/repositories"
)

// SpyGitRepository implements repositories.GitRepository as a configurable spy.
type SpyGitRepository struct {
	mu sync.Mutex

	// --- CurrentBranch / UserEmail ---
	Branch string
	Email  string

	// --- ChangedFiles ---
	Changed          []string
	BaseBranchExists bool
	ChangedErr       error
	LastBaseBranch   string

	// --- CreateTag ---
	TagErr error
	Tags   []string
}

var _ repositories.GitRepository = (*SpyGitRepository)(nil)

func (s *SpyGitRepository) CurrentBranch(_ context.Context, _ string) (string, error) {
	return s.Branch, nil
}

func (s *SpyGitRepository) UserEmail(_ context.Context, _ string) (string, error) {
	return s.Email, nil
}

func (s *SpyGitRepository) ChangedFiles(_ context.Context, _, baseBranch string) ([]string, bool, error) {
	s.LastBaseBranch = baseBranch
	return s.Changed, s.BaseBranchExists, s.ChangedErr
}

func (s *SpyGitRepository) CreateTag(_ context.Context, _, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Tags = append(s.Tags, tag)
	return s.TagErr
}
