package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"
)

const defaultTaggerName = "evem"

// Repository reads branch and identity information and creates release tags with go-git.
type Repository struct {
	now func() time.Time
}

// NewRepository creates a go-git backed repository.
func NewRepository() *Repository {
	return &Repository{now: time.Now}
}

// CurrentBranch returns the short name of the checked out branch. Outside a git repository
// or on a detached HEAD it returns "".
func (r *Repository) CurrentBranch(_ context.Context, dir string) (string, error) {
	repo, err := open(dir)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", nil
	}
	return head.Target().Short(), nil
}

// UserEmail returns user.email as resolved across the local, global and system configs.
func (r *Repository) UserEmail(_ context.Context, dir string) (string, error) {
	cfg, err := loadConfig(dir)
	if err != nil {
		return "", err
	}
	return cfg.User.Email, nil
}

// ChangedFiles diffs HEAD against its merge base with baseBranch (falling back to
// origin/baseBranch) and adds the paths the worktree status reports as changed.
func (r *Repository) ChangedFiles(_ context.Context, dir, baseBranch string) ([]string, bool, error) {
	repo, err := open(dir)
	if err != nil {
		return nil, false, err
	}

	baseRef, err := resolveBranch(repo, baseBranch)
	if err != nil {
		return nil, false, err
	}
	if baseRef == nil {
		return nil, false, nil
	}

	head, err := repo.Head()
	if err != nil {
		return nil, true, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, true, fmt.Errorf("failed to load HEAD commit: %w", err)
	}
	baseCommit, err := repo.CommitObject(baseRef.Hash())
	if err != nil {
		return nil, true, fmt.Errorf("failed to load %s commit: %w", baseBranch, err)
	}

	fromCommit := baseCommit
	if bases, mergeErr := headCommit.MergeBase(baseCommit); mergeErr == nil && len(bases) > 0 {
		fromCommit = bases[0]
	}

	changed, err := diffCommits(fromCommit, headCommit)
	if err != nil {
		return nil, true, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, true, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, true, fmt.Errorf("failed to read worktree status: %w", err)
	}
	for filePath, fileStatus := range status {
		if fileStatus.Worktree != gogit.Unmodified || fileStatus.Staging != gogit.Unmodified {
			changed[filePath] = true
		}
	}

	root := worktree.Filesystem.Root()
	files := make([]string, 0, len(changed))
	for filePath := range changed {
		files = append(files, filepath.Join(root, filepath.FromSlash(filePath)))
	}
	slices.Sort(files)
	return files, true, nil
}

// CreateTag creates an annotated tag pointing at HEAD.
func (r *Repository) CreateTag(_ context.Context, dir, tag string) error {
	repo, err := open(dir)
	if err != nil {
		return err
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	cfg, err := repo.ConfigScoped(config.SystemScope)
	if err != nil {
		return fmt.Errorf("failed to read git config: %w", err)
	}
	tagger := &object.Signature{Name: cfg.User.Name, Email: cfg.User.Email, When: r.now()}
	if tagger.Name == "" {
		tagger.Name = defaultTaggerName
	}

	if _, err = repo.CreateTag(tag, head.Hash(), &gogit.CreateTagOptions{
		Tagger:  tagger,
		Message: tag,
	}); err != nil {
		return fmt.Errorf("failed to create tag %q: %w", tag, err)
	}
	logger.Debugf("Created git tag %s", tag)
	return nil
}

func open(dir string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}
	return repo, nil
}

func resolveBranch(repo *gogit.Repository, branch string) (*plumbing.Reference, error) {
	for _, name := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(branch),
		plumbing.NewRemoteReferenceName(gogit.DefaultRemoteName, branch),
	} {
		ref, err := repo.Reference(name, true)
		if err == nil {
			return ref, nil
		}
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
		}
	}
	return nil, nil //nolint:nilnil // an unknown branch is not an error
}

func diffCommits(from, to *object.Commit) (map[string]bool, error) {
	fromTree, err := from.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of %s: %w", from.Hash, err)
	}
	toTree, err := to.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of %s: %w", to.Hash, err)
	}
	changes, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s..%s: %w", from.Hash, to.Hash, err)
	}

	changed := make(map[string]bool, len(changes))
	for _, change := range changes {
		if change.From.Name != "" {
			changed[change.From.Name] = true
		}
		if change.To.Name != "" {
			changed[change.To.Name] = true
		}
	}
	return changed, nil
}

func loadConfig(dir string) (*config.Config, error) {
	repo, err := open(dir)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		cfg, globalErr := config.LoadConfig(config.GlobalScope)
		if globalErr != nil {
			return nil, fmt.Errorf("failed to read global git config: %w", globalErr)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	cfg, err := repo.ConfigScoped(config.SystemScope)
	if err != nil {
		return nil, fmt.Errorf("failed to read git config: %w", err)
	}
	return cfg, nil
}
