package repositories

import "context"

// GitRepository is the small slice of git evem needs.
type GitRepository interface {
	// CurrentBranch returns the checked out branch, or "" on a detached HEAD.
	CurrentBranch(ctx context.Context, dir string) (string, error)

	// UserEmail returns the configured committer email, or "" when unset.
	UserEmail(ctx context.Context, dir string) (string, error)

	// ChangedFiles lists the absolute paths changed since HEAD forked from baseBranch, including
	// uncommitted changes. The boolean is false when baseBranch does not exist.
	ChangedFiles(ctx context.Context, dir, baseBranch string) ([]string, bool, error)

	// CreateTag creates an annotated tag on HEAD.
	CreateTag(ctx context.Context, dir, tag string) error
}
