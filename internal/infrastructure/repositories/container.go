package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/xnmeet/evem/internal/domain/repositories"
	changefilesRepo "github.com/xnmeet/evem/internal/infrastructure/repositories/changefiles"
	changelogRepo "github.com/xnmeet/evem/internal/infrastructure/repositories/changelog"
	gitRepo "github.com/xnmeet/evem/internal/infrastructure/repositories/git"
	globRepo "github.com/xnmeet/evem/internal/infrastructure/repositories/glob"
	npmRepo "github.com/xnmeet/evem/internal/infrastructure/repositories/npm"
	workspaceRepo "github.com/xnmeet/evem/internal/infrastructure/repositories/workspace"
	"github.com/xnmeet/evem/internal/scheduler"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	constructors := []any{
		globRepo.NewMatcher,
		workspaceRepo.NewDefaultDetectorRegistry,
		workspaceRepo.NewRepository,
		changefilesRepo.NewRepository,
		changelogRepo.NewRepository,
		gitRepo.NewRepository,
		npmRepo.NewExecRunner,
		npmRepo.NewRepository,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	bindings := []any{
		func(impl *globRepo.Matcher) scheduler.Matcher { return impl },
		func(impl *workspaceRepo.Repository) domainRepos.WorkspaceRepository { return impl },
		func(impl *changefilesRepo.Repository) domainRepos.ChangeFileRepository { return impl },
		func(impl *changelogRepo.Repository) domainRepos.ChangelogRepository { return impl },
		func(impl *gitRepo.Repository) domainRepos.GitRepository { return impl },
		func(impl *npmRepo.ExecRunner) npmRepo.CommandRunner { return impl },
		func(impl *npmRepo.Repository) domainRepos.RegistryRepository { return impl },
	}
	for _, binding := range bindings {
		if err := container.Provide(binding); err != nil {
			return err
		}
	}

	return nil
}
