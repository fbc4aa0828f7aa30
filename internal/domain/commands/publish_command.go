package commands

import (
	"context"
	"fmt"
	"slices"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/domain/repositories"
	"github.com/xnmeet/evem/internal/graph"
)

const (
	registryInfoConcurrency = 40
	publishConcurrency      = 10
	defaultDistTag          = "latest"
)

// Publish is the interface for the publish command.
type Publish interface {
	Execute(ctx context.Context, settings *entities.Settings, opts PublishOptions) (*PublishResult, error)
}

// PublishOptions holds runtime options for a single publish run.
type PublishOptions struct {
	// Tag is the dist-tag to publish under.
	Tag string
	// Targets restricts publishing to these packages and their direct dependents.
	Targets  []string
	NoGitTag bool
	DryRun   bool
}

// PublishedPackage is the outcome of publishing one package.
type PublishedPackage struct {
	Name      string
	Version   string
	Published bool
	Err       error
}

// PublishResult lists every package a publish run attempted.
type PublishResult struct {
	Packages []PublishedPackage
	Tags     []string
}

// Failed returns the packages that could not be published.
func (r *PublishResult) Failed() []PublishedPackage {
	failed := make([]PublishedPackage, 0)
	for _, pkg := range r.Packages {
		if !pkg.Published {
			failed = append(failed, pkg)
		}
	}
	return failed
}

// PublishCommand publishes every public package whose version is not yet on the registry.
type PublishCommand struct {
	workspace repositories.WorkspaceRepository
	registry  repositories.RegistryRepository
	git       repositories.GitRepository
}

// NewPublishCommand creates a new PublishCommand.
func NewPublishCommand(
	workspace repositories.WorkspaceRepository,
	registry repositories.RegistryRepository,
	git repositories.GitRepository,
) *PublishCommand {
	return &PublishCommand{workspace: workspace, registry: registry, git: git}
}

// Execute publishes the unpublished packages and tags them. Any failure yields ExitError{1}
// after every other package has been attempted.
func (it *PublishCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts PublishOptions,
) (*PublishResult, error) {
	if opts.Tag == "" {
		opts.Tag = defaultDistTag
	}

	packages, err := it.workspace.GetPackages(ctx, settings.RootDir, settings.Include)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace packages: %w", err)
	}

	candidates := packages.Packages
	if len(opts.Targets) > 0 {
		candidates = affectedPackages(packages, opts.Targets, settings)
	}
	candidates = graph.SortByDependencyOrder(candidates)

	public := make([]entities.Package, 0, len(candidates))
	for _, pkg := range candidates {
		if pkg.Manifest.Private {
			logger.Debugf("Skipping private package %s", pkg.Name)
			continue
		}
		public = append(public, pkg)
	}

	unpublished, err := it.unpublishedPackages(ctx, public)
	if err != nil {
		return nil, err
	}
	result := &PublishResult{Packages: make([]PublishedPackage, 0, len(unpublished))}
	if len(unpublished) == 0 {
		logger.Info("No unpublished packages to publish")
		return result, nil
	}

	if opts.DryRun {
		for _, pkg := range unpublished {
			logger.Infof("[DRY RUN] Would publish %q at %q with tag %q", pkg.Name, pkg.Version(), opts.Tag)
		}
		return result, nil
	}

	request := func(pkg entities.Package) repositories.PublishRequest {
		return repositories.PublishRequest{
			Package: pkg,
			RootDir: packages.RootDir,
			Tool:    packages.Tool,
			Access:  settings.Access,
			Tag:     opts.Tag,
		}
	}
	if settings.PublishSync {
		result.Packages = it.publishSequentially(ctx, unpublished, request)
	} else {
		result.Packages = it.publishConcurrently(ctx, unpublished, request)
	}

	if !opts.NoGitTag {
		result.Tags = it.tagReleases(ctx, packages, settings.TagSeparator, result.Packages)
	}

	failed := result.Failed()
	if len(failed) > 0 {
		for _, pkg := range failed {
			logger.Errorf("Failed to publish %s@%s: %v", pkg.Name, pkg.Version, pkg.Err)
		}
		return result, entities.NewExitError(1)
	}
	logger.Infof("Published %d package(s)", len(result.Packages))
	return result, nil
}

// unpublishedPackages queries the registry for every package and keeps those whose local
// version is missing from it.
func (it *PublishCommand) unpublishedPackages(
	ctx context.Context,
	packages []entities.Package,
) ([]entities.Package, error) {
	infos := make([]repositories.PackageInfo, len(packages))
	errs := make([]error, len(packages))

	group := new(errgroup.Group)
	group.SetLimit(registryInfoConcurrency)
	for i, pkg := range packages {
		group.Go(func() error {
			infos[i], errs[i] = it.registry.Info(ctx, pkg)
			return nil
		})
	}
	_ = group.Wait()

	unpublished := make([]entities.Package, 0, len(packages))
	failed := false
	for i, pkg := range packages {
		if errs[i] != nil {
			logger.Errorf("Could not read registry information of %q: %v", pkg.Name, errs[i])
			failed = true
			continue
		}
		if infos[i].Published && slices.Contains(infos[i].Versions, pkg.Version()) {
			logger.Warnf("%s is not being published because version %s is already published on npm",
				pkg.Name, pkg.Version())
			continue
		}
		unpublished = append(unpublished, pkg)
	}
	if failed {
		return nil, entities.NewExitError(1)
	}
	return unpublished, nil
}

func (it *PublishCommand) publishConcurrently(
	ctx context.Context,
	packages []entities.Package,
	request func(entities.Package) repositories.PublishRequest,
) []PublishedPackage {
	results := make([]PublishedPackage, len(packages))

	group := new(errgroup.Group)
	group.SetLimit(publishConcurrency)
	for i, pkg := range packages {
		group.Go(func() error {
			results[i] = it.publishOne(ctx, request(pkg))
			return nil
		})
	}
	_ = group.Wait()
	return results
}

// publishSequentially stops at the first failure.
func (it *PublishCommand) publishSequentially(
	ctx context.Context,
	packages []entities.Package,
	request func(entities.Package) repositories.PublishRequest,
) []PublishedPackage {
	results := make([]PublishedPackage, 0, len(packages))
	for _, pkg := range packages {
		published := it.publishOne(ctx, request(pkg))
		results = append(results, published)
		if !published.Published {
			break
		}
	}
	return results
}

func (it *PublishCommand) publishOne(ctx context.Context, req repositories.PublishRequest) PublishedPackage {
	logger.Infof("Publishing %q at %q", req.Package.Name, req.Package.Version())
	_, err := it.registry.Publish(ctx, req)
	return PublishedPackage{
		Name:      req.Package.Name,
		Version:   req.Package.Version(),
		Published: err == nil,
		Err:       err,
	}
}

// tagReleases creates one git tag per published package: "v<version>" for a single-package
// repository, "<name><separator><version>" otherwise. Tag failures are logged, not fatal.
func (it *PublishCommand) tagReleases(
	ctx context.Context,
	packages *entities.Packages,
	separator string,
	published []PublishedPackage,
) []string {
	tags := make([]string, 0, len(published))
	for _, pkg := range published {
		if !pkg.Published {
			continue
		}
		tag := pkg.Name + separator + pkg.Version
		if packages.Tool == entities.ToolRoot {
			tag = "v" + pkg.Version
		}
		if err := it.git.CreateTag(ctx, packages.RootDir, tag); err != nil {
			logger.Warnf("Failed to create git tag %s: %v", tag, err)
			continue
		}
		logger.Infof("New tag: %s", tag)
		tags = append(tags, tag)
	}
	return tags
}

// affectedPackages returns the targets and the packages directly depending on them.
func affectedPackages(
	packages *entities.Packages,
	targets []string,
	settings *entities.Settings,
) []entities.Package {
	deps := graph.Build(packages, graph.Options{
		WorkspaceProtocolOnly: settings.BumpVersionsWithWorkspaceProtocolOnly,
		IgnoreDevDependencies: settings.ShouldIgnoreDevDependencies(),
		Silent:                true,
	})

	byName := packages.ByName()
	affected := make(map[string]bool, len(targets))
	for _, target := range targets {
		if _, ok := byName[target]; !ok {
			logger.Warnf("Package %q is not part of the workspace or is excluded by \"include\"", target)
			continue
		}
		affected[target] = true
		for _, dependent := range deps.Dependents[target] {
			affected[dependent] = true
		}
	}

	result := make([]entities.Package, 0, len(affected))
	for _, pkg := range packages.Packages {
		if affected[pkg.Name] {
			result = append(result, pkg)
		}
	}
	return result
}
