package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/domain/repositories"
)

// ErrMissingComment is returned when a change is requested without a description.
var ErrMissingComment = errors.New("a change needs a non-empty comment (--message)")

// Change is the interface for the change command.
type Change interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ChangeOptions) (*ChangeResult, error)
}

// ChangeOptions holds runtime options for authoring change files.
type ChangeOptions struct {
	// Targets names the packages to describe; when empty, the packages touched since the
	// base branch are used.
	Targets []string
	Type    entities.BumpType
	Comment string
	DryRun  bool
}

// ChangeResult reports the change files a run wrote.
type ChangeResult struct {
	Packages []string
	Paths    []string
}

// ChangeCommand writes one change file per selected package.
type ChangeCommand struct {
	workspace   repositories.WorkspaceRepository
	changeFiles repositories.ChangeFileRepository
	git         repositories.GitRepository
}

// NewChangeCommand creates a new ChangeCommand.
func NewChangeCommand(
	workspace repositories.WorkspaceRepository,
	changeFiles repositories.ChangeFileRepository,
	git repositories.GitRepository,
) *ChangeCommand {
	return &ChangeCommand{workspace: workspace, changeFiles: changeFiles, git: git}
}

// Execute selects the packages and writes their change files.
func (it *ChangeCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ChangeOptions,
) (*ChangeResult, error) {
	if !opts.Type.IsValid() {
		return nil, fmt.Errorf("unknown change type %q, expected one of major, minor, patch or none", opts.Type)
	}
	if strings.TrimSpace(opts.Comment) == "" {
		return nil, ErrMissingComment
	}

	packages, err := it.workspace.GetPackages(ctx, settings.RootDir, settings.Include)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace packages: %w", err)
	}

	var names []string
	if len(opts.Targets) > 0 {
		names = selectTargets(packages, opts.Targets)
	} else {
		names, err = it.changedPackages(ctx, settings, packages)
		if err != nil {
			return nil, err
		}
	}

	result := &ChangeResult{Packages: names, Paths: make([]string, 0, len(names))}
	if len(names) == 0 {
		logger.Info("No package to change (you may need to commit first, then run \"evem change\")")
		return result, nil
	}

	branch, err := it.git.CurrentBranch(ctx, settings.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to detect the git branch: %w", err)
	}
	email, err := it.git.UserEmail(ctx, settings.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read the git user email: %w", err)
	}

	for _, name := range names {
		file := entities.ChangeFile{
			PackageName: name,
			Changes: []entities.ChangeInfo{{
				PackageName: name,
				Type:        opts.Type,
				Comment:     strings.TrimSpace(opts.Comment),
				Author:      email,
			}},
			Email: email,
		}
		if opts.DryRun {
			logger.Infof("[DRY RUN] Would write a %s change for %s", opts.Type, name)
			continue
		}

		filePath, saveErr := it.changeFiles.Save(ctx, settings.ChangesDir(), branch, file)
		if saveErr != nil {
			return nil, saveErr
		}
		logger.Infof("Generated change file for %s: %s", name, filePath)
		result.Paths = append(result.Paths, filePath)
	}
	return result, nil
}

// changedPackages maps the files changed since the base branch to their packages. Without a
// base branch every workspace package is selected.
func (it *ChangeCommand) changedPackages(
	ctx context.Context,
	settings *entities.Settings,
	packages *entities.Packages,
) ([]string, error) {
	logger.Debugf("Detecting whether the base branch %q exists", settings.BaseBranch)
	files, found, err := it.git.ChangedFiles(ctx, settings.RootDir, settings.BaseBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to list changed files: %w", err)
	}
	if !found {
		logger.Warnf("The base branch %q does not exist, using all packages in the workspace", settings.BaseBranch)
		return packages.Names(), nil
	}

	names := make([]string, 0)
	for _, file := range files {
		pkg := owningPackage(packages, file)
		if pkg != nil && !slices.Contains(names, pkg.Name) {
			names = append(names, pkg.Name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// owningPackage returns the package whose directory holds file, preferring the deepest one.
func owningPackage(packages *entities.Packages, file string) *entities.Package {
	var owner *entities.Package
	for i := range packages.Packages {
		pkg := &packages.Packages[i]
		if pkg.RelativeDir == "." {
			continue
		}
		prefix := filepath.Clean(pkg.Dir) + string(filepath.Separator)
		if !strings.HasPrefix(filepath.Clean(file), prefix) {
			continue
		}
		if owner == nil || len(pkg.Dir) > len(owner.Dir) {
			owner = pkg
		}
	}
	if owner == nil && packages.Tool == entities.ToolRoot && len(packages.Packages) == 1 {
		return &packages.Packages[0]
	}
	return owner
}

func selectTargets(packages *entities.Packages, targets []string) []string {
	byName := packages.ByName()
	names := make([]string, 0, len(targets))
	for _, target := range targets {
		if _, ok := byName[target]; !ok {
			logger.Warnf("Package %q does not exist or is excluded by \"include\"", target)
			continue
		}
		if !slices.Contains(names, target) {
			names = append(names, target)
		}
	}
	return names
}
