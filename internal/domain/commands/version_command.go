package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/domain/repositories"
	"github.com/xnmeet/evem/internal/scheduler"
)

// Version is the interface for the version command.
type Version interface {
	Execute(ctx context.Context, settings *entities.Settings, opts VersionOptions) (*VersionResult, error)
}

// VersionOptions holds runtime options for a single version run.
type VersionOptions struct {
	Targets     []string
	PreName     string
	OnlyNone    bool
	Independent bool
	// List prints the plan as JSON and writes nothing.
	List   bool
	DryRun bool
	// OnPlan observes the releases that carry an actual bump, before anything is written.
	OnPlan func([]entities.ReleasePlan)
	// Output receives the --list JSON (stdout when nil).
	Output io.Writer
}

// VersionResult reports what a version run did.
type VersionResult struct {
	Plan               *scheduler.Plan
	UpdatedChangelogs  []string
	DeletedChangeFiles []string
}

// VersionCommand applies pending change files: it bumps versions, rewrites dependent
// ranges, updates changelogs and removes the change files it folded in.
type VersionCommand struct {
	workspace   repositories.WorkspaceRepository
	changeFiles repositories.ChangeFileRepository
	changelogs  repositories.ChangelogRepository
	planner     *scheduler.Scheduler
	now         func() time.Time
}

// NewVersionCommand creates a new VersionCommand.
func NewVersionCommand(
	workspace repositories.WorkspaceRepository,
	changeFiles repositories.ChangeFileRepository,
	changelogs repositories.ChangelogRepository,
	planner *scheduler.Scheduler,
) *VersionCommand {
	return &VersionCommand{
		workspace:   workspace,
		changeFiles: changeFiles,
		changelogs:  changelogs,
		planner:     planner,
		now:         time.Now,
	}
}

// Execute plans the release and, unless listing or dry-running, applies it.
func (it *VersionCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts VersionOptions,
) (*VersionResult, error) {
	versionCtx := settings.VersionContext(opts.PreName, opts.OnlyNone, opts.Independent)
	if opts.OnlyNone && !versionCtx.IsPrerelease() {
		logger.Warn("--only-none has no effect without --pre")
	}

	packages, err := it.workspace.GetPackages(ctx, settings.RootDir, settings.Include)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace packages: %w", err)
	}
	files, err := it.changeFiles.List(ctx, settings.ChangesDir())
	if err != nil {
		return nil, err
	}

	plan, err := it.planner.Plan(scheduler.Input{
		Packages:    packages,
		ChangeFiles: files,
		Context:     versionCtx,
		Targets:     opts.Targets,
	})
	if err != nil {
		return nil, err
	}
	result := &VersionResult{Plan: plan}

	ready := plan.Ready()
	if opts.OnPlan != nil {
		releases := make([]entities.ReleasePlan, 0, len(ready))
		for _, release := range ready {
			releases = append(releases, *release.Clone())
		}
		opts.OnPlan(releases)
	}

	if opts.List {
		return result, printPlan(opts.Output, plan)
	}
	if len(plan.Releases) == 0 {
		logger.Info("No change files found, nothing to version")
		logWarnings(plan.Warnings)
		return result, nil
	}
	if opts.DryRun {
		for _, release := range plan.Releases {
			logger.Infof("[DRY RUN] Would version %s: %s -> %s (%s)",
				release.Name, release.OldVersion, release.NewVersion, release.Bump)
		}
		logWarnings(plan.Warnings)
		return result, nil
	}

	for _, update := range plan.Updates {
		if writeErr := it.workspace.WriteManifest(ctx, update); writeErr != nil {
			return nil, writeErr
		}
	}

	if !versionCtx.IsPrerelease() {
		if err = it.updateChangelogs(ctx, packages, plan, files, result); err != nil {
			return nil, err
		}
	}

	for _, release := range plan.Releases {
		if release.NewVersion == release.OldVersion {
			continue
		}
		logger.Infof("%s: %s -> %s (%s, %s)",
			release.Name, release.OldVersion, release.NewVersion, release.Bump, release.Cause)
	}
	logWarnings(plan.Warnings)
	logger.Infof("Versioned %d package(s)", len(ready))
	return result, nil
}

// updateChangelogs prepends an entry for every release that changes a version or carries
// authored comments, then deletes the change files whose packages were all covered.
func (it *VersionCommand) updateChangelogs(
	ctx context.Context,
	packages *entities.Packages,
	plan *scheduler.Plan,
	files []entities.ChangeFile,
	result *VersionResult,
) error {
	byName := packages.ByName()
	written := make(map[string]bool)

	for _, release := range plan.Releases {
		if release.NewVersion == release.OldVersion && !hasAuthoredChanges(release) {
			continue
		}
		pkg, ok := byName[release.Name]
		if !ok {
			return entities.NewInternalError("could not find package %q in repository", release.Name)
		}

		changelog, err := it.changelogs.Load(ctx, pkg.Dir, release.Name)
		if err != nil {
			return err
		}
		if changelog.HasVersion(release.NewVersion) {
			logger.Debugf("Changelog of %s already has %s", release.Name, release.NewVersion)
			continue
		}
		changelog.Prepend(entities.NewChangelogEntry(release, it.now()))
		if err = it.changelogs.Save(ctx, pkg.Dir, changelog); err != nil {
			return err
		}
		written[release.Name] = true
		result.UpdatedChangelogs = append(result.UpdatedChangelogs, release.Name)
	}

	toDelete := make([]string, 0)
	for _, file := range files {
		covered := true
		for _, name := range file.ReferencedPackages() {
			if !written[name] {
				covered = false
				break
			}
		}
		if covered && file.Path != "" {
			toDelete = append(toDelete, file.Path)
		}
	}
	if len(toDelete) == 0 {
		return nil
	}
	logger.Debugf("Deleting %d change file(s)", len(toDelete))
	if err := it.changeFiles.Delete(ctx, toDelete); err != nil {
		return err
	}
	result.DeletedChangeFiles = toDelete
	return nil
}

func hasAuthoredChanges(release *entities.ReleasePlan) bool {
	for _, change := range release.Changes {
		if change.Bucket() != entities.KindDependency {
			return true
		}
	}
	return false
}

// printPlan writes the releases without their change logs.
func printPlan(output io.Writer, plan *scheduler.Plan) error {
	if output == nil {
		output = os.Stdout
	}
	releases := make([]entities.ReleasePlan, 0, len(plan.Releases))
	for _, release := range plan.Releases {
		listed := *release
		listed.Changes = nil
		releases = append(releases, listed)
	}
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(releases); err != nil {
		return fmt.Errorf("failed to print the release plan: %w", err)
	}
	return nil
}

func logWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	logger.Warnf("%d warning(s) were raised while planning:", len(warnings))
	for _, warning := range warnings {
		logger.Warnf(" - %s", warning)
	}
}
