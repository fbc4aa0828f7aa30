package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xnmeet/evem/internal/domain/commands"
	"github.com/xnmeet/evem/internal/domain/entities"
)

// VersionController handles the "version" subcommand.
type VersionController struct {
	command commands.Version
}

// NewVersionController creates a new VersionController.
func NewVersionController(command commands.Version) *VersionController {
	return &VersionController{command: command}
}

// GetBind returns the Cobra command metadata for the version controller.
func (it *VersionController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "version",
		Short: "Bump versions from the pending change files",
		Long: `Read the pending change files, compute the release plan for the workspace
and apply it: bump package versions, rewrite the ranges of dependents,
update CHANGELOG.json and CHANGELOG.md and delete the folded change files.

Dependents are bumped when a new version leaves their declared range,
and packages of a fixed group always share a single version.`,
	}
}

// Execute plans and applies the release.
func (it *VersionController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	targets, _ := cmd.Flags().GetStringArray("to")
	preName, _ := cmd.Flags().GetString("pre")
	onlyNone, _ := cmd.Flags().GetBool("only-none")
	independent, _ := cmd.Flags().GetBool("independent")
	list, _ := cmd.Flags().GetBool("list")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	_, err = it.command.Execute(commandContext(cmd), settings, commands.VersionOptions{
		Targets:     targets,
		PreName:     preName,
		OnlyNone:    onlyNone,
		Independent: independent,
		List:        list,
		DryRun:      dryRun,
		OnPlan: func(releases []entities.ReleasePlan) {
			for _, release := range releases {
				logger.Debugf("Planned %s %s -> %s (%s, %s)",
					release.Name, release.OldVersion, release.NewVersion, release.Bump, release.Cause)
			}
		},
		Output: cmd.OutOrStdout(),
	})
	return err
}

// AddFlags adds the version-specific flags to the given Cobra command.
func (it *VersionController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("to", "t", nil, "Only release these packages (repeatable)")
	cmd.Flags().String("pre", "", "Cut a prerelease with this label (e.g. beta)")
	cmd.Flags().Bool("only-none", false, "With --pre, only release packages without an authored bump")
	cmd.Flags().Bool("independent", false, "With --pre, keep the prerelease counter per package")
	cmd.Flags().Bool("list", false, "Print the release plan as JSON and write nothing")
}
