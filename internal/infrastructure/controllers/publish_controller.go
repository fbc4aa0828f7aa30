package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xnmeet/evem/internal/domain/commands"
	"github.com/xnmeet/evem/internal/domain/entities"
)

const defaultDistTag = "latest"

// PublishController handles the "publish" subcommand.
type PublishController struct {
	command commands.Publish
}

// NewPublishController creates a new PublishController.
func NewPublishController(command commands.Publish) *PublishController {
	return &PublishController{command: command}
}

// GetBind returns the Cobra command metadata for the publish controller.
func (it *PublishController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "publish",
		Short: "Publish the packages whose version is not on the registry yet",
		Long: `Publish every non-private workspace package whose current version is missing
from its registry, dependencies first, and create a git tag per published
package.`,
	}
}

// Execute publishes the unpublished packages.
func (it *PublishController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	tag, _ := cmd.Flags().GetString("tag")
	targets, _ := cmd.Flags().GetStringArray("to")
	noGitTag, _ := cmd.Flags().GetBool("no-git-tag")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	result, err := it.command.Execute(commandContext(cmd), settings, commands.PublishOptions{
		Tag:      tag,
		Targets:  targets,
		NoGitTag: noGitTag,
		DryRun:   dryRun,
	})
	if result != nil {
		for _, pkg := range result.Failed() {
			logger.Errorf("Failed to publish %s@%s: %v", pkg.Name, pkg.Version, pkg.Err)
		}
	}
	return err
}

// AddFlags adds the publish-specific flags to the given Cobra command.
func (it *PublishController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("tag", defaultDistTag, "Registry dist-tag to publish under")
	cmd.Flags().StringArrayP("to", "t", nil, "Only publish these packages and their direct dependents (repeatable)")
	cmd.Flags().BoolP("no-git-tag", "n", false, "Do not create git tags for the published packages")
}
