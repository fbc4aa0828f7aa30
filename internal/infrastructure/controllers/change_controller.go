package controllers

import (
	"github.com/spf13/cobra"

	"github.com/xnmeet/evem/internal/domain/commands"
	"github.com/xnmeet/evem/internal/domain/entities"
)

// ChangeController handles the "change" subcommand.
type ChangeController struct {
	command commands.Change
}

// NewChangeController creates a new ChangeController.
func NewChangeController(command commands.Change) *ChangeController {
	return &ChangeController{command: command}
}

// GetBind returns the Cobra command metadata for the change controller.
func (it *ChangeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "change",
		Short: "Describe a change with a change file",
		Long: `Write a change file for each package touched since the base branch,
or for the packages given with --to. The next "evem version" folds the
change files into version bumps and changelog entries.`,
	}
}

// Execute writes the change files.
func (it *ChangeController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	targets, _ := cmd.Flags().GetStringArray("to")
	rawType, _ := cmd.Flags().GetString("type")
	message, _ := cmd.Flags().GetString("message")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	bump, err := entities.ParseBumpType(rawType)
	if err != nil {
		return err
	}

	_, err = it.command.Execute(commandContext(cmd), settings, commands.ChangeOptions{
		Targets: targets,
		Type:    bump,
		Comment: message,
		DryRun:  dryRun,
	})
	return err
}

// AddFlags adds the change-specific flags to the given Cobra command.
func (it *ChangeController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("to", "t", nil, "Describe these packages instead of the changed ones (repeatable)")
	cmd.Flags().String("type", string(entities.BumpPatch), "Change type: major, minor, patch or none")
	cmd.Flags().StringP("message", "m", "", "Describe the change")
}
