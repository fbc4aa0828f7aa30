package controllers

import (
	"github.com/spf13/cobra"

	"github.com/xnmeet/evem/internal/domain/commands"
	"github.com/xnmeet/evem/internal/domain/entities"
)

// InitController handles the "init" subcommand.
type InitController struct {
	command commands.Init
}

// NewInitController creates a new InitController.
func NewInitController(command commands.Init) *InitController {
	return &InitController{command: command}
}

// GetBind returns the Cobra command metadata for the init controller.
func (it *InitController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "init [path]",
		Short: "Create the evem configuration",
		Long:  `Create .evem/config.json with the default settings and the changes folder.`,
	}
}

// Execute creates the configuration in the given directory (default: current).
func (it *InitController) Execute(cmd *cobra.Command, args []string) error {
	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}
	baseBranch, _ := cmd.Flags().GetString("base-branch")
	changesFolder, _ := cmd.Flags().GetString("changes-folder")

	_, err := it.command.Execute(commandContext(cmd), commands.InitOptions{
		RootDir:       rootDir,
		BaseBranch:    baseBranch,
		ChangesFolder: changesFolder,
	})
	return err
}

// AddFlags adds the init-specific flags to the given Cobra command.
func (it *InitController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("base-branch", "", "Branch that change detection diffs against (default: main)")
	cmd.Flags().String("changes-folder", "", "Folder holding the change files (default: .evem/changes)")
}
