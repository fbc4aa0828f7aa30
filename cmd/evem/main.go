package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xnmeet/evem/internal"
	"github.com/xnmeet/evem/internal/domain/entities"
)

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "evem",
		Short: "Version and publish the packages of a JavaScript monorepo",
		Long: `Plan and apply releases for npm, yarn and pnpm workspaces.

Developers describe their work with change files ("evem change"). The
version command folds them into version bumps, propagates the bumps to
dependents whose ranges would break, keeps fixed groups in lockstep and
writes the changelogs. The publish command then pushes every unpublished
version to its registry and tags it.

Usage:
  evem init                 Create .evem/config.json
  evem change -m "..."      Describe the changes of the current branch
  evem version              Apply the pending change files
  evem publish              Publish the new versions`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, _ []string) {
			configureLogLevel(command)
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect .evem/config.json)")
	cmd.PersistentFlags().Bool("dry-run", false,
		"Show what would be done without making changes")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")
	cmd.PersistentFlags().Bool("silent", false,
		"Only print errors")

	return cmd
}

func configureLogLevel(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	silent, _ := cmd.Flags().GetBool("silent")
	switch {
	case silent:
		logger.SetLevel(logger.ErrorLevel)
	case verbose || os.Getenv("DEBUG") == "true":
		logger.SetLevel(logger.DebugLevel)
	}
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(command *cobra.Command, arguments []string) error {
				return ctrl.Execute(command, arguments)
			},
		}
		ctrl.AddFlags(subCmd)
		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	cobraRoot := buildRootCommand()
	addSubcommands(cobraRoot, injectAppContext())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cobraRoot.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var exitErr *entities.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	logger.Fatalf("Error executing 'evem': %s", err)
}
