//go:build unit

package controllers_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/infrastructure/controllers"
	doubles "github.com/xnmeet/evem/test/domain/commanddoubles"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	configPath := filepath.Join(root, ".evem", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o755))
	require.NoError(t, os.WriteFile(configPath, []byte(`{"baseBranch": "develop"}`), 0o644))
	return configPath
}

func newCommand(t *testing.T, controller entities.Controller, args ...string) *cobra.Command {
	t.Helper()
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{Use: controller.GetBind().Use}
	cmd.Flags().StringP("config", "c", "", "")
	cmd.Flags().Bool("dry-run", false, "")
	controller.AddFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestVersionController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should forward the flags and the loaded settings", func(t *testing.T) {
		t.Parallel()

		// given
		configPath := writeConfig(t)
		command := &doubles.StubVersionCommand{}
		controller := controllers.NewVersionController(command)
		cmd := newCommand(t, controller,
			"--config", configPath, "-t", "a", "--to", "b", "--pre", "beta", "--only-none", "--list", "--dry-run")

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, command.ExecuteCallCount)
		assert.Equal(t, "develop", command.LastSettings.BaseBranch)
		assert.Equal(t, filepath.Dir(filepath.Dir(configPath)), command.LastSettings.RootDir)
		assert.Equal(t, []string{"a", "b"}, command.LastOpts.Targets)
		assert.Equal(t, "beta", command.LastOpts.PreName)
		assert.True(t, command.LastOpts.OnlyNone)
		assert.False(t, command.LastOpts.Independent)
		assert.True(t, command.LastOpts.List)
		assert.True(t, command.LastOpts.DryRun)
		assert.NotNil(t, command.LastOpts.OnPlan)
	})

	t.Run("should fail without calling the command when the config is invalid", func(t *testing.T) {
		t.Parallel()

		// given
		command := &doubles.StubVersionCommand{}
		controller := controllers.NewVersionController(command)
		cmd := newCommand(t, controller, "--config", filepath.Join(t.TempDir(), "missing.json"))

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.Error(t, err)
		assert.Zero(t, command.ExecuteCallCount)
	})
}

func TestPublishController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should default the dist-tag and forward the exit error", func(t *testing.T) {
		t.Parallel()

		// given
		command := &doubles.StubPublishCommand{ExecuteErr: entities.NewExitError(1)}
		controller := controllers.NewPublishController(command)
		cmd := newCommand(t, controller, "--config", writeConfig(t), "-n", "-t", "a")

		// when
		err := controller.Execute(cmd, nil)

		// then
		var exitErr *entities.ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 1, exitErr.Code)
		assert.Equal(t, "latest", command.LastOpts.Tag)
		assert.True(t, command.LastOpts.NoGitTag)
		assert.Equal(t, []string{"a"}, command.LastOpts.Targets)
	})
}

func TestChangeController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should parse the type and forward the message", func(t *testing.T) {
		t.Parallel()

		// given
		command := &doubles.StubChangeCommand{}
		controller := controllers.NewChangeController(command)
		cmd := newCommand(t, controller, "--config", writeConfig(t), "--type", "minor", "-m", "add flag")

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.BumpMinor, command.LastOpts.Type)
		assert.Equal(t, "add flag", command.LastOpts.Comment)
	})

	t.Run("should reject an unknown type", func(t *testing.T) {
		t.Parallel()

		// given
		command := &doubles.StubChangeCommand{}
		controller := controllers.NewChangeController(command)
		cmd := newCommand(t, controller, "--config", writeConfig(t), "--type", "huge", "-m", "x")

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.Error(t, err)
		assert.Zero(t, command.ExecuteCallCount)
	})
}

func TestInitController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should pass the path argument and the flags", func(t *testing.T) {
		t.Parallel()

		// given
		command := &doubles.StubInitCommand{}
		controller := controllers.NewInitController(command)
		cmd := newCommand(t, controller, "--base-branch", "trunk")

		// when
		err := controller.Execute(cmd, []string{"/tmp/repo"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "/tmp/repo", command.LastOpts.RootDir)
		assert.Equal(t, "trunk", command.LastOpts.BaseBranch)
		assert.Empty(t, command.LastOpts.ChangesFolder)
	})
}

func TestNewControllers(t *testing.T) {
	t.Parallel()

	// given
	initController := controllers.NewInitController(&doubles.StubInitCommand{})
	changeController := controllers.NewChangeController(&doubles.StubChangeCommand{})
	versionController := controllers.NewVersionController(&doubles.StubVersionCommand{})
	publishController := controllers.NewPublishController(&doubles.StubPublishCommand{})

	// when
	all := controllers.NewControllers(initController, changeController, versionController, publishController)

	// then
	uses := make([]string, 0, len(*all))
	for _, controller := range *all {
		uses = append(uses, controller.GetBind().Use)
	}
	assert.Equal(t, []string{"init [path]", "change", "version", "publish"}, uses)
}
