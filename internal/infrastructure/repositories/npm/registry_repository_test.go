//go:build unit

package npm_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/domain/repositories"
	"github.com/xnmeet/evem/internal/infrastructure/repositories/npm"
	builders "github.com/xnmeet/evem/test/domain/entitybuilders"
)

// scriptedRunner answers "npm config get registry" and replays one result for everything else.
type scriptedRunner struct {
	mu       sync.Mutex
	result   npm.Result
	err      error
	commands []npm.Command
}

func (r *scriptedRunner) Run(_ context.Context, command npm.Command) (npm.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, command)
	if len(command.Args) > 1 && command.Args[0] == "config" {
		return npm.Result{Stdout: "https://registry.example.com/\n"}, nil
	}
	return r.result, r.err
}

func (r *scriptedRunner) last() npm.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commands[len(r.commands)-1]
}

func TestRepository_Info(t *testing.T) {
	t.Parallel()

	t.Run("should report published versions", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &scriptedRunner{result: npm.Result{Stdout: `{"name":"a","versions":["1.0.0","1.1.0"]}`}}
		pkg := builders.NewPackageBuilder().WithName("a").
			WithPublishConfig(entities.PublishConfig{Registry: "https://npm.internal/"}).BuildPackage()

		// when
		info, err := npm.NewRepository(runner).Info(context.Background(), pkg)

		// then
		require.NoError(t, err)
		assert.True(t, info.Published)
		assert.Equal(t, []string{"1.0.0", "1.1.0"}, info.Versions)
		assert.Equal(t, []string{"info", "a", "--registry", "https://npm.internal/", "--json"}, runner.last().Args)
	})

	t.Run("should accept a single version printed as a string", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &scriptedRunner{result: npm.Result{Stdout: `{"name":"a","versions":"1.0.0"}`}}
		pkg := builders.NewPackageBuilder().WithName("a").BuildPackage()

		// when
		info, err := npm.NewRepository(runner).Info(context.Background(), pkg)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"1.0.0"}, info.Versions)
	})

	t.Run("should treat E404 and empty output as unpublished", func(t *testing.T) {
		t.Parallel()

		for _, stdout := range []string{`{"error":{"code":"E404","summary":"Not found"}}`, ""} {
			// given
			runner := &scriptedRunner{result: npm.Result{Stdout: stdout, ExitCode: 1}}
			pkg := builders.NewPackageBuilder().WithName("fresh").BuildPackage()

			// when
			info, err := npm.NewRepository(runner).Info(context.Background(), pkg)

			// then
			require.NoError(t, err)
			assert.False(t, info.Published)
		}
	})

	t.Run("should fail on any other registry error", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &scriptedRunner{result: npm.Result{
			Stdout:   `{"error":{"code":"E401","summary":"Unauthorized"}}`,
			ExitCode: 1,
		}}
		pkg := builders.NewPackageBuilder().WithName("secret").BuildPackage()

		// when
		_, err := npm.NewRepository(runner).Info(context.Background(), pkg)

		// then
		var registryErr *npm.RegistryError
		require.ErrorAs(t, err, &registryErr)
		assert.Equal(t, "E401", registryErr.Code)
		assert.Equal(t, "secret", registryErr.Package)
	})

	t.Run("should fall back to the npm config registry", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &scriptedRunner{result: npm.Result{Stdout: `{"versions":[]}`}}
		pkg := builders.NewPackageBuilder().WithName("a").BuildPackage()
		if os.Getenv("npm_config_registry") != "" {
			t.Skip("npm_config_registry is set in the environment")
		}

		// when
		_, err := npm.NewRepository(runner).Info(context.Background(), pkg)

		// then
		require.NoError(t, err)
		assert.Contains(t, runner.last().Args, "https://registry.example.com/")
	})
}

func TestRepository_Publish(t *testing.T) {
	t.Parallel()

	t.Run("should publish the configured directory with npm", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &scriptedRunner{result: npm.Result{Stdout: `{"id":"a@1.0.0"}`}}
		pkg := builders.NewPackageBuilder().WithName("a").WithDir("/repo/packages/a").
			WithPublishConfig(entities.PublishConfig{Directory: "dist", Access: "public"}).BuildPackage()

		// when
		output, err := npm.NewRepository(runner).Publish(context.Background(), repositories.PublishRequest{
			Package: pkg,
			RootDir: t.TempDir(),
			Tool:    entities.ToolNpm,
			Access:  "restricted",
			Tag:     "latest",
		})

		// then
		require.NoError(t, err)
		assert.Contains(t, output, "a@1.0.0")
		command := runner.last()
		assert.Equal(t, "npm", command.Name)
		assert.Equal(t, []string{
			"publish", filepath.Join("/repo/packages/a", "dist"), "--json", "--access", "public", "--tag", "latest",
		}, command.Args)
	})

	t.Run("should publish from the package dir with pnpm when its lockfile exists", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "pnpm-lock.yaml"), []byte(""), 0o644))
		runner := &scriptedRunner{result: npm.Result{}}
		pkg := builders.NewPackageBuilder().WithName("a").WithDir("/repo/packages/a").BuildPackage()

		// when
		_, err := npm.NewRepository(runner).Publish(context.Background(), repositories.PublishRequest{
			Package: pkg,
			RootDir: root,
			Tool:    entities.ToolNpm,
			Tag:     "next",
		})

		// then
		require.NoError(t, err)
		command := runner.last()
		assert.Equal(t, "pnpm", command.Name)
		assert.Equal(t, "/repo/packages/a", command.Dir)
		assert.Equal(t, []string{"publish", "--json", "--tag", "next", "--no-git-checks"}, command.Args)
	})

	t.Run("should surface the last JSON error printed after script output", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &scriptedRunner{result: npm.Result{
			Stdout:   "> prepublish {weird}\n",
			Stderr:   "npm ERR! {\n  \"error\": {\"code\": \"EPUBLISHCONFLICT\", \"summary\": \"exists\"}\n}\n",
			ExitCode: 1,
		}}
		pkg := builders.NewPackageBuilder().WithName("a").BuildPackage()

		// when
		_, err := npm.NewRepository(runner).Publish(context.Background(), repositories.PublishRequest{
			Package: pkg, RootDir: t.TempDir(), Tag: "latest",
		})

		// then
		var registryErr *npm.RegistryError
		require.ErrorAs(t, err, &registryErr)
		assert.Equal(t, "EPUBLISHCONFLICT", registryErr.Code)
	})

	t.Run("should fail when the command cannot start", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &scriptedRunner{err: errors.New("executable not found")}
		pkg := builders.NewPackageBuilder().WithName("a").BuildPackage()

		// when
		_, err := npm.NewRepository(runner).Publish(context.Background(), repositories.PublishRequest{
			Package: pkg, RootDir: t.TempDir(), Tag: "latest",
		})

		// then
		require.Error(t, err)
	})
}
