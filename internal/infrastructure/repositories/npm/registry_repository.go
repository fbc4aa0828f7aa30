package npm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/domain/repositories"
)

const (
	defaultRegistry  = "https://registry.npmjs.org/"
	yarnRegistryHost = "registry.yarnpkg.com"
	notFoundCode     = "E404"
	pnpmLockFileName = "pnpm-lock.yaml"
	registryEnvVar   = "npm_config_registry"
)

// RegistryError is the "error" object npm prints with --json.
type RegistryError struct {
	Package string
	Code    string `json:"code"`
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

func (e *RegistryError) Error() string {
	message := fmt.Sprintf("registry error %s for %q", e.Code, e.Package)
	if e.Summary != "" {
		message += ": " + e.Summary
	}
	if e.Detail != "" {
		message += "\n" + e.Detail
	}
	return message
}

// Repository queries and publishes packages through the npm and pnpm CLIs.
type Repository struct {
	runner CommandRunner

	configRegistryOnce sync.Once
	configRegistry     string
}

// NewRepository creates a registry repository backed by runner.
func NewRepository(runner CommandRunner) *Repository {
	return &Repository{runner: runner}
}

// Info runs "npm info --json". An unknown package is reported as unpublished.
func (r *Repository) Info(ctx context.Context, pkg entities.Package) (repositories.PackageInfo, error) {
	info := repositories.PackageInfo{Name: pkg.Name}
	logger.Debugf("npm info %s", pkg.Name)

	result, err := r.runner.Run(ctx, Command{
		Name: "npm",
		Args: []string{"info", pkg.Name, "--registry", r.registryFor(ctx, &pkg), "--json"},
		Dir:  pkg.Dir,
	})
	if err != nil {
		return info, fmt.Errorf("failed to run npm info for %q: %w", pkg.Name, err)
	}

	// some registries answer an unknown package with an empty body instead of E404
	if strings.TrimSpace(result.Stdout) == "" {
		if result.ExitCode != 0 {
			if registryErr := lastRegistryError(result.Stderr); registryErr != nil && registryErr.Code != notFoundCode {
				registryErr.Package = pkg.Name
				return info, registryErr
			}
		}
		return info, nil
	}

	var payload struct {
		Versions json.RawMessage `json:"versions"`
		Error    *RegistryError  `json:"error"`
	}
	if err = json.Unmarshal([]byte(result.Stdout), &payload); err != nil {
		return info, fmt.Errorf("failed to parse npm info output for %q: %w", pkg.Name, err)
	}
	if payload.Error != nil {
		if payload.Error.Code == notFoundCode {
			return info, nil
		}
		payload.Error.Package = pkg.Name
		return info, payload.Error
	}

	info.Published = true
	info.Versions = parseVersions(payload.Versions)
	return info, nil
}

// Publish publishes a single package with pnpm or npm and returns the CLI output.
func (r *Repository) Publish(ctx context.Context, req repositories.PublishRequest) (string, error) {
	pkg := req.Package
	access := req.Access
	publishDir := pkg.Dir
	if config := pkg.Manifest.PublishConfig; config != nil {
		if config.Access != "" {
			access = config.Access
		}
		if config.Directory != "" {
			publishDir = filepath.Join(pkg.Dir, config.Directory)
		}
	}

	flags := make([]string, 0)
	if access != "" {
		flags = append(flags, "--access", access)
	}
	flags = append(flags, "--tag", req.Tag)

	command := Command{Env: []string{registryEnvVar + "=" + r.registryFor(ctx, nil)}}
	if usesPnpm(req.RootDir, req.Tool) {
		command.Name = "pnpm"
		command.Args = append([]string{"publish", "--json"}, append(flags, "--no-git-checks")...)
		command.Dir = pkg.Dir
	} else {
		command.Name = "npm"
		command.Args = append([]string{"publish", publishDir, "--json"}, flags...)
		command.Dir = req.RootDir
	}
	logger.Debugf("%s %s", command.Name, strings.Join(command.Args, " "))

	result, err := r.runner.Run(ctx, command)
	if err != nil {
		return "", fmt.Errorf("failed to run %s publish for %q: %w", command.Name, pkg.Name, err)
	}
	if result.ExitCode == 0 {
		return result.Stdout, nil
	}

	// the --json payload is printed last, after any lifecycle script output
	registryErr := lastRegistryError(result.Stderr)
	if registryErr == nil {
		registryErr = lastRegistryError(result.Stdout)
	}
	if registryErr != nil {
		registryErr.Package = pkg.Name
		return result.Stdout, registryErr
	}
	output := result.Stderr
	if output == "" {
		output = result.Stdout
	}
	return result.Stdout, fmt.Errorf("publishing %q failed: %s", pkg.Name, strings.TrimSpace(output))
}

// registryFor resolves the registry from publishConfig, then the environment, then npm config.
func (r *Repository) registryFor(ctx context.Context, pkg *entities.Package) string {
	registry := ""
	if pkg != nil && pkg.Manifest.PublishConfig != nil {
		registry = pkg.Manifest.PublishConfig.Registry
	}
	if registry == "" {
		registry = os.Getenv(registryEnvVar)
	}
	if registry == "" {
		registry = r.npmConfigRegistry(ctx)
	}
	if registry == "" || strings.Contains(registry, yarnRegistryHost) {
		return defaultRegistry
	}
	return registry
}

func (r *Repository) npmConfigRegistry(ctx context.Context) string {
	r.configRegistryOnce.Do(func() {
		result, err := r.runner.Run(ctx, Command{Name: "npm", Args: []string{"config", "get", "registry"}})
		if err != nil || result.ExitCode != 0 {
			logger.Debugf("Could not read the npm registry from npm config: %v", err)
			return
		}
		r.configRegistry = strings.TrimSpace(result.Stdout)
	})
	return r.configRegistry
}

func usesPnpm(rootDir string, tool entities.ToolKind) bool {
	if _, err := os.Stat(filepath.Join(rootDir, pnpmLockFileName)); err == nil {
		return true
	}
	return tool == entities.ToolPnpm
}

// parseVersions accepts the list npm prints, or the bare string it prints for a single version.
func parseVersions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var versions []string
	if err := json.Unmarshal(raw, &versions); err == nil {
		return versions
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return []string{}
}

// lastRegistryError finds the last JSON object in output and returns its "error" member.
func lastRegistryError(output string) *RegistryError {
	object := lastJSONObject(output)
	if object == nil {
		return nil
	}
	var payload struct {
		Error *RegistryError `json:"error"`
	}
	if err := json.Unmarshal(object, &payload); err != nil {
		return nil
	}
	return payload.Error
}

// lastJSONObject returns the text from the first "{" that starts a valid object running up to
// the last "}" of output.
func lastJSONObject(output string) []byte {
	end := strings.LastIndex(output, "}")
	if end < 0 {
		return nil
	}
	candidate := output[:end+1]
	for start := strings.Index(candidate, "{"); start >= 0; {
		if json.Valid([]byte(candidate[start:])) {
			return []byte(candidate[start:])
		}
		next := strings.Index(candidate[start+1:], "{")
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil
}
