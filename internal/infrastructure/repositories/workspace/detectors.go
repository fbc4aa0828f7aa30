package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/xnmeet/evem/internal/domain/entities"
)

const (
	manifestFileName      = "package.json"
	pnpmWorkspaceFileName = "pnpm-workspace.yaml"
	yarnLockFileName      = "yarn.lock"
	lernaFileName         = "lerna.json"
	rushFileName          = "rush.json"
)

var defaultLernaPackages = []string{"packages/*"} //nolint:gochecknoglobals // lerna's own default

type pnpmDetector struct{}

func (d *pnpmDetector) Kind() entities.ToolKind { return entities.ToolPnpm }

func (d *pnpmDetector) Detect(rootDir string) ([]string, bool, error) {
	content, err := os.ReadFile(filepath.Join(rootDir, pnpmWorkspaceFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", pnpmWorkspaceFileName, err)
	}

	var config struct {
		Packages []string `yaml:"packages"`
	}
	if err = yaml.Unmarshal(content, &config); err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", pnpmWorkspaceFileName, err)
	}
	return config.Packages, true, nil
}

type yarnDetector struct{}

func (d *yarnDetector) Kind() entities.ToolKind { return entities.ToolYarn }

func (d *yarnDetector) Detect(rootDir string) ([]string, bool, error) {
	if _, err := os.Stat(filepath.Join(rootDir, yarnLockFileName)); err != nil {
		return nil, false, nil //nolint:nilerr // a missing lockfile means another tool
	}
	return readWorkspacesField(rootDir)
}

type npmDetector struct{}

func (d *npmDetector) Kind() entities.ToolKind { return entities.ToolNpm }

func (d *npmDetector) Detect(rootDir string) ([]string, bool, error) {
	return readWorkspacesField(rootDir)
}

type lernaDetector struct{}

func (d *lernaDetector) Kind() entities.ToolKind { return entities.ToolLerna }

func (d *lernaDetector) Detect(rootDir string) ([]string, bool, error) {
	var config struct {
		Packages []string `json:"packages"`
	}
	found, err := readJSONC(filepath.Join(rootDir, lernaFileName), &config)
	if err != nil || !found {
		return nil, false, err
	}
	if len(config.Packages) == 0 {
		return defaultLernaPackages, true, nil
	}
	return config.Packages, true, nil
}

// rushDetector lists the project folders of rush.json. Projects that do not set
// shouldPublish are not part of the release workspace.
type rushDetector struct{}

func (d *rushDetector) Kind() entities.ToolKind { return entities.ToolRush }

func (d *rushDetector) Detect(rootDir string) ([]string, bool, error) {
	var config struct {
		Projects []struct {
			PackageName   string `json:"packageName"`
			ProjectFolder string `json:"projectFolder"`
			ShouldPublish bool   `json:"shouldPublish"`
		} `json:"projects"`
	}
	found, err := readJSONC(filepath.Join(rootDir, rushFileName), &config)
	if err != nil || !found {
		return nil, false, err
	}

	folders := make([]string, 0, len(config.Projects))
	for _, project := range config.Projects {
		if !project.ShouldPublish || project.ProjectFolder == "" {
			continue
		}
		folders = append(folders, project.ProjectFolder)
	}
	return folders, true, nil
}

// readJSONC decodes a JSON file that may carry comments and trailing commas, as rush.json
// and lerna.json commonly do. A missing file is reported as not found.
func readJSONC(filePath string, target any) (bool, error) {
	content, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	standard, err := hujson.Standardize(content)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	if err = json.Unmarshal(standard, target); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	return true, nil
}

// rootDetector always matches: the repository is a single package.
type rootDetector struct{}

func (d *rootDetector) Kind() entities.ToolKind { return entities.ToolRoot }

func (d *rootDetector) Detect(_ string) ([]string, bool, error) {
	return nil, true, nil
}

// readWorkspacesField reads the "workspaces" field of the root manifest, which is either
// a list of globs or an object carrying them under "packages".
func readWorkspacesField(rootDir string) ([]string, bool, error) {
	content, err := os.ReadFile(filepath.Join(rootDir, manifestFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read root %s: %w", manifestFileName, err)
	}

	var root struct {
		Workspaces json.RawMessage `json:"workspaces"`
	}
	if err = json.Unmarshal(content, &root); err != nil {
		return nil, false, fmt.Errorf("failed to parse root %s: %w", manifestFileName, err)
	}
	if len(root.Workspaces) == 0 {
		return nil, false, nil
	}

	var globs []string
	if err = json.Unmarshal(root.Workspaces, &globs); err == nil {
		return globs, true, nil
	}
	var object struct {
		Packages []string `json:"packages"`
	}
	if err = json.Unmarshal(root.Workspaces, &object); err != nil {
		return nil, false, fmt.Errorf("unsupported \"workspaces\" field in root %s: %w", manifestFileName, err)
	}
	return object.Packages, true, nil
}
