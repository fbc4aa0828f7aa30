package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	logger "github.com/sirupsen/logrus"

	"github.com/xnmeet/evem/internal/domain/entities"
	"github.com/xnmeet/evem/internal/infrastructure/repositories/glob"
)

const nodeModulesDir = "node_modules"

// Repository discovers the packages of a JavaScript workspace on disk.
type Repository struct {
	detectors *DetectorRegistry
	matcher   *glob.Matcher
}

// NewRepository creates a workspace repository using the given detectors.
func NewRepository(detectors *DetectorRegistry, matcher *glob.Matcher) *Repository {
	return &Repository{detectors: detectors, matcher: matcher}
}

// GetPackages loads every workspace package under rootDir.
func (r *Repository) GetPackages(_ context.Context, rootDir string, include []string) (*entities.Packages, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	tool, globs, err := r.detectors.Detect(absRoot)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Detected %s workspace at %s", tool, absRoot)

	rootPackage, err := loadRootPackage(absRoot)
	if err != nil {
		return nil, err
	}

	packages := &entities.Packages{Tool: tool, RootDir: absRoot}
	if tool == entities.ToolRoot {
		if rootPackage == nil {
			return nil, fmt.Errorf("no %s found in %s", manifestFileName, absRoot)
		}
		packages.Packages = []entities.Package{*rootPackage}
		return packages, nil
	}
	packages.RootPackage = rootPackage

	dirs, err := r.expandGlobs(absRoot, globs)
	if err != nil {
		return nil, err
	}
	for _, relativeDir := range dirs {
		if len(include) > 0 && !r.matcher.MatchAny(include, relativeDir) {
			continue
		}
		dir := filepath.Join(absRoot, filepath.FromSlash(relativeDir))
		manifest, readErr := readManifest(dir)
		if readErr != nil {
			return nil, readErr
		}
		if manifest.Name == "" {
			logger.Warnf("Skipping %s: %s has no name", relativeDir, manifestFileName)
			continue
		}
		packages.Packages = append(packages.Packages, entities.Package{
			Name:        manifest.Name,
			Dir:         dir,
			RelativeDir: relativeDir,
			Manifest:    manifest,
		})
	}

	return packages, nil
}

// WriteManifest patches dir/package.json with the rewritten version and ranges.
func (r *Repository) WriteManifest(_ context.Context, update entities.ManifestUpdate) error {
	filePath := filepath.Join(update.Dir, manifestFileName)

	original, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	patched, err := patchManifest(original, update.Manifest)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", filePath, err)
	}

	mode := os.FileMode(manifestFileMode)
	if info, statErr := os.Stat(filePath); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err = os.WriteFile(filePath, patched, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	logger.Debugf("Updated %s", filePath)
	return nil
}

// expandGlobs returns the slash-separated relative directories holding a package.json that
// match the workspace globs, sorted. Negated globs exclude and node_modules is never entered.
func (r *Repository) expandGlobs(rootDir string, globs []string) ([]string, error) {
	patterns := make([]string, 0, len(globs))
	for _, pattern := range globs {
		patterns = append(patterns, normalizePattern(pattern))
	}

	fsys := os.DirFS(rootDir)
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		matches, err := doublestar.Glob(fsys, path.Join(pattern, manifestFileName))
		if err != nil {
			return nil, fmt.Errorf("invalid workspace glob %q: %w", pattern, err)
		}
		for _, match := range matches {
			dir := path.Dir(match)
			if dir == "." || slices.Contains(strings.Split(dir, "/"), nodeModulesDir) {
				continue
			}
			if r.matcher.MatchAny(patterns, dir) {
				seen[dir] = true
			}
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	return dirs, nil
}

func normalizePattern(pattern string) string {
	negated := strings.HasPrefix(pattern, "!")
	pattern = strings.TrimPrefix(pattern, "!")
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	pattern = strings.TrimSuffix(pattern, "/")
	if negated {
		return "!" + pattern
	}
	return pattern
}

func loadRootPackage(rootDir string) (*entities.Package, error) {
	manifest, err := readManifest(rootDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil //nolint:nilnil // a workspace root without manifest is allowed
	}
	if err != nil {
		return nil, err
	}
	return &entities.Package{
		Name:        manifest.Name,
		Dir:         rootDir,
		RelativeDir: ".",
		Manifest:    manifest,
	}, nil
}
